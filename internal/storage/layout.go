/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// NodePosition is a persisted flow-canvas coordinate for one node.
type NodePosition struct {
	NodeID string
	X, Y   float64
}

// SaveNodePosition upserts the canvas coordinate for a flow node. Positions
// live in the per-project index, not the manifest: layout is presentation
// state and can always be re-derived or auto-arranged.
func SaveNodePosition(ctx context.Context, ph *ProjectHandle, nodeID string, x, y float64) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if strings.TrimSpace(nodeID) == "" {
		return errors.New("node id is required")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx,
		`INSERT INTO node_positions(node_id, x, y, updated_at) VALUES(?,?,?,?)
		 ON CONFLICT(node_id) DO UPDATE SET x=excluded.x, y=excluded.y, updated_at=excluded.updated_at`,
		nodeID, x, y, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// LoadNodePositions returns all persisted canvas coordinates keyed by node id.
func LoadNodePositions(ctx context.Context, ph *ProjectHandle) (map[string]NodePosition, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, `SELECT node_id, x, y FROM node_positions`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := map[string]NodePosition{}
	for rows.Next() {
		var p NodePosition
		if err := rows.Scan(&p.NodeID, &p.X, &p.Y); err != nil {
			return nil, err
		}
		out[p.NodeID] = p
	}
	return out, rows.Err()
}

// DeleteNodePosition drops the stored coordinate for a node (e.g. after the
// backing statement was deleted).
func DeleteNodePosition(ctx context.Context, ph *ProjectHandle, nodeID string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, `DELETE FROM node_positions WHERE node_id=?`, nodeID)
	return err
}

// SetUIState stores one editor state value (active label, zoom, pane sizes).
func SetUIState(ctx context.Context, ph *ProjectHandle, key, value string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("key is required")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx,
		`INSERT INTO ui_state(key, value) VALUES(?,?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return err
}

// GetUIState returns the stored value for key, or "" when unset.
func GetUIState(ctx context.Context, ph *ProjectHandle, key string) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()
	var v string
	err = db.QueryRowContext(ctx, `SELECT value FROM ui_state WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
