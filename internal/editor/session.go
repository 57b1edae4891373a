/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor ties one open project to its in-memory edit history.
// Structural edits go through Session.Apply so every change captures an undo
// snapshot, counts a usage event, and swaps the forest atomically.
package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"vnweaver/internal/config"
	applog "vnweaver/internal/log"
	"vnweaver/internal/script"
	"vnweaver/internal/storage"
	"vnweaver/internal/telemetry"
	"vnweaver/internal/undo"
)

// Session is the edit surface over an open project. It is not safe for
// concurrent use; callers serialize access the way the rest of the editor
// does.
//
// Redo needs the post-edit state of a label, which the undo manager does not
// keep, so the session stashes it in a parallel per-label stack.
type Session struct {
	ph    *storage.ProjectHandle
	cfg   config.AppConfig
	hist  *undo.Manager
	stash map[string][][]byte
	log   *slog.Logger
}

// NewSession wraps an open project handle. The undo depth comes from the
// user's editor configuration.
func NewSession(ph *storage.ProjectHandle, cfg config.AppConfig) *Session {
	return &Session{
		ph:    ph,
		cfg:   cfg,
		hist:  undo.NewManager(undo.Config{MaxPerLabel: cfg.Editor.UndoDepth}),
		stash: make(map[string][][]byte),
		log:   applog.WithComponent("editor"),
	}
}

// Forest returns the current statement forest.
func (s *Session) Forest() *script.Script { return s.ph.Project.Script }

// Apply runs one structural edit against the forest. The label's pre-edit
// subtree goes onto the undo stack first; on success the project forest is
// swapped for the edit's result and an edit event is counted. On error the
// forest and the history are left untouched.
func (s *Session) Apply(labelName, op string, edit func(*script.Script) (*script.Script, error)) error {
	before, err := encodeLabel(s.ph.Project.Script, labelName)
	if err != nil {
		return err
	}
	next, err := edit(s.ph.Project.Script)
	if err != nil {
		return err
	}
	s.hist.PushSnapshot(undo.Snapshot{Label: labelName, Blob: before, TS: time.Now()})
	delete(s.stash, labelName)
	s.ph.Project.Script = next
	telemetry.Event("edit", map[string]any{"op": op, "label": labelName})
	s.log.Debug("edit applied", slog.String("op", op), slog.String("label", labelName))
	return nil
}

// Undo restores the label to its state before the most recent edit. It
// reports false when there is nothing to undo.
func (s *Session) Undo(labelName string) (bool, error) {
	current, err := encodeLabel(s.ph.Project.Script, labelName)
	if err != nil {
		return false, err
	}
	snap, ok := s.hist.Undo(labelName)
	if !ok {
		return false, nil
	}
	next, err := restoreLabel(s.ph.Project.Script, labelName, snap.Blob)
	if err != nil {
		// put the entry back so the history stays consistent
		s.hist.Redo(labelName)
		return false, err
	}
	s.stash[labelName] = append(s.stash[labelName], current)
	s.ph.Project.Script = next
	return true, nil
}

// Redo re-applies the most recently undone edit for the label.
func (s *Session) Redo(labelName string) (bool, error) {
	st := s.stash[labelName]
	if len(st) == 0 {
		return false, nil
	}
	next, err := restoreLabel(s.ph.Project.Script, labelName, st[len(st)-1])
	if err != nil {
		return false, err
	}
	if _, ok := s.hist.Redo(labelName); !ok {
		return false, nil
	}
	s.stash[labelName] = st[:len(st)-1]
	s.ph.Project.Script = next
	return true, nil
}

// Save persists the project manifest, then refreshes the per-label history
// kept in the index database: one snapshot per label, pruned to the
// configured depth, followed by the search index.
func (s *Session) Save(ctx context.Context) error {
	if err := storage.Save(s.ph); err != nil {
		return err
	}
	now := time.Now()
	for _, l := range s.ph.Project.Script.Labels() {
		blob, err := encodeLabel(s.ph.Project.Script, l.Name)
		if err != nil {
			return err
		}
		if err := storage.SaveSnapshot(ctx, s.ph, l.Name, blob, now); err != nil {
			return fmt.Errorf("snapshot label %q: %w", l.Name, err)
		}
		if _, err := storage.PruneOldSnapshots(ctx, s.ph, l.Name, s.cfg.Editor.SnapshotsPerLabel); err != nil {
			return fmt.Errorf("prune snapshots for %q: %w", l.Name, err)
		}
	}
	if err := storage.UpdateIndex(ctx, s.ph.Root, s.ph.Project); err != nil {
		s.log.Warn("index update failed", slog.Any("err", err))
	}
	return nil
}

// encodeLabel serializes one label's subtree through the forest codec.
func encodeLabel(sc *script.Script, labelName string) ([]byte, error) {
	l, ok := sc.LabelByName(labelName)
	if !ok {
		return nil, fmt.Errorf("%w: label %q", script.ErrNotFound, labelName)
	}
	one := &script.Script{Statements: []script.Statement{l}}
	return json.Marshal(one)
}

// restoreLabel swaps the named label for the decoded blob, sharing every
// other top-level subtree with the input forest.
func restoreLabel(sc *script.Script, labelName string, blob []byte) (*script.Script, error) {
	var one script.Script
	if err := json.Unmarshal(blob, &one); err != nil {
		return nil, fmt.Errorf("decode label snapshot: %w", err)
	}
	if len(one.Statements) != 1 {
		return nil, fmt.Errorf("decode label snapshot: %d top-level statements", len(one.Statements))
	}
	l, ok := one.Statements[0].(*script.Label)
	if !ok || l.Name != labelName {
		return nil, fmt.Errorf("decode label snapshot: not label %q", labelName)
	}
	out := &script.Script{Statements: make([]script.Statement, len(sc.Statements))}
	replaced := false
	for i, top := range sc.Statements {
		if cur, ok := top.(*script.Label); ok && cur.Name == labelName && !replaced {
			out.Statements[i] = l
			replaced = true
			continue
		}
		out.Statements[i] = top
	}
	if !replaced {
		return sc, fmt.Errorf("%w: label %q", script.ErrNotFound, labelName)
	}
	return out, nil
}
