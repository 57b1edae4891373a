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
	"testing"
)

func TestNodePositionsRoundTrip(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, sampleProject("Layout"))
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()

	if err := SaveNodePosition(ctx, ph, "n1", 120, 80); err != nil {
		t.Fatalf("SaveNodePosition: %v", err)
	}
	if err := SaveNodePosition(ctx, ph, "n2", -40, 260.5); err != nil {
		t.Fatalf("SaveNodePosition: %v", err)
	}
	// upsert
	if err := SaveNodePosition(ctx, ph, "n1", 121, 81); err != nil {
		t.Fatalf("SaveNodePosition upsert: %v", err)
	}

	got, err := LoadNodePositions(ctx, ph)
	if err != nil {
		t.Fatalf("LoadNodePositions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(got))
	}
	if p := got["n1"]; p.X != 121 || p.Y != 81 {
		t.Fatalf("n1 position: %+v", p)
	}
	if p := got["n2"]; p.Y != 260.5 {
		t.Fatalf("n2 position: %+v", p)
	}

	if err := DeleteNodePosition(ctx, ph, "n1"); err != nil {
		t.Fatalf("DeleteNodePosition: %v", err)
	}
	got, err = LoadNodePositions(ctx, ph)
	if err != nil {
		t.Fatalf("LoadNodePositions: %v", err)
	}
	if _, ok := got["n1"]; ok {
		t.Fatalf("n1 still present after delete")
	}
}

func TestUIStateRoundTrip(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, sampleProject("UIState"))
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()

	if v, err := GetUIState(ctx, ph, "active_label"); err != nil || v != "" {
		t.Fatalf("unset key: %q %v", v, err)
	}
	if err := SetUIState(ctx, ph, "active_label", "start"); err != nil {
		t.Fatalf("SetUIState: %v", err)
	}
	if err := SetUIState(ctx, ph, "active_label", "ending"); err != nil {
		t.Fatalf("SetUIState overwrite: %v", err)
	}
	if v, err := GetUIState(ctx, ph, "active_label"); err != nil || v != "ending" {
		t.Fatalf("GetUIState: %q %v", v, err)
	}
	if err := SetUIState(ctx, ph, " ", "x"); err == nil {
		t.Fatalf("blank key accepted")
	}
}
