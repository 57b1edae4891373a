/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// Snapshot represents a reversible state blob for one label's subtree.
// Blob content is opaque to the manager; size is estimated as len(Blob).
// TS is when the snapshot was captured.
type Snapshot struct {
	Label string
	Blob  []byte
	TS    time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerLabel limits number of snapshots per label kept in memory (0 means unlimited).
	MaxPerLabel int
	// MinInterval coalesces snapshots captured within the interval for the same label,
	// replacing the previous one instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per label with performance
// safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-label stacks
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	// Set conservative defaults if not provided
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// PushSnapshot records a snapshot for a label. If within MinInterval from the
// last snapshot on the same label, it replaces the last one. Clears the redo
// stack for that label.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.Label]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: adjust accounting and replace
			m.totalBytes -= len(last.Blob)
			m.totalBytes += len(s.Blob)
			stack[n-1] = s
			m.undo[s.Label] = stack
			m.redo[s.Label] = nil
			m.enforceCapsLocked(s.Label)
			return
		}
	}
	// Push new
	stack = append(stack, s)
	m.undo[s.Label] = stack
	m.totalBytes += len(s.Blob)
	// Any new change invalidates redo for the label
	m.redo[s.Label] = nil
	m.enforceCapsLocked(s.Label)
}

// Undo pops from the label undo stack and pushes to redo stack, returning the snapshot.
func (m *Manager) Undo(label string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[label]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[label] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[label] = append(m.redo[label], s)
	return s, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(label string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[label]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[label] = r[:len(r)-1]
	m.undo[label] = append(m.undo[label], s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(label)
	return s, true
}

// ClearLabel clears undo/redo stacks for a label to free memory.
func (m *Manager) ClearLabel(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[label] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, label)
	delete(m.redo, label)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, labels int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	labels = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, labels, totalSnapshots
}

func (m *Manager) enforceCapsLocked(label string) {
	// Per-label depth cap
	if m.cfg.MaxPerLabel > 0 {
		stack := m.undo[label]
		if len(stack) > m.cfg.MaxPerLabel {
			// drop the oldest extras
			toDrop := len(stack) - m.cfg.MaxPerLabel
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[label] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all labels
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestLabel := ""
		oldestIdx := -1
		var oldestTS time.Time
		for lbl, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestLabel = lbl
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestLabel]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestLabel] = stack[1:]
		if len(m.undo[oldestLabel]) == 0 {
			delete(m.undo, oldestLabel)
		}
	}
}
