/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flowview

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"vnweaver/internal/script"
)

// Status is the lifecycle state of a pending node.
type Status string

const (
	// StatusCreated: the node exists on the canvas, unconnected.
	StatusCreated Status = "created"
	// StatusConnected: an inbound edge from an existing node has been drawn.
	StatusConnected Status = "connected"
	// StatusSynced: folded into the statement model; the entry is expected
	// to be removed by the caller afterwards.
	StatusSynced Status = "synced"
	// StatusOrphan: detected unreachable from any root. Diagnostic, not a
	// deletion; the node stays editable and reconnectable.
	StatusOrphan Status = "orphan"
)

// ErrNotConnected is returned when a pending node without an inbound
// connection is committed.
var ErrNotConnected = errors.New("pending node is not connected")

// PendingNode is a flow node created on the canvas with no statement backing
// it yet. Data holds the eventual statement's field values keyed by slot
// name.
type PendingNode struct {
	ID           string
	Kind         NodeKind
	Status       Status
	Data         map[string]string
	X, Y         float64
	SourceNodeID string
	SourceHandle string
	StatementID  script.ID // set by MarkSynced
	LabelName    string    // set by MarkSynced
	CreatedAt    time.Time
}

// Pool is the staging store for pending nodes, keyed by node id. Methods are
// safe to call from one logical owner at a time and must not be re-entered
// from within each other. Nothing is evicted implicitly: entries leave the
// pool only through Remove or Clear.
type Pool struct {
	mu    sync.Mutex
	nodes map[string]*PendingNode
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{nodes: make(map[string]*PendingNode)}
}

// Add inserts the node, overwriting in place when the id is already present
// (update semantics; the pool size does not change). A zero status defaults
// to created, a zero CreatedAt to now.
func (p *Pool) Add(n PendingNode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n.Status == "" {
		n.Status = StatusCreated
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	c := n
	p.nodes[n.ID] = &c
}

// Get returns a copy of the node.
func (p *Pool) Get(id string) (PendingNode, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[id]
	if !ok {
		return PendingNode{}, false
	}
	return *n, true
}

// Remove deletes the entry; it reports whether the id was present.
func (p *Pool) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.nodes[id]; !ok {
		return false
	}
	delete(p.nodes, id)
	return true
}

// GetAll returns copies of all entries, oldest first.
func (p *Pool) GetAll() []PendingNode {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PendingNode, 0, len(p.nodes))
	for _, n := range p.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Clear removes every entry.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes = make(map[string]*PendingNode)
}

// Size returns the number of entries.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.nodes)
}

// UpdateStatus sets the lifecycle state.
func (p *Pool) UpdateStatus(id string, st Status) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[id]
	if !ok {
		return false
	}
	n.Status = st
	return true
}

// UpdateConnection records the inbound edge drawn to this node and forces
// the status to connected.
func (p *Pool) UpdateConnection(id, sourceNodeID, sourceHandle string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[id]
	if !ok {
		return false
	}
	n.SourceNodeID = sourceNodeID
	n.SourceHandle = sourceHandle
	n.Status = StatusConnected
	return true
}

// MarkSynced stamps the statement linkage produced by a fold-in and forces
// the status to synced. The caller removes the entry afterwards.
func (p *Pool) MarkSynced(id string, stmtID script.ID, labelName string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[id]
	if !ok {
		return false
	}
	n.StatementID = stmtID
	n.LabelName = labelName
	n.Status = StatusSynced
	return true
}

// UpdateData merges the patch into the node's payload.
func (p *Pool) UpdateData(id string, patch map[string]string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[id]
	if !ok {
		return false
	}
	if n.Data == nil {
		n.Data = make(map[string]string, len(patch))
	}
	for k, v := range patch {
		n.Data[k] = v
	}
	return true
}

// UpdatePosition moves the node on the canvas.
func (p *Pool) UpdatePosition(id string, x, y float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[id]
	if !ok {
		return false
	}
	n.X, n.Y = x, y
	return true
}

// GetByStatus returns copies of the entries in the given state, oldest first.
func (p *Pool) GetByStatus(st Status) []PendingNode {
	var out []PendingNode
	for _, n := range p.GetAll() {
		if n.Status == st {
			out = append(out, n)
		}
	}
	return out
}

// GetOrphanNodes returns the entries flagged orphan.
func (p *Pool) GetOrphanNodes() []PendingNode { return p.GetByStatus(StatusOrphan) }

// GetConnectedNodes returns the entries with a drawn inbound edge.
func (p *Pool) GetConnectedNodes() []PendingNode { return p.GetByStatus(StatusConnected) }

// MergePending returns a copy of the graph with the pool's unsynced entries
// added as pending nodes, plus their drawn connections as edges. The result
// is what the resolver checks should run on while staged nodes exist.
func MergePending(g *Graph, p *Pool) *Graph {
	out := &Graph{
		Nodes: make([]*Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	for _, n := range p.GetAll() {
		if n.Status == StatusSynced {
			continue
		}
		out.Nodes = append(out.Nodes, &Node{ID: n.ID, Kind: n.Kind, Pending: true})
		if n.SourceNodeID != "" {
			out.Edges = append(out.Edges, Edge{From: n.SourceNodeID, To: n.ID, Port: n.SourceHandle})
		}
	}
	return out
}

// RefreshOrphanStatus re-derives the orphan flag for every unsynced entry
// from the merged graph: unreachable entries become orphan, reachable ones
// flagged orphan earlier go back to their connection-derived state.
func RefreshOrphanStatus(p *Pool, merged *Graph) {
	orphan := map[string]bool{}
	for _, id := range Orphans(merged) {
		orphan[id] = true
	}
	for _, n := range p.GetAll() {
		switch n.Status {
		case StatusSynced:
			continue
		case StatusOrphan:
			if !orphan[n.ID] {
				if n.SourceNodeID != "" {
					p.UpdateStatus(n.ID, StatusConnected)
				} else {
					p.UpdateStatus(n.ID, StatusCreated)
				}
			}
		default:
			if orphan[n.ID] {
				p.UpdateStatus(n.ID, StatusOrphan)
			}
		}
	}
}

func kindToStatement(k NodeKind) script.Kind {
	switch k {
	case NodeDialogue:
		return script.KindDialogue
	case NodeMenu:
		return script.KindMenu
	case NodeIf:
		return script.KindIf
	case NodeJump:
		return script.KindJump
	case NodeCall:
		return script.KindCall
	case NodeReturn:
		return script.KindReturn
	}
	return ""
}

// Commit folds a connected pending node into the statement model: a new
// statement is created from the node's kind and payload and appended to the
// body of the label that owns the node's source, the entry is marked synced,
// and the new forest plus the new statement id are returned. The caller
// rebuilds both projections and removes the pool entry.
func Commit(sc *script.Script, g *Graph, p *Pool, nodeID string) (*script.Script, script.ID, error) {
	n, ok := p.Get(nodeID)
	if !ok {
		return sc, "", fmt.Errorf("%w: pending node %s", script.ErrNotFound, nodeID)
	}
	if n.SourceNodeID == "" {
		return sc, "", fmt.Errorf("%w: %s", ErrNotConnected, nodeID)
	}
	labelName, ok := ResolveNodeLabel(g, n.SourceNodeID)
	if !ok {
		return sc, "", fmt.Errorf("%w: source %s has no owning label", ErrNotConnected, n.SourceNodeID)
	}
	kind := kindToStatement(n.Kind)
	if kind == "" {
		return sc, "", fmt.Errorf("pending node %s has no statement kind", nodeID)
	}
	stmt := script.NewStatement(kind)
	applyPendingData(stmt, n.Data)

	// The graph may be stale: the owning label can be gone from the forest.
	l, ok := sc.LabelByName(labelName)
	if !ok {
		return sc, "", fmt.Errorf("%w: label %q", script.ErrNotFound, labelName)
	}
	out := sc.CloneFor(l.ID)
	cl, _ := out.LabelByName(labelName)
	cl.Body = append(cl.Body, stmt)

	p.MarkSynced(nodeID, stmt.StatementID(), labelName)
	return out, stmt.StatementID(), nil
}

// applyPendingData copies the payload fields the canvas editor collects for
// freshly staged nodes. Container internals (choices, branches) are edited
// on the block surface after the fold-in.
func applyPendingData(s script.Statement, data map[string]string) {
	if len(data) == 0 {
		return
	}
	switch t := s.(type) {
	case *script.Dialogue:
		t.Speaker = data["speaker"]
		t.Text = data["text"]
	case *script.Menu:
		t.Prompt = data["prompt"]
	case *script.Jump:
		t.Target = data["target"]
	case *script.Call:
		t.Target = data["target"]
	}
}
