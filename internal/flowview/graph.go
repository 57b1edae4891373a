/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package flowview projects the statement model into the flow-editing
// surface: one node per primitive statement (dialogue runs collapsed into
// composite nodes), edges for sequential fall-through and choice/branch
// forks, plus the soundness checks (orphans, invalid targets, cycles) and the
// staging pool for nodes created directly on the canvas.
package flowview

import (
	"vnweaver/internal/script"
)

// NodeKind classifies a flow node.
type NodeKind string

const (
	// NodeScene is the root node of a label; exactly one per label.
	NodeScene NodeKind = "scene"
	// NodeDialogue is a composite node holding a run of dialogue and
	// visual/audio command statements.
	NodeDialogue NodeKind = "dialogue"
	NodeMenu     NodeKind = "menu"
	NodeIf       NodeKind = "if"
	NodeJump     NodeKind = "jump"
	NodeCall     NodeKind = "call"
	NodeReturn   NodeKind = "return"
)

// Port is a stable outgoing connection point on a menu or if node. Its ID is
// the owning choice/branch statement id, so reordering choices does not
// relabel existing edges.
type Port struct {
	ID    string
	Label string
}

// Node is one flow-graph node. ID is the originating statement's id (the
// first statement of a collapsed run, or the label id for scene roots); for
// staged nodes it is the pending-pool entry id and Pending is set.
type Node struct {
	ID           string
	Kind         NodeKind
	LabelName    string // scene roots only
	StatementIDs []script.ID
	Target       string // jump/call only
	Ports        []Port // menu/if only
	Pending      bool
}

// Edge is a directed connection. Port is empty for sequential fall-through
// and carries the originating choice/branch port id for fork edges.
type Edge struct {
	From string
	To   string
	Port string
}

// Graph is the flow projection of a forest. Like the block tree it is
// rebuilt from the model after every mutation, never patched in place.
type Graph struct {
	Nodes []*Node
	Edges []Edge
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Roots returns the scene nodes, one per label.
func (g *Graph) Roots() []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodeScene {
			out = append(out, n)
		}
	}
	return out
}

// forking statements break a dialogue run and get a node of their own.
func isForking(k script.Kind) bool {
	switch k {
	case script.KindMenu, script.KindIf, script.KindJump, script.KindCall, script.KindReturn:
		return true
	}
	return false
}

// Build projects the whole forest into a flow graph. Each label yields one
// scene root with no incoming edges from its own body; jump/call targets are
// resolved by label name during analysis, not materialized as edges.
func Build(sc *script.Script) *Graph {
	g := &Graph{}
	for _, l := range sc.Labels() {
		root := &Node{ID: string(l.ID), Kind: NodeScene, LabelName: l.Name, StatementIDs: []script.ID{l.ID}}
		g.Nodes = append(g.Nodes, root)
		first := g.buildSequence(l.Body)
		if first != "" {
			g.Edges = append(g.Edges, Edge{From: root.ID, To: first})
		}
	}
	return g
}

// buildSequence emits nodes for one statement sequence, chains them with
// sequential edges, and returns the first node's id ("" for an empty or
// node-less sequence).
func (g *Graph) buildSequence(stmts []script.Statement) string {
	first := ""
	prev := ""
	link := func(id string) {
		if first == "" {
			first = id
		}
		if prev != "" {
			g.Edges = append(g.Edges, Edge{From: prev, To: id})
		}
		prev = id
	}

	i := 0
	for i < len(stmts) {
		s := stmts[i]
		if !isForking(s.Kind()) {
			// collapse the run of linear statements into one composite node
			n := &Node{ID: string(s.StatementID()), Kind: NodeDialogue}
			for i < len(stmts) && !isForking(stmts[i].Kind()) {
				n.StatementIDs = append(n.StatementIDs, stmts[i].StatementID())
				i++
			}
			g.Nodes = append(g.Nodes, n)
			link(n.ID)
			continue
		}
		switch t := s.(type) {
		case *script.Menu:
			n := &Node{ID: string(t.ID), Kind: NodeMenu, StatementIDs: []script.ID{t.ID}}
			for _, ch := range t.Choices {
				n.Ports = append(n.Ports, Port{ID: string(ch.ID), Label: ch.Text})
			}
			g.Nodes = append(g.Nodes, n)
			link(n.ID)
			for _, ch := range t.Choices {
				if sub := g.buildSequence(ch.Body); sub != "" {
					g.Edges = append(g.Edges, Edge{From: n.ID, To: sub, Port: string(ch.ID)})
				}
			}
		case *script.If:
			n := &Node{ID: string(t.ID), Kind: NodeIf, StatementIDs: []script.ID{t.ID}}
			for _, b := range t.Branches {
				label := b.Condition
				if label == "" {
					label = "else"
				}
				n.Ports = append(n.Ports, Port{ID: string(b.ID), Label: label})
			}
			g.Nodes = append(g.Nodes, n)
			link(n.ID)
			for _, b := range t.Branches {
				if sub := g.buildSequence(b.Body); sub != "" {
					g.Edges = append(g.Edges, Edge{From: n.ID, To: sub, Port: string(b.ID)})
				}
			}
		case *script.Jump:
			n := &Node{ID: string(t.ID), Kind: NodeJump, StatementIDs: []script.ID{t.ID}, Target: t.Target}
			g.Nodes = append(g.Nodes, n)
			link(n.ID)
		case *script.Call:
			n := &Node{ID: string(t.ID), Kind: NodeCall, StatementIDs: []script.ID{t.ID}, Target: t.Target}
			g.Nodes = append(g.Nodes, n)
			link(n.ID)
		case *script.Return:
			n := &Node{ID: string(t.ID), Kind: NodeReturn, StatementIDs: []script.ID{t.ID}}
			g.Nodes = append(g.Nodes, n)
			link(n.ID)
		}
		i++
	}
	return first
}
