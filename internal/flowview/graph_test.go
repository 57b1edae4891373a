/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flowview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vnweaver/internal/script"
)

func testForest() *script.Script {
	return &script.Script{Statements: []script.Statement{
		&script.Label{Meta: script.Meta{ID: "start"}, Name: "start", Body: []script.Statement{
			&script.Scene{Meta: script.Meta{ID: "sc1"}, Image: "bg room"},
			&script.Dialogue{Meta: script.Meta{ID: "d1"}, Speaker: "eileen", Text: "Hello."},
			&script.Menu{Meta: script.Meta{ID: "m1"}, Choices: []*script.Choice{
				{Meta: script.Meta{ID: "c1"}, Text: "Stay", Body: []script.Statement{
					&script.Dialogue{Meta: script.Meta{ID: "d2"}, Text: "You stay."},
				}},
				{Meta: script.Meta{ID: "c2"}, Text: "Leave", Body: []script.Statement{
					&script.Jump{Meta: script.Meta{ID: "j1"}, Target: "ending"},
				}},
			}},
			&script.Play{Meta: script.Meta{ID: "p1"}, Channel: "music", File: "theme.ogg"},
		}},
		&script.Label{Meta: script.Meta{ID: "ending"}, Name: "ending", Body: []script.Statement{
			&script.Dialogue{Meta: script.Meta{ID: "d3"}, Text: "The end."},
		}},
	}}
}

func edgeSet(g *Graph) map[Edge]bool {
	out := make(map[Edge]bool, len(g.Edges))
	for _, e := range g.Edges {
		out[e] = true
	}
	return out
}

func TestBuildOneSceneRootPerLabel(t *testing.T) {
	g := Build(testForest())
	roots := g.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "start", roots[0].LabelName)
	assert.Equal(t, "ending", roots[1].LabelName)
	// scene root id is the label's statement id
	assert.Equal(t, "start", roots[0].ID)

	// no edge points at a scene root
	for _, e := range g.Edges {
		for _, r := range roots {
			assert.NotEqual(t, r.ID, e.To, "scene root has an incoming edge")
		}
	}
}

func TestBuildCollapsesLinearRuns(t *testing.T) {
	g := Build(testForest())

	// sc1+d1 collapse into one composite node keyed by the run's first id
	run := g.Node("sc1")
	require.NotNil(t, run)
	assert.Equal(t, NodeDialogue, run.Kind)
	assert.Equal(t, []script.ID{"sc1", "d1"}, run.StatementIDs)
	assert.Nil(t, g.Node("d1"), "collapsed statement must not get its own node")

	// the menu breaks the run; p1 starts a fresh composite after it
	tail := g.Node("p1")
	require.NotNil(t, tail)
	assert.Equal(t, []script.ID{"p1"}, tail.StatementIDs)

	edges := edgeSet(g)
	assert.True(t, edges[Edge{From: "start", To: "sc1"}])
	assert.True(t, edges[Edge{From: "sc1", To: "m1"}])
	assert.True(t, edges[Edge{From: "m1", To: "p1"}])
}

func TestBuildMenuPortsAndForkEdges(t *testing.T) {
	g := Build(testForest())
	m := g.Node("m1")
	require.NotNil(t, m)
	require.Equal(t, NodeMenu, m.Kind)
	require.Len(t, m.Ports, 2)
	// ports are keyed by the choice statement ids, so reordering choices
	// cannot relabel existing connections
	assert.Equal(t, Port{ID: "c1", Label: "Stay"}, m.Ports[0])
	assert.Equal(t, Port{ID: "c2", Label: "Leave"}, m.Ports[1])

	edges := edgeSet(g)
	assert.True(t, edges[Edge{From: "m1", To: "d2", Port: "c1"}])
	assert.True(t, edges[Edge{From: "m1", To: "j1", Port: "c2"}])
}

func TestBuildJumpTargetsNotMaterializedAsEdges(t *testing.T) {
	g := Build(testForest())
	j := g.Node("j1")
	require.NotNil(t, j)
	assert.Equal(t, NodeJump, j.Kind)
	assert.Equal(t, "ending", j.Target)
	// the jump is resolved by name, never drawn as an edge into the
	// target label's subgraph
	for _, e := range g.Edges {
		if e.From == "j1" {
			t.Fatalf("jump node has outgoing edge %+v", e)
		}
	}
}

func TestBuildIfPorts(t *testing.T) {
	sc := &script.Script{Statements: []script.Statement{
		&script.Label{Meta: script.Meta{ID: "l1"}, Name: "day", Body: []script.Statement{
			&script.If{Meta: script.Meta{ID: "i1"}, Branches: []*script.Branch{
				{Meta: script.Meta{ID: "b1"}, Condition: "points > 3", Body: []script.Statement{
					&script.Dialogue{Meta: script.Meta{ID: "d1"}, Text: "Good end."},
				}},
				{Meta: script.Meta{ID: "b2"}, Body: []script.Statement{
					&script.Return{Meta: script.Meta{ID: "r1"}},
				}},
			}},
		}},
	}}
	g := Build(sc)
	n := g.Node("i1")
	require.NotNil(t, n)
	require.Len(t, n.Ports, 2)
	assert.Equal(t, "points > 3", n.Ports[0].Label)
	assert.Equal(t, "else", n.Ports[1].Label, "empty condition reads as else")

	edges := edgeSet(g)
	assert.True(t, edges[Edge{From: "i1", To: "d1", Port: "b1"}])
	assert.True(t, edges[Edge{From: "i1", To: "r1", Port: "b2"}])
}

func TestBuildEmptyLabel(t *testing.T) {
	sc := &script.Script{Statements: []script.Statement{
		&script.Label{Meta: script.Meta{ID: "l1"}, Name: "stub"},
	}}
	g := Build(sc)
	require.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
}

func TestBuildIsDeterministic(t *testing.T) {
	sc := testForest()
	a := Build(sc)
	b := Build(sc)
	require.Len(t, b.Nodes, len(a.Nodes))
	for i := range a.Nodes {
		assert.Equal(t, *a.Nodes[i], *b.Nodes[i])
	}
	assert.Equal(t, a.Edges, b.Edges)
}
