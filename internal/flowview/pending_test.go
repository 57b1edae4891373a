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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vnweaver/internal/script"
)

func TestPoolAddIsUpsert(t *testing.T) {
	p := NewPool()
	p.Add(PendingNode{ID: "pn1", Kind: NodeDialogue})
	p.Add(PendingNode{ID: "pn1", Kind: NodeDialogue, X: 40, Y: 80})
	assert.Equal(t, 1, p.Size())
	n, ok := p.Get("pn1")
	require.True(t, ok)
	assert.Equal(t, 40.0, n.X)
	assert.Equal(t, StatusCreated, n.Status, "zero status defaults to created")
	assert.False(t, n.CreatedAt.IsZero())
}

func TestPoolGetReturnsCopy(t *testing.T) {
	p := NewPool()
	p.Add(PendingNode{ID: "pn1", Kind: NodeDialogue, Data: map[string]string{"text": "a"}})
	n, _ := p.Get("pn1")
	n.Status = StatusOrphan
	again, _ := p.Get("pn1")
	assert.Equal(t, StatusCreated, again.Status)
}

func TestPoolLifecycle(t *testing.T) {
	p := NewPool()
	p.Add(PendingNode{ID: "pn1", Kind: NodeJump})

	require.True(t, p.UpdateConnection("pn1", "d3", ""))
	n, _ := p.Get("pn1")
	assert.Equal(t, StatusConnected, n.Status)
	assert.Equal(t, "d3", n.SourceNodeID)

	require.True(t, p.MarkSynced("pn1", "s-new", "ending"))
	n, _ = p.Get("pn1")
	assert.Equal(t, StatusSynced, n.Status)
	assert.Equal(t, script.ID("s-new"), n.StatementID)
	assert.Equal(t, "ending", n.LabelName)

	// synced entries are removed by the caller, never auto-evicted
	assert.Equal(t, 1, p.Size())
	assert.True(t, p.Remove("pn1"))
	assert.False(t, p.Remove("pn1"))
}

func TestPoolUpdateDataMerges(t *testing.T) {
	p := NewPool()
	p.Add(PendingNode{ID: "pn1", Kind: NodeDialogue, Data: map[string]string{"speaker": "eileen"}})
	require.True(t, p.UpdateData("pn1", map[string]string{"text": "Hi."}))
	n, _ := p.Get("pn1")
	assert.Equal(t, "eileen", n.Data["speaker"])
	assert.Equal(t, "Hi.", n.Data["text"])
	assert.False(t, p.UpdateData("ghost", nil))
}

func TestPoolGetAllOrderAndFilters(t *testing.T) {
	p := NewPool()
	base := time.Now()
	p.Add(PendingNode{ID: "pn2", Kind: NodeDialogue, CreatedAt: base.Add(time.Second)})
	p.Add(PendingNode{ID: "pn1", Kind: NodeDialogue, CreatedAt: base})
	p.Add(PendingNode{ID: "pn3", Kind: NodeJump, CreatedAt: base.Add(2 * time.Second)})
	p.UpdateConnection("pn3", "d1", "")
	p.UpdateStatus("pn2", StatusOrphan)

	all := p.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, "pn1", all[0].ID)
	assert.Equal(t, "pn3", all[2].ID)

	connected := p.GetConnectedNodes()
	require.Len(t, connected, 1)
	assert.Equal(t, "pn3", connected[0].ID)

	orphans := p.GetOrphanNodes()
	require.Len(t, orphans, 1)
	assert.Equal(t, "pn2", orphans[0].ID)

	p.Clear()
	assert.Equal(t, 0, p.Size())
}

func TestRefreshOrphanStatusRoundTrip(t *testing.T) {
	g := Build(testForest())
	p := NewPool()
	p.Add(PendingNode{ID: "pn1", Kind: NodeDialogue})

	RefreshOrphanStatus(p, MergePending(g, p))
	n, _ := p.Get("pn1")
	assert.Equal(t, StatusOrphan, n.Status)

	// reconnecting flips it back without losing the entry
	p.UpdateConnection("pn1", "p1", "")
	RefreshOrphanStatus(p, MergePending(g, p))
	n, _ = p.Get("pn1")
	assert.Equal(t, StatusConnected, n.Status)
}

func TestCommitFoldsIntoOwningLabel(t *testing.T) {
	sc := testForest()
	g := Build(sc)
	p := NewPool()
	p.Add(PendingNode{ID: "pn1", Kind: NodeDialogue, Data: map[string]string{
		"speaker": "eileen",
		"text":    "One more thing.",
	}})
	p.UpdateConnection("pn1", "p1", "")

	out, newID, err := Commit(sc, g, p, "pn1")
	require.NoError(t, err)
	require.NotEmpty(t, newID)

	l, ok := out.LabelByName("start")
	require.True(t, ok)
	last := l.Body[len(l.Body)-1]
	require.Equal(t, newID, last.StatementID())
	d, ok := last.(*script.Dialogue)
	require.True(t, ok)
	assert.Equal(t, "eileen", d.Speaker)
	assert.Equal(t, "One more thing.", d.Text)

	// input forest untouched, other labels shared
	ol, _ := sc.LabelByName("start")
	assert.Len(t, ol.Body, 4)
	oe, _ := sc.LabelByName("ending")
	ne, _ := out.LabelByName("ending")
	assert.Same(t, oe, ne)

	n, _ := p.Get("pn1")
	assert.Equal(t, StatusSynced, n.Status)
	assert.Equal(t, newID, n.StatementID)
	assert.Equal(t, "start", n.LabelName)
}

func TestCommitRequiresConnection(t *testing.T) {
	sc := testForest()
	g := Build(sc)
	p := NewPool()
	p.Add(PendingNode{ID: "pn1", Kind: NodeDialogue})

	out, _, err := Commit(sc, g, p, "pn1")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Same(t, sc, out)

	_, _, err = Commit(sc, g, p, "ghost")
	assert.ErrorIs(t, err, script.ErrNotFound)
}

func TestCommitStaleGraphLabelGone(t *testing.T) {
	sc := testForest()
	g := Build(sc)
	p := NewPool()
	p.Add(PendingNode{ID: "pn1", Kind: NodeDialogue, Data: map[string]string{"text": "late"}})
	p.UpdateConnection("pn1", "p1", "")

	// the label owning the source node was deleted after the graph was built
	var rest []script.Statement
	for _, s := range sc.Statements {
		if l, ok := s.(*script.Label); ok && l.Name == "start" {
			continue
		}
		rest = append(rest, s)
	}
	trimmed := &script.Script{Statements: rest}

	out, _, err := Commit(trimmed, g, p, "pn1")
	require.ErrorIs(t, err, script.ErrNotFound)
	assert.Same(t, trimmed, out)

	n, _ := p.Get("pn1")
	assert.Equal(t, StatusConnected, n.Status, "failed commit must not mark the entry synced")
}

func TestCommitJumpTarget(t *testing.T) {
	sc := testForest()
	g := Build(sc)
	p := NewPool()
	p.Add(PendingNode{ID: "pn1", Kind: NodeJump, Data: map[string]string{"target": "ending"}})
	p.UpdateConnection("pn1", "d3", "")

	out, newID, err := Commit(sc, g, p, "pn1")
	require.NoError(t, err)
	l, _ := out.LabelByName("ending")
	j, ok := l.Body[len(l.Body)-1].(*script.Jump)
	require.True(t, ok)
	assert.Equal(t, newID, j.StatementID())
	assert.Equal(t, "ending", j.Target)
}
