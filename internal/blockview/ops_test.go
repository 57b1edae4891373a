/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package blockview

import (
	"errors"
	"testing"

	"vnweaver/internal/script"
)

func bodyIDs(l *script.Label) []script.ID {
	out := make([]script.ID, len(l.Body))
	for i, s := range l.Body {
		out[i] = s.StatementID()
	}
	return out
}

func countOccurrences(sc *script.Script, id script.ID) int {
	n := 0
	sc.Walk(func(s script.Statement) bool {
		if s.StatementID() == id {
			n++
		}
		return true
	})
	return n
}

func TestAddBlockInsertsAtClampedIndex(t *testing.T) {
	sc := testForest()
	out, stmt, err := AddBlock(sc, script.KindDialogue, "start", 99)
	if err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	l, _ := out.LabelByName("start")
	if got := l.Body[len(l.Body)-1].StatementID(); got != stmt.StatementID() {
		t.Fatalf("new statement not at clamped end, got %s", got)
	}
	// input forest untouched
	ol, _ := sc.LabelByName("start")
	if len(ol.Body) != 4 {
		t.Fatalf("input forest mutated: %d body statements", len(ol.Body))
	}
}

func TestAddBlockRejectsNonContainer(t *testing.T) {
	sc := testForest()
	out, _, err := AddBlock(sc, script.KindDialogue, "d1", 0)
	if !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}
	if out != sc {
		t.Fatalf("failed add must return input forest")
	}
}

func TestAddBlockEnforcesContainerChildKinds(t *testing.T) {
	sc := testForest()
	if _, _, err := AddBlock(sc, script.KindDialogue, "m1", 0); !errors.Is(err, ErrInvalidContainer) {
		t.Errorf("menu must only accept choices, got %v", err)
	}
	if _, _, err := AddBlock(sc, script.KindChoice, "m1", 0); err != nil {
		t.Errorf("menu must accept a choice: %v", err)
	}
	if _, _, err := AddBlock(sc, script.KindChoice, "start", 0); !errors.Is(err, ErrInvalidContainer) {
		t.Errorf("label body must not accept a choice, got %v", err)
	}
}

func TestMoveBlockReorderWithinSameContainer(t *testing.T) {
	sc := testForest()
	// start body: sc1 d1 m1 p1; move sc1 to visual index 2 -> d1 sc1 m1 p1
	out, err := MoveBlock(sc, "sc1", "start", 2)
	if err != nil {
		t.Fatalf("MoveBlock: %v", err)
	}
	l, _ := out.LabelByName("start")
	got := bodyIDs(l)
	want := []script.ID{"d1", "sc1", "m1", "p1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order after downward move: got %v want %v", got, want)
		}
	}
}

func TestMoveBlockIntoNestedContainer(t *testing.T) {
	sc := testForest()
	out, err := MoveBlock(sc, "d1", "c1", 0)
	if err != nil {
		t.Fatalf("MoveBlock: %v", err)
	}
	if n := countOccurrences(out, "d1"); n != 1 {
		t.Fatalf("d1 occurs %d times after move", n)
	}
	c, _ := out.FindByID("c1")
	if c.(*script.Choice).Body[0].StatementID() != "d1" {
		t.Fatalf("d1 not at head of choice body")
	}
	l, _ := out.LabelByName("start")
	for _, id := range bodyIDs(l) {
		if id == "d1" {
			t.Fatalf("d1 still in label body")
		}
	}
}

func TestMoveBlockCycleRejected(t *testing.T) {
	sc := testForest()
	out, err := MoveBlock(sc, "m1", "c1", 0)
	if !errors.Is(err, ErrWouldCreateCycle) {
		t.Fatalf("expected ErrWouldCreateCycle, got %v", err)
	}
	if out != sc {
		t.Fatalf("rejected move must leave forest unchanged")
	}
	// self-move is the degenerate cycle
	if _, err := MoveBlock(sc, "c1", "c1", 0); !errors.Is(err, ErrWouldCreateCycle) {
		t.Fatalf("expected ErrWouldCreateCycle for self target, got %v", err)
	}
}

func TestMoveBlockTargetNotAContainer(t *testing.T) {
	sc := testForest()
	if _, err := MoveBlock(sc, "d1", "sc1", 0); !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}
	if _, err := MoveBlock(sc, "d1", "ghost", 0); !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer for unknown target, got %v", err)
	}
	if _, err := MoveBlock(sc, "ghost", "start", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown statement, got %v", err)
	}
}

func TestMoveBlockAcrossLabelsIsAtomic(t *testing.T) {
	sc := testForest()
	out, err := MoveBlockAcrossLabels(sc, "d1", "ending", "ending", 1)
	if err != nil {
		t.Fatalf("MoveBlockAcrossLabels: %v", err)
	}
	if n := countOccurrences(out, "d1"); n != 1 {
		t.Fatalf("d1 occurs %d times in whole forest", n)
	}
	dst, _ := out.LabelByName("ending")
	if got := bodyIDs(dst); len(got) != 2 || got[1] != "d1" {
		t.Fatalf("d1 not at position 1 of ending: %v", got)
	}
	src, _ := out.LabelByName("start")
	for _, id := range bodyIDs(src) {
		if id == "d1" {
			t.Fatalf("d1 still present in source label")
		}
	}
	// original forest still has it in the source
	osrc, _ := sc.LabelByName("start")
	if got := bodyIDs(osrc); got[1] != "d1" {
		t.Fatalf("input forest mutated: %v", got)
	}
}

func TestMoveBlockAcrossLabelsValidatesTarget(t *testing.T) {
	sc := testForest()
	if _, err := MoveBlockAcrossLabels(sc, "d1", "nowhere", "ending", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown label: got %v", err)
	}
	// container not inside the named label
	if _, err := MoveBlockAcrossLabels(sc, "d1", "ending", "c1", 0); !errors.Is(err, ErrInvalidContainer) {
		t.Errorf("container outside target label: got %v", err)
	}
}

func TestDeleteBlockRemovesWholeSubtree(t *testing.T) {
	sc := testForest()
	out, err := DeleteBlock(sc, "m1")
	if err != nil {
		t.Fatalf("DeleteBlock: %v", err)
	}
	for _, id := range []script.ID{"m1", "c1", "c2", "d2", "j1"} {
		if countOccurrences(out, id) != 0 {
			t.Errorf("%s still reachable after menu delete", id)
		}
	}
	l, _ := out.LabelByName("start")
	if len(l.Body) != 3 {
		t.Errorf("label body length after delete: %d", len(l.Body))
	}
}

func TestDeleteBlockTopLevelLabel(t *testing.T) {
	sc := testForest()
	out, err := DeleteBlock(sc, "ending")
	if err != nil {
		t.Fatalf("DeleteBlock: %v", err)
	}
	if _, ok := out.LabelByName("ending"); ok {
		t.Fatalf("label still present")
	}
	if len(out.Statements) != 1 {
		t.Fatalf("forest length: %d", len(out.Statements))
	}
}

func TestUpdateSlotValidation(t *testing.T) {
	sc := testForest()

	out, err := UpdateSlot(sc, "d1", "text", "Good morning.")
	if err != nil {
		t.Fatalf("UpdateSlot: %v", err)
	}
	got, _ := out.FindByID("d1")
	if got.(*script.Dialogue).Text != "Good morning." {
		t.Fatalf("text not updated")
	}

	// unknown slot name is a no-op failure
	if _, err := UpdateSlot(sc, "d1", "volume", "11"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("unknown slot: got %v", err)
	}
	// required slot cannot be blanked
	if _, err := UpdateSlot(sc, "d1", "text", "   "); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("blank required slot: got %v", err)
	}
	// numbers must parse
	if _, err := UpdateSlot(sc, "p1", "fadein", "fast"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad number: got %v", err)
	}
	// expressions must at least parse
	if _, err := UpdateSlot(sc, "c1", "condition", "mood >"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad expression: got %v", err)
	}
	if _, err := UpdateSlot(sc, "c1", "condition", "mood > 2 and seen"); err != nil {
		t.Errorf("valid expression rejected: %v", err)
	}
	// unknown id
	if _, err := UpdateSlot(sc, "ghost", "text", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
}

// structural-edit locality: after one successful operation, every statement
// whose id was not the operation's target projects to identical block content.
func TestEditLocality(t *testing.T) {
	sc := testForest()
	before := map[script.ID]*Block{}
	for _, l := range sc.Labels() {
		collectBlocks(BuildFromLabel(l), before)
	}

	out, err := UpdateSlot(sc, "d3", "text", "Fin.")
	if err != nil {
		t.Fatalf("UpdateSlot: %v", err)
	}
	after := map[script.ID]*Block{}
	for _, l := range out.Labels() {
		collectBlocks(BuildFromLabel(l), after)
	}

	for id, a := range after {
		b, ok := before[id]
		if !ok {
			t.Fatalf("statement %s appeared from nowhere", id)
		}
		if id == "d3" {
			continue
		}
		for i := range a.Slots {
			if a.Slots[i] != b.Slots[i] {
				t.Errorf("slot drift on untouched statement %s: %+v vs %+v", id, a.Slots[i], b.Slots[i])
			}
		}
	}
}

func collectBlocks(b *Block, into map[script.ID]*Block) {
	into[b.StatementID] = b
	for _, c := range b.Children {
		collectBlocks(c, into)
	}
}
