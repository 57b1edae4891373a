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
	"fmt"

	"vnweaver/internal/script"
)

// Failure reasons for structural operations. Every operation either returns a
// new forest and nil, or the unchanged input forest and one of these wrapped
// errors. Nothing here is fatal; callers surface the reason and re-render.
var (
	// ErrNotFound mirrors the model's not-found signal (stale UI state).
	ErrNotFound = script.ErrNotFound
	// ErrInvalidContainer means the target does not resolve to a
	// container-shaped statement that accepts the child kind.
	ErrInvalidContainer = errors.New("target is not a valid container")
	// ErrWouldCreateCycle means the move would nest a statement inside its
	// own subtree.
	ErrWouldCreateCycle = errors.New("move would nest a statement inside its own subtree")
	// ErrValidationFailed means a slot value failed its rule.
	ErrValidationFailed = errors.New("slot validation failed")
)

// containerRef gives indexed access to one container's child sequence inside
// a specific forest value. get/set close over the owning statement, so a set
// after a get observes intermediate removals on the same owner.
type containerRef struct {
	ownerID script.ID
	get     func() []script.Statement
	set     func([]script.Statement)
	accepts func(script.Kind) bool
}

// bodyAccepts is the rule for plain body sequences: anything except the three
// kinds with fixed homes (labels at top level, choices under menus, branches
// under ifs).
func bodyAccepts(k script.Kind) bool {
	switch k {
	case script.KindLabel, script.KindChoice, script.KindBranch:
		return false
	}
	return true
}

func containerRefOf(s script.Statement) (containerRef, bool) {
	switch t := s.(type) {
	case *script.Label:
		return containerRef{
			ownerID: t.ID,
			get:     func() []script.Statement { return t.Body },
			set:     func(seq []script.Statement) { t.Body = seq },
			accepts: bodyAccepts,
		}, true
	case *script.Menu:
		return containerRef{
			ownerID: t.ID,
			get: func() []script.Statement {
				out := make([]script.Statement, len(t.Choices))
				for i, ch := range t.Choices {
					out[i] = ch
				}
				return out
			},
			set: func(seq []script.Statement) {
				chs := make([]*script.Choice, len(seq))
				for i, s := range seq {
					chs[i] = s.(*script.Choice)
				}
				t.Choices = chs
			},
			accepts: func(k script.Kind) bool { return k == script.KindChoice },
		}, true
	case *script.Choice:
		return containerRef{
			ownerID: t.ID,
			get:     func() []script.Statement { return t.Body },
			set:     func(seq []script.Statement) { t.Body = seq },
			accepts: bodyAccepts,
		}, true
	case *script.If:
		return containerRef{
			ownerID: t.ID,
			get: func() []script.Statement {
				out := make([]script.Statement, len(t.Branches))
				for i, b := range t.Branches {
					out[i] = b
				}
				return out
			},
			set: func(seq []script.Statement) {
				brs := make([]*script.Branch, len(seq))
				for i, s := range seq {
					brs[i] = s.(*script.Branch)
				}
				t.Branches = brs
			},
			accepts: func(k script.Kind) bool { return k == script.KindBranch },
		}, true
	case *script.Branch:
		return containerRef{
			ownerID: t.ID,
			get:     func() []script.Statement { return t.Body },
			set:     func(seq []script.Statement) { t.Body = seq },
			accepts: bodyAccepts,
		}, true
	}
	return containerRef{}, false
}

func findContainer(sc *script.Script, id script.ID) (containerRef, bool) {
	s, ok := sc.FindByID(id)
	if !ok {
		return containerRef{}, false
	}
	return containerRefOf(s)
}

// parentSeqOf locates the container sequence that directly owns id, plus the
// index of id within it. Top-level statements have no parent sequence.
func parentSeqOf(sc *script.Script, id script.ID) (containerRef, int, bool) {
	var (
		ref   containerRef
		idx   int
		found bool
	)
	sc.Walk(func(s script.Statement) bool {
		r, ok := containerRefOf(s)
		if !ok {
			return true
		}
		for i, c := range r.get() {
			if c.StatementID() == id {
				ref, idx, found = r, i, true
				return false
			}
		}
		return true
	})
	return ref, idx, found
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

func insertAt(seq []script.Statement, i int, s script.Statement) []script.Statement {
	seq = append(seq, nil)
	copy(seq[i+1:], seq[i:])
	seq[i] = s
	return seq
}

// AddBlock inserts a new default-initialized statement of kind at index
// within the target container's sequence (index clamped to [0, len]). The
// inserted statement is returned alongside the new forest so callers can
// focus it.
func AddBlock(sc *script.Script, kind script.Kind, parentID script.ID, index int) (*script.Script, script.Statement, error) {
	stmt := script.NewStatement(kind)
	if stmt == nil {
		return sc, nil, fmt.Errorf("%w: unknown statement kind %q", ErrValidationFailed, kind)
	}
	out := sc.CloneFor(parentID)
	ref, ok := findContainer(out, parentID)
	if !ok {
		return sc, nil, fmt.Errorf("%w: %s", ErrInvalidContainer, parentID)
	}
	if !ref.accepts(kind) {
		return sc, nil, fmt.Errorf("%w: %s does not accept %s", ErrInvalidContainer, parentID, kind)
	}
	seq := ref.get()
	ref.set(insertAt(seq, clamp(index, 0, len(seq)), stmt))
	return out, stmt, nil
}

// MoveBlock removes the statement from its current sequence and reinserts it
// at newIndex in the target container, which may be the same container (pure
// reorder) or a different one. The index is interpreted against the sequence
// as the user sees it before the move, so moving an item downward within the
// same list lands at the expected visual position. The whole move is a single
// atomic forest replacement.
func MoveBlock(sc *script.Script, id, newParentID script.ID, newIndex int) (*script.Script, error) {
	stmt, ok := sc.FindByID(id)
	if !ok {
		return sc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if root, ok := sc.RootOf(id); ok && root.StatementID() == id {
		// labels and define/default declarations live at the top level only
		return sc, fmt.Errorf("%w: top-level statement %s cannot be moved into a container", ErrInvalidContainer, id)
	}
	target, ok := sc.FindByID(newParentID)
	if !ok {
		return sc, fmt.Errorf("%w: %s", ErrInvalidContainer, newParentID)
	}
	tref, ok := containerRefOf(target)
	if !ok {
		return sc, fmt.Errorf("%w: %s is not container-shaped", ErrInvalidContainer, newParentID)
	}
	if !tref.accepts(stmt.Kind()) {
		return sc, fmt.Errorf("%w: %s does not accept %s", ErrInvalidContainer, newParentID, stmt.Kind())
	}
	if sc.Contains(id, newParentID) {
		return sc, fmt.Errorf("%w: %s is inside %s", ErrWouldCreateCycle, newParentID, id)
	}

	out := sc.CloneFor(id, newParentID)
	srcRef, oldIdx, ok := parentSeqOf(out, id)
	if !ok {
		return sc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	dstRef, ok := findContainer(out, newParentID)
	if !ok {
		return sc, fmt.Errorf("%w: %s", ErrInvalidContainer, newParentID)
	}

	srcSeq := srcRef.get()
	moved := srcSeq[oldIdx]
	srcRef.set(append(srcSeq[:oldIdx:oldIdx], srcSeq[oldIdx+1:]...))

	if srcRef.ownerID == dstRef.ownerID && newIndex > oldIdx {
		newIndex--
	}
	dstSeq := dstRef.get()
	dstRef.set(insertAt(dstSeq, clamp(newIndex, 0, len(dstSeq)), moved))
	return out, nil
}

// MoveBlockAcrossLabels moves a statement into a container owned by a
// different top-level label, named explicitly by the drag source. It is the
// same atomic remove-then-insert as MoveBlock; at no point does the
// statement exist in both trees or in neither.
func MoveBlockAcrossLabels(sc *script.Script, id script.ID, targetLabel string, targetContainerID script.ID, index int) (*script.Script, error) {
	if _, ok := sc.FindByID(id); !ok {
		return sc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	tl, ok := sc.LabelByName(targetLabel)
	if !ok {
		return sc, fmt.Errorf("%w: label %q", ErrNotFound, targetLabel)
	}
	if targetContainerID != tl.ID && !sc.Contains(tl.ID, targetContainerID) {
		return sc, fmt.Errorf("%w: %s is not inside label %q", ErrInvalidContainer, targetContainerID, targetLabel)
	}
	return MoveBlock(sc, id, targetContainerID, index)
}

// DeleteBlock removes the statement and its entire owned subtree from its
// parent sequence. Children are never reparented.
func DeleteBlock(sc *script.Script, id script.ID) (*script.Script, error) {
	if _, ok := sc.FindByID(id); !ok {
		return sc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out := sc.CloneFor(id)
	// top-level statement: remove from the forest itself
	for i, top := range out.Statements {
		if top.StatementID() == id {
			out.Statements = append(out.Statements[:i:i], out.Statements[i+1:]...)
			return out, nil
		}
	}
	ref, idx, ok := parentSeqOf(out, id)
	if !ok {
		return sc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	seq := ref.get()
	ref.set(append(seq[:idx:idx], seq[idx+1:]...))
	return out, nil
}

// UpdateSlot applies a validated scalar update to one slot of the statement.
// Unknown slot names and rule violations are ErrValidationFailed; the forest
// is returned unchanged in that case.
func UpdateSlot(sc *script.Script, id script.ID, name, value string) (*script.Script, error) {
	stmt, ok := sc.FindByID(id)
	if !ok {
		return sc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var def *SlotDef
	for _, d := range SlotDefs(stmt.Kind()) {
		if d.Name == name {
			def = &d
			break
		}
	}
	if def == nil {
		return sc, fmt.Errorf("%w: %s has no slot %q", ErrValidationFailed, stmt.Kind(), name)
	}
	if err := validateSlot(*def, value); err != nil {
		return sc, fmt.Errorf("%w: slot %q: %v", ErrValidationFailed, name, err)
	}
	out, err := sc.ReplaceByID(id, func(s script.Statement) script.Statement {
		applySlot(s, name, value)
		return s
	})
	if err != nil {
		return sc, err
	}
	return out, nil
}
