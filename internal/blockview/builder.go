/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package blockview

import (
	"github.com/google/uuid"

	"vnweaver/internal/script"
)

// Block is the tree-widget projection of one statement. Block ids are
// regenerated on every build and must never be used as durable keys; UI state
// is keyed by StatementID, the back-reference into the model. An empty
// StatementID marks a template block not yet backed by a statement.
type Block struct {
	ID          string
	StatementID script.ID
	Kind        script.Kind
	Slots       []Slot
	Children    []*Block
}

// Slot is one named value slot carried by a block.
type Slot struct {
	Name     string
	Value    string
	Required bool
	Rule     Rule
}

// Slot returns the named slot, or nil.
func (b *Block) Slot(name string) *Slot {
	for i := range b.Slots {
		if b.Slots[i].Name == name {
			return &b.Slots[i]
		}
	}
	return nil
}

// BuildFromLabel projects a label and its whole body into a block tree.
func BuildFromLabel(l *script.Label) *Block {
	return BuildBlock(l)
}

// BuildBlock projects a single statement (and its owned subtree) into a
// block. Building is deterministic and side-effect-free: the same statement
// always yields the same slot values, child order and counts. Only the block
// ids differ between builds.
func BuildBlock(s script.Statement) *Block {
	if s == nil {
		return nil
	}
	b := &Block{
		ID:          uuid.NewString(),
		StatementID: s.StatementID(),
		Kind:        s.Kind(),
	}
	defs := SlotDefs(b.Kind)
	if len(defs) > 0 {
		b.Slots = make([]Slot, len(defs))
		for i, d := range defs {
			v, _ := slotValue(s, d.Name)
			b.Slots[i] = Slot{Name: d.Name, Value: v, Required: d.Required, Rule: d.Rule}
		}
	}
	switch t := s.(type) {
	case *script.Label:
		b.Children = buildChildren(t.Body)
	case *script.Menu:
		for _, ch := range t.Choices {
			b.Children = append(b.Children, BuildBlock(ch))
		}
	case *script.Choice:
		b.Children = buildChildren(t.Body)
	case *script.If:
		for _, br := range t.Branches {
			b.Children = append(b.Children, BuildBlock(br))
		}
	case *script.Branch:
		b.Children = buildChildren(t.Body)
	}
	return b
}

func buildChildren(body []script.Statement) []*Block {
	if len(body) == 0 {
		return nil
	}
	out := make([]*Block, len(body))
	for i, s := range body {
		out[i] = BuildBlock(s)
	}
	return out
}

// BuildTemplate returns a block for the palette: the given kind with empty
// slots and no statement backing it.
func BuildTemplate(kind script.Kind) *Block {
	b := &Block{ID: uuid.NewString(), StatementID: "", Kind: kind}
	defs := SlotDefs(kind)
	if len(defs) > 0 {
		b.Slots = make([]Slot, len(defs))
		for i, d := range defs {
			b.Slots[i] = Slot{Name: d.Name, Required: d.Required, Rule: d.Rule}
		}
	}
	return b
}
