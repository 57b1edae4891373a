/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script defines the canonical statement model for a visual-novel
// script: a forest of labels, each owning an ordered statement sequence.
// Both editing surfaces (block tree and flow graph) are projections of this
// model and are rebuilt from it after every mutation; the model itself is the
// single source of truth.
package script

import "github.com/google/uuid"

// ID is the globally unique identity of a statement. It is assigned once at
// creation and never reused or reassigned; projections correlate back to the
// model through it.
type ID string

// NewID returns a fresh statement identity.
func NewID() ID { return ID(uuid.NewString()) }

// Kind discriminates the statement union. The set is closed; adding a kind
// means touching the codec, the block schema and the flow builder as well.
type Kind string

const (
	KindLabel    Kind = "label"
	KindDialogue Kind = "dialogue"
	KindScene    Kind = "scene"
	KindShow     Kind = "show"
	KindHide     Kind = "hide"
	KindWith     Kind = "with"
	KindMenu     Kind = "menu"
	KindChoice   Kind = "choice"
	KindJump     Kind = "jump"
	KindCall     Kind = "call"
	KindReturn   Kind = "return"
	KindIf       Kind = "if"
	KindBranch   Kind = "branch"
	KindSet      Kind = "set"
	KindRawCode  Kind = "rawcode"
	KindPlay     Kind = "play"
	KindStop     Kind = "stop"
	KindPause    Kind = "pause"
	KindNvl      Kind = "nvl"
	KindDefine   Kind = "define"
	KindDefault  Kind = "default"
)

// Statement is the sealed interface over all statement kinds. Concrete types
// live in this package only.
type Statement interface {
	StatementID() ID
	Kind() Kind
	// Clone returns a deep copy of the statement and its owned subtree.
	// Identities are preserved: clones serve copy-on-write edits of the same
	// logical statement, not duplication.
	Clone() Statement
}

// Meta carries the identity shared by every statement kind.
type Meta struct {
	ID ID `json:"id"`
}

// StatementID implements Statement.
func (m Meta) StatementID() ID { return m.ID }

// Label is a named entry point owning an ordered body. Labels appear only at
// the top level of the forest.
type Label struct {
	Meta
	Name string
	Body []Statement
}

// Dialogue is one spoken or narrated line. An empty Speaker means narration.
type Dialogue struct {
	Meta
	Speaker string
	Text    string
}

// Scene replaces the current background image.
type Scene struct {
	Meta
	Image      string
	Transition string
}

// Show displays a sprite, optionally at a named position.
type Show struct {
	Meta
	Image      string
	Position   string
	Transition string
}

// Hide removes a sprite.
type Hide struct {
	Meta
	Image      string
	Transition string
}

// With applies a standalone transition.
type With struct {
	Meta
	Transition string
}

// Menu presents choices to the player. Choices are the only permitted
// children.
type Menu struct {
	Meta
	Prompt  string
	Choices []*Choice
}

// Choice is one menu option with its own body sequence. Condition is an
// opaque expression string; empty means always available.
type Choice struct {
	Meta
	Text      string
	Condition string
	Body      []Statement
}

// Jump transfers control to a label by name.
type Jump struct {
	Meta
	Target string
}

// Call invokes a label by name, expecting a Return.
type Call struct {
	Meta
	Target string
}

// Return ends the current call.
type Return struct {
	Meta
}

// If owns an ordered branch sequence. Branches are the only permitted
// children.
type If struct {
	Meta
	Branches []*Branch
}

// Branch is one conditional arm with its own body. An empty Condition is the
// else arm.
type Branch struct {
	Meta
	Condition string
	Body      []Statement
}

// Set assigns a value to a variable. Value is an opaque expression string.
type Set struct {
	Meta
	Variable string
	Operator string
	Value    string
}

// RawCode embeds a verbatim code line.
type RawCode struct {
	Meta
	Code string
}

// Play starts audio playback on a channel.
type Play struct {
	Meta
	Channel string
	File    string
	FadeIn  float64
	Loop    bool
}

// Stop halts audio playback on a channel.
type Stop struct {
	Meta
	Channel string
	FadeOut float64
}

// Pause waits for the given duration (seconds); zero waits for a click.
type Pause struct {
	Meta
	Duration float64
}

// Nvl controls NVL-mode presentation (e.g. "clear", "show", "hide").
type Nvl struct {
	Meta
	Action string
}

// Define declares a named constant at the top level.
type Define struct {
	Meta
	Name  string
	Value string
}

// Default declares a variable with a default value at the top level.
type Default struct {
	Meta
	Name  string
	Value string
}

func (s *Label) Kind() Kind    { return KindLabel }
func (s *Dialogue) Kind() Kind { return KindDialogue }
func (s *Scene) Kind() Kind    { return KindScene }
func (s *Show) Kind() Kind     { return KindShow }
func (s *Hide) Kind() Kind     { return KindHide }
func (s *With) Kind() Kind     { return KindWith }
func (s *Menu) Kind() Kind     { return KindMenu }
func (s *Choice) Kind() Kind   { return KindChoice }
func (s *Jump) Kind() Kind     { return KindJump }
func (s *Call) Kind() Kind     { return KindCall }
func (s *Return) Kind() Kind   { return KindReturn }
func (s *If) Kind() Kind       { return KindIf }
func (s *Branch) Kind() Kind   { return KindBranch }
func (s *Set) Kind() Kind      { return KindSet }
func (s *RawCode) Kind() Kind  { return KindRawCode }
func (s *Play) Kind() Kind     { return KindPlay }
func (s *Stop) Kind() Kind     { return KindStop }
func (s *Pause) Kind() Kind    { return KindPause }
func (s *Nvl) Kind() Kind      { return KindNvl }
func (s *Define) Kind() Kind   { return KindDefine }
func (s *Default) Kind() Kind  { return KindDefault }

func cloneBody(body []Statement) []Statement {
	if body == nil {
		return nil
	}
	out := make([]Statement, len(body))
	for i, s := range body {
		out[i] = s.Clone()
	}
	return out
}

func (s *Label) Clone() Statement {
	c := *s
	c.Body = cloneBody(s.Body)
	return &c
}

func (s *Dialogue) Clone() Statement { c := *s; return &c }
func (s *Scene) Clone() Statement    { c := *s; return &c }
func (s *Show) Clone() Statement     { c := *s; return &c }
func (s *Hide) Clone() Statement     { c := *s; return &c }
func (s *With) Clone() Statement     { c := *s; return &c }

func (s *Menu) Clone() Statement {
	c := *s
	if s.Choices != nil {
		c.Choices = make([]*Choice, len(s.Choices))
		for i, ch := range s.Choices {
			c.Choices[i] = ch.Clone().(*Choice)
		}
	}
	return &c
}

func (s *Choice) Clone() Statement {
	c := *s
	c.Body = cloneBody(s.Body)
	return &c
}

func (s *Jump) Clone() Statement   { c := *s; return &c }
func (s *Call) Clone() Statement   { c := *s; return &c }
func (s *Return) Clone() Statement { c := *s; return &c }

func (s *If) Clone() Statement {
	c := *s
	if s.Branches != nil {
		c.Branches = make([]*Branch, len(s.Branches))
		for i, b := range s.Branches {
			c.Branches[i] = b.Clone().(*Branch)
		}
	}
	return &c
}

func (s *Branch) Clone() Statement {
	c := *s
	c.Body = cloneBody(s.Body)
	return &c
}

func (s *Set) Clone() Statement     { c := *s; return &c }
func (s *RawCode) Clone() Statement { c := *s; return &c }
func (s *Play) Clone() Statement    { c := *s; return &c }
func (s *Stop) Clone() Statement    { c := *s; return &c }
func (s *Pause) Clone() Statement   { c := *s; return &c }
func (s *Nvl) Clone() Statement     { c := *s; return &c }
func (s *Define) Clone() Statement  { c := *s; return &c }
func (s *Default) Clone() Statement { c := *s; return &c }

// NewStatement returns a default-initialized statement of the given kind with
// a fresh identity. Container kinds are seeded with one empty child so the
// editing surfaces have something to attach to. Unknown kinds return nil.
func NewStatement(kind Kind) Statement {
	switch kind {
	case KindLabel:
		return &Label{Meta: Meta{ID: NewID()}, Name: "new_label"}
	case KindDialogue:
		return &Dialogue{Meta: Meta{ID: NewID()}}
	case KindScene:
		return &Scene{Meta: Meta{ID: NewID()}}
	case KindShow:
		return &Show{Meta: Meta{ID: NewID()}}
	case KindHide:
		return &Hide{Meta: Meta{ID: NewID()}}
	case KindWith:
		return &With{Meta: Meta{ID: NewID()}}
	case KindMenu:
		return &Menu{Meta: Meta{ID: NewID()}, Choices: []*Choice{
			{Meta: Meta{ID: NewID()}},
		}}
	case KindChoice:
		return &Choice{Meta: Meta{ID: NewID()}}
	case KindJump:
		return &Jump{Meta: Meta{ID: NewID()}}
	case KindCall:
		return &Call{Meta: Meta{ID: NewID()}}
	case KindReturn:
		return &Return{Meta: Meta{ID: NewID()}}
	case KindIf:
		return &If{Meta: Meta{ID: NewID()}, Branches: []*Branch{
			{Meta: Meta{ID: NewID()}},
		}}
	case KindBranch:
		return &Branch{Meta: Meta{ID: NewID()}}
	case KindSet:
		return &Set{Meta: Meta{ID: NewID()}, Operator: "="}
	case KindRawCode:
		return &RawCode{Meta: Meta{ID: NewID()}}
	case KindPlay:
		return &Play{Meta: Meta{ID: NewID()}, Channel: "music"}
	case KindStop:
		return &Stop{Meta: Meta{ID: NewID()}, Channel: "music"}
	case KindPause:
		return &Pause{Meta: Meta{ID: NewID()}}
	case KindNvl:
		return &Nvl{Meta: Meta{ID: NewID()}, Action: "clear"}
	case KindDefine:
		return &Define{Meta: Meta{ID: NewID()}}
	case KindDefault:
		return &Default{Meta: Meta{ID: NewID()}}
	}
	return nil
}

// IsContainer reports whether the kind owns a child sequence.
func IsContainer(kind Kind) bool {
	switch kind {
	case KindLabel, KindMenu, KindChoice, KindIf, KindBranch:
		return true
	}
	return false
}
