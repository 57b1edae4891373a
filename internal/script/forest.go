/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "errors"

// ErrNotFound is returned when an id does not resolve to a statement. Callers
// treat this as stale UI state and re-render from the unchanged forest.
var ErrNotFound = errors.New("statement not found")

// Script is the forest: an ordered sequence of top-level statements (labels
// plus define/default declarations). Edit operations never mutate a Script in
// place; they return a new value that shares every untouched top-level
// subtree with the old one.
type Script struct {
	Statements []Statement
}

// Labels returns the top-level labels in forest order.
func (sc *Script) Labels() []*Label {
	var out []*Label
	for _, s := range sc.Statements {
		if l, ok := s.(*Label); ok {
			out = append(out, l)
		}
	}
	return out
}

// LabelByName returns the first label with the given name (case-sensitive).
func (sc *Script) LabelByName(name string) (*Label, bool) {
	for _, s := range sc.Statements {
		if l, ok := s.(*Label); ok && l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// Walk visits every statement in the forest in pre-order. The visitor returns
// false to stop the walk early.
func (sc *Script) Walk(fn func(Statement) bool) {
	for _, s := range sc.Statements {
		if !walkStatement(s, fn) {
			return
		}
	}
}

// walkStatement descends the three containment shapes: label bodies, menu
// choices (and their bodies), and if branches (and their bodies).
func walkStatement(s Statement, fn func(Statement) bool) bool {
	if !fn(s) {
		return false
	}
	switch t := s.(type) {
	case *Label:
		for _, c := range t.Body {
			if !walkStatement(c, fn) {
				return false
			}
		}
	case *Menu:
		for _, ch := range t.Choices {
			if !walkStatement(ch, fn) {
				return false
			}
		}
	case *Choice:
		for _, c := range t.Body {
			if !walkStatement(c, fn) {
				return false
			}
		}
	case *If:
		for _, b := range t.Branches {
			if !walkStatement(b, fn) {
				return false
			}
		}
	case *Branch:
		for _, c := range t.Body {
			if !walkStatement(c, fn) {
				return false
			}
		}
	}
	return true
}

// FindByID resolves an id anywhere in the forest.
func (sc *Script) FindByID(id ID) (Statement, bool) {
	var found Statement
	sc.Walk(func(s Statement) bool {
		if s.StatementID() == id {
			found = s
			return false
		}
		return true
	})
	return found, found != nil
}

// RootOf returns the top-level statement whose subtree contains id.
func (sc *Script) RootOf(id ID) (Statement, bool) {
	for _, top := range sc.Statements {
		if subtreeContains(top, id) {
			return top, true
		}
	}
	return nil, false
}

// Contains reports whether the statement with id lies inside the subtree
// rooted at ancestor (inclusive).
func (sc *Script) Contains(ancestor, id ID) bool {
	a, ok := sc.FindByID(ancestor)
	if !ok {
		return false
	}
	return subtreeContains(a, id)
}

func subtreeContains(s Statement, id ID) bool {
	hit := false
	walkStatement(s, func(c Statement) bool {
		if c.StatementID() == id {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// CloneFor returns a copy of the forest in which every top-level statement
// whose subtree contains one of the given ids is deep-cloned and all others
// are shared. It is the copy-on-write primitive behind every edit operation.
func (sc *Script) CloneFor(ids ...ID) *Script {
	out := &Script{Statements: make([]Statement, len(sc.Statements))}
	for i, top := range sc.Statements {
		cloned := false
		for _, id := range ids {
			if subtreeContains(top, id) {
				out.Statements[i] = top.Clone()
				cloned = true
				break
			}
		}
		if !cloned {
			out.Statements[i] = top
		}
	}
	return out
}

// ReplaceByID produces a new forest in which the statement with id has been
// replaced by patch(clone). The patch receives a deep clone and must preserve
// the statement's identity and kind; everything outside the affected
// top-level subtree is shared with the input forest. A missing id yields
// ErrNotFound and the original forest.
func (sc *Script) ReplaceByID(id ID, patch func(Statement) Statement) (*Script, error) {
	out := sc.CloneFor(id)
	for i, top := range out.Statements {
		if top.StatementID() == id {
			out.Statements[i] = patch(top)
			return out, nil
		}
		if subtreeContains(top, id) {
			if replaceIn(top, id, patch) {
				return out, nil
			}
		}
	}
	return sc, ErrNotFound
}

// replaceIn rewrites the child sequence that directly owns id. The parent s
// is already a private clone, so in-place sequence updates are safe here.
func replaceIn(s Statement, id ID, patch func(Statement) Statement) bool {
	switch t := s.(type) {
	case *Label:
		return replaceInBody(t.Body, id, patch)
	case *Menu:
		for i, ch := range t.Choices {
			if ch.StatementID() == id {
				if p, ok := patch(ch).(*Choice); ok {
					t.Choices[i] = p
					return true
				}
				return false
			}
			if subtreeContains(ch, id) {
				return replaceIn(ch, id, patch)
			}
		}
	case *Choice:
		return replaceInBody(t.Body, id, patch)
	case *If:
		for i, b := range t.Branches {
			if b.StatementID() == id {
				if p, ok := patch(b).(*Branch); ok {
					t.Branches[i] = p
					return true
				}
				return false
			}
			if subtreeContains(b, id) {
				return replaceIn(b, id, patch)
			}
		}
	case *Branch:
		return replaceInBody(t.Body, id, patch)
	}
	return false
}

func replaceInBody(body []Statement, id ID, patch func(Statement) Statement) bool {
	for i, c := range body {
		if c.StatementID() == id {
			body[i] = patch(c)
			return true
		}
		if subtreeContains(c, id) {
			return replaceIn(c, id, patch)
		}
	}
	return false
}
