/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"testing"
)

// sampleForest builds two labels with nested menu/if structure:
//
//	label start: dialogue d1; menu m1 { choice c1 { dialogue d2 }, choice c2 { jump j1 } }
//	label ending: dialogue d3
func sampleForest() *Script {
	return &Script{Statements: []Statement{
		&Label{Meta: Meta{ID: "start"}, Name: "start", Body: []Statement{
			&Dialogue{Meta: Meta{ID: "d1"}, Speaker: "eileen", Text: "Hello."},
			&Menu{Meta: Meta{ID: "m1"}, Choices: []*Choice{
				{Meta: Meta{ID: "c1"}, Text: "Stay", Body: []Statement{
					&Dialogue{Meta: Meta{ID: "d2"}, Text: "You stay."},
				}},
				{Meta: Meta{ID: "c2"}, Text: "Leave", Body: []Statement{
					&Jump{Meta: Meta{ID: "j1"}, Target: "ending"},
				}},
			}},
		}},
		&Label{Meta: Meta{ID: "ending"}, Name: "ending", Body: []Statement{
			&Dialogue{Meta: Meta{ID: "d3"}, Text: "The end."},
		}},
	}}
}

func TestFindByIDDescendsAllContainmentShapes(t *testing.T) {
	sc := sampleForest()
	for _, id := range []ID{"start", "d1", "m1", "c1", "d2", "c2", "j1", "ending", "d3"} {
		if _, ok := sc.FindByID(id); !ok {
			t.Fatalf("FindByID(%s) not found", id)
		}
	}
	if _, ok := sc.FindByID("nope"); ok {
		t.Fatalf("FindByID of unknown id reported found")
	}
}

func TestReplaceByIDSharesUntouchedSubtrees(t *testing.T) {
	sc := sampleForest()
	out, err := sc.ReplaceByID("d2", func(s Statement) Statement {
		d := s.(*Dialogue)
		d.Text = "You stay here."
		return d
	})
	if err != nil {
		t.Fatalf("ReplaceByID error: %v", err)
	}
	if sc == out {
		t.Fatalf("ReplaceByID returned the same forest value")
	}
	// untouched label is shared, touched label is not
	if out.Statements[1] != sc.Statements[1] {
		t.Errorf("untouched label was copied")
	}
	if out.Statements[0] == sc.Statements[0] {
		t.Errorf("touched label was shared")
	}
	// original is unchanged
	orig, _ := sc.FindByID("d2")
	if orig.(*Dialogue).Text != "You stay." {
		t.Errorf("original forest mutated: %q", orig.(*Dialogue).Text)
	}
	got, _ := out.FindByID("d2")
	if got.(*Dialogue).Text != "You stay here." {
		t.Errorf("patch not applied: %q", got.(*Dialogue).Text)
	}
}

func TestReplaceByIDMissingIsNotFound(t *testing.T) {
	sc := sampleForest()
	out, err := sc.ReplaceByID("ghost", func(s Statement) Statement { return s })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if out != sc {
		t.Fatalf("failed replace must return the input forest")
	}
}

func TestContains(t *testing.T) {
	sc := sampleForest()
	cases := []struct {
		ancestor, id ID
		want         bool
	}{
		{"start", "d2", true},
		{"m1", "j1", true},
		{"m1", "m1", true},
		{"c1", "j1", false},
		{"ending", "d1", false},
	}
	for _, c := range cases {
		if got := sc.Contains(c.ancestor, c.id); got != c.want {
			t.Errorf("Contains(%s, %s) = %v, want %v", c.ancestor, c.id, got, c.want)
		}
	}
}

func TestCloneKeepsIdentity(t *testing.T) {
	sc := sampleForest()
	top := sc.Statements[0].Clone()
	ids := map[ID]bool{}
	walkStatement(top, func(s Statement) bool {
		ids[s.StatementID()] = true
		return true
	})
	for _, id := range []ID{"start", "d1", "m1", "c1", "d2", "c2", "j1"} {
		if !ids[id] {
			t.Errorf("clone lost statement %s", id)
		}
	}
	// mutating the clone must not leak into the original
	top.(*Label).Body[0].(*Dialogue).Text = "changed"
	if sc.Statements[0].(*Label).Body[0].(*Dialogue).Text != "Hello." {
		t.Fatalf("clone shares dialogue with original")
	}
}

func TestNewStatementAssignsIdentity(t *testing.T) {
	kinds := []Kind{
		KindLabel, KindDialogue, KindScene, KindShow, KindHide, KindWith,
		KindMenu, KindChoice, KindJump, KindCall, KindReturn, KindIf,
		KindBranch, KindSet, KindRawCode, KindPlay, KindStop, KindPause,
		KindNvl, KindDefine, KindDefault,
	}
	seen := map[ID]bool{}
	for _, k := range kinds {
		s := NewStatement(k)
		if s == nil {
			t.Fatalf("NewStatement(%s) returned nil", k)
		}
		if s.Kind() != k {
			t.Errorf("NewStatement(%s) has kind %s", k, s.Kind())
		}
		id := s.StatementID()
		if id == "" || seen[id] {
			t.Errorf("NewStatement(%s) id %q not unique", k, id)
		}
		seen[id] = true
	}
	if NewStatement(Kind("bogus")) != nil {
		t.Errorf("unknown kind should return nil")
	}
}
