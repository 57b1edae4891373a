/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package blockview projects the statement model into the block-editing
// surface: a tree of typed blocks with named value slots, plus the structural
// edit operations (add/move/delete/update) that mutate the model through it.
package blockview

import (
	"strconv"

	"vnweaver/internal/script"
)

// Rule is the validation rule attached to a slot value.
type Rule int

const (
	RuleNone Rule = iota
	// RuleIdentifier requires a bare identifier (variable, channel, action).
	RuleIdentifier
	// RuleLabelName requires a label-shaped name (jump/call targets).
	RuleLabelName
	// RuleNumber requires a non-negative decimal number.
	RuleNumber
	// RuleFlag requires "", "true" or "false".
	RuleFlag
	// RuleExpression requires the value to parse as an expression. The
	// expression is only compiled, never evaluated; its meaning stays opaque.
	RuleExpression
)

// SlotDef describes one named value slot of a statement kind.
type SlotDef struct {
	Name     string
	Required bool
	Rule     Rule
}

// slotSchema is the fixed, type-indexed slot layout per statement kind. The
// order here is the display order of the editing widget.
var slotSchema = map[script.Kind][]SlotDef{
	script.KindLabel:    {{Name: "name", Required: true, Rule: RuleLabelName}},
	script.KindDialogue: {{Name: "speaker"}, {Name: "text", Required: true}},
	script.KindScene:    {{Name: "image", Required: true}, {Name: "transition"}},
	script.KindShow:     {{Name: "image", Required: true}, {Name: "position"}, {Name: "transition"}},
	script.KindHide:     {{Name: "image", Required: true}, {Name: "transition"}},
	script.KindWith:     {{Name: "transition", Required: true}},
	script.KindMenu:     {{Name: "prompt"}},
	script.KindChoice:   {{Name: "text", Required: true}, {Name: "condition", Rule: RuleExpression}},
	script.KindJump:     {{Name: "target", Required: true, Rule: RuleLabelName}},
	script.KindCall:     {{Name: "target", Required: true, Rule: RuleLabelName}},
	script.KindReturn:   nil,
	script.KindIf:       nil,
	script.KindBranch:   {{Name: "condition", Rule: RuleExpression}},
	script.KindSet: {
		{Name: "variable", Required: true, Rule: RuleIdentifier},
		{Name: "operator", Required: true},
		{Name: "value", Required: true, Rule: RuleExpression},
	},
	script.KindRawCode: {{Name: "code", Required: true}},
	script.KindPlay: {
		{Name: "channel", Required: true, Rule: RuleIdentifier},
		{Name: "file", Required: true},
		{Name: "fadein", Rule: RuleNumber},
		{Name: "loop", Rule: RuleFlag},
	},
	script.KindStop: {
		{Name: "channel", Required: true, Rule: RuleIdentifier},
		{Name: "fadeout", Rule: RuleNumber},
	},
	script.KindPause: {{Name: "duration", Rule: RuleNumber}},
	script.KindNvl:   {{Name: "action", Required: true, Rule: RuleIdentifier}},
	script.KindDefine: {
		{Name: "name", Required: true, Rule: RuleIdentifier},
		{Name: "value", Required: true, Rule: RuleExpression},
	},
	script.KindDefault: {
		{Name: "name", Required: true, Rule: RuleIdentifier},
		{Name: "value", Required: true, Rule: RuleExpression},
	},
}

// SlotDefs returns the slot layout for a kind (nil for slot-less kinds).
func SlotDefs(kind script.Kind) []SlotDef { return slotSchema[kind] }

func formatNumber(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatFlag(b bool) string {
	if b {
		return "true"
	}
	return ""
}

// slotValue reads the named slot from a statement. The bool result is false
// for slot names the kind does not have.
func slotValue(s script.Statement, name string) (string, bool) {
	switch t := s.(type) {
	case *script.Label:
		if name == "name" {
			return t.Name, true
		}
	case *script.Dialogue:
		switch name {
		case "speaker":
			return t.Speaker, true
		case "text":
			return t.Text, true
		}
	case *script.Scene:
		switch name {
		case "image":
			return t.Image, true
		case "transition":
			return t.Transition, true
		}
	case *script.Show:
		switch name {
		case "image":
			return t.Image, true
		case "position":
			return t.Position, true
		case "transition":
			return t.Transition, true
		}
	case *script.Hide:
		switch name {
		case "image":
			return t.Image, true
		case "transition":
			return t.Transition, true
		}
	case *script.With:
		if name == "transition" {
			return t.Transition, true
		}
	case *script.Menu:
		if name == "prompt" {
			return t.Prompt, true
		}
	case *script.Choice:
		switch name {
		case "text":
			return t.Text, true
		case "condition":
			return t.Condition, true
		}
	case *script.Jump:
		if name == "target" {
			return t.Target, true
		}
	case *script.Call:
		if name == "target" {
			return t.Target, true
		}
	case *script.Branch:
		if name == "condition" {
			return t.Condition, true
		}
	case *script.Set:
		switch name {
		case "variable":
			return t.Variable, true
		case "operator":
			return t.Operator, true
		case "value":
			return t.Value, true
		}
	case *script.RawCode:
		if name == "code" {
			return t.Code, true
		}
	case *script.Play:
		switch name {
		case "channel":
			return t.Channel, true
		case "file":
			return t.File, true
		case "fadein":
			return formatNumber(t.FadeIn), true
		case "loop":
			return formatFlag(t.Loop), true
		}
	case *script.Stop:
		switch name {
		case "channel":
			return t.Channel, true
		case "fadeout":
			return formatNumber(t.FadeOut), true
		}
	case *script.Pause:
		if name == "duration" {
			return formatNumber(t.Duration), true
		}
	case *script.Nvl:
		if name == "action" {
			return t.Action, true
		}
	case *script.Define:
		switch name {
		case "name":
			return t.Name, true
		case "value":
			return t.Value, true
		}
	case *script.Default:
		switch name {
		case "name":
			return t.Name, true
		case "value":
			return t.Value, true
		}
	}
	return "", false
}

// applySlot writes the named slot on a statement. It assumes the value was
// already validated; numeric and flag slots parse leniently to their zero
// value. The bool result mirrors slotValue.
func applySlot(s script.Statement, name, value string) bool {
	parseNum := func() float64 {
		f, _ := strconv.ParseFloat(value, 64)
		return f
	}
	switch t := s.(type) {
	case *script.Label:
		if name == "name" {
			t.Name = value
			return true
		}
	case *script.Dialogue:
		switch name {
		case "speaker":
			t.Speaker = value
			return true
		case "text":
			t.Text = value
			return true
		}
	case *script.Scene:
		switch name {
		case "image":
			t.Image = value
			return true
		case "transition":
			t.Transition = value
			return true
		}
	case *script.Show:
		switch name {
		case "image":
			t.Image = value
			return true
		case "position":
			t.Position = value
			return true
		case "transition":
			t.Transition = value
			return true
		}
	case *script.Hide:
		switch name {
		case "image":
			t.Image = value
			return true
		case "transition":
			t.Transition = value
			return true
		}
	case *script.With:
		if name == "transition" {
			t.Transition = value
			return true
		}
	case *script.Menu:
		if name == "prompt" {
			t.Prompt = value
			return true
		}
	case *script.Choice:
		switch name {
		case "text":
			t.Text = value
			return true
		case "condition":
			t.Condition = value
			return true
		}
	case *script.Jump:
		if name == "target" {
			t.Target = value
			return true
		}
	case *script.Call:
		if name == "target" {
			t.Target = value
			return true
		}
	case *script.Branch:
		if name == "condition" {
			t.Condition = value
			return true
		}
	case *script.Set:
		switch name {
		case "variable":
			t.Variable = value
			return true
		case "operator":
			t.Operator = value
			return true
		case "value":
			t.Value = value
			return true
		}
	case *script.RawCode:
		if name == "code" {
			t.Code = value
			return true
		}
	case *script.Play:
		switch name {
		case "channel":
			t.Channel = value
			return true
		case "file":
			t.File = value
			return true
		case "fadein":
			t.FadeIn = parseNum()
			return true
		case "loop":
			t.Loop = value == "true"
			return true
		}
	case *script.Stop:
		switch name {
		case "channel":
			t.Channel = value
			return true
		case "fadeout":
			t.FadeOut = parseNum()
			return true
		}
	case *script.Pause:
		if name == "duration" {
			t.Duration = parseNum()
			return true
		}
	case *script.Nvl:
		if name == "action" {
			t.Action = value
			return true
		}
	case *script.Define:
		switch name {
		case "name":
			t.Name = value
			return true
		case "value":
			t.Value = value
			return true
		}
	case *script.Default:
		switch name {
		case "name":
			t.Name = value
			return true
		case "value":
			t.Value = value
			return true
		}
	}
	return false
}
