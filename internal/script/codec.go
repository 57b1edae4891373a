/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"encoding/json"
	"fmt"
)

// envelope is the wire form of a statement: one flat struct with a kind
// discriminator and omitempty everywhere, so the manifest stays readable and
// diff-friendly. Ids round-trip verbatim; ordering is the array order.
type envelope struct {
	Kind       Kind       `json:"kind"`
	ID         ID         `json:"id"`
	Name       string     `json:"name,omitempty"`
	Speaker    string     `json:"speaker,omitempty"`
	Text       string     `json:"text,omitempty"`
	Image      string     `json:"image,omitempty"`
	Position   string     `json:"position,omitempty"`
	Transition string     `json:"transition,omitempty"`
	Prompt     string     `json:"prompt,omitempty"`
	Condition  string     `json:"condition,omitempty"`
	Target     string     `json:"target,omitempty"`
	Variable   string     `json:"variable,omitempty"`
	Operator   string     `json:"operator,omitempty"`
	Value      string     `json:"value,omitempty"`
	Code       string     `json:"code,omitempty"`
	Channel    string     `json:"channel,omitempty"`
	File       string     `json:"file,omitempty"`
	FadeIn     float64    `json:"fadein,omitempty"`
	FadeOut    float64    `json:"fadeout,omitempty"`
	Loop       bool       `json:"loop,omitempty"`
	Duration   float64    `json:"duration,omitempty"`
	Action     string     `json:"action,omitempty"`
	Body       []envelope `json:"body,omitempty"`
	Choices    []envelope `json:"choices,omitempty"`
	Branches   []envelope `json:"branches,omitempty"`
}

func encodeBody(body []Statement) []envelope {
	if len(body) == 0 {
		return nil
	}
	out := make([]envelope, len(body))
	for i, s := range body {
		out[i] = encodeStatement(s)
	}
	return out
}

func encodeStatement(s Statement) envelope {
	e := envelope{Kind: s.Kind(), ID: s.StatementID()}
	switch t := s.(type) {
	case *Label:
		e.Name = t.Name
		e.Body = encodeBody(t.Body)
	case *Dialogue:
		e.Speaker = t.Speaker
		e.Text = t.Text
	case *Scene:
		e.Image = t.Image
		e.Transition = t.Transition
	case *Show:
		e.Image = t.Image
		e.Position = t.Position
		e.Transition = t.Transition
	case *Hide:
		e.Image = t.Image
		e.Transition = t.Transition
	case *With:
		e.Transition = t.Transition
	case *Menu:
		e.Prompt = t.Prompt
		if len(t.Choices) > 0 {
			e.Choices = make([]envelope, len(t.Choices))
			for i, ch := range t.Choices {
				e.Choices[i] = encodeStatement(ch)
			}
		}
	case *Choice:
		e.Text = t.Text
		e.Condition = t.Condition
		e.Body = encodeBody(t.Body)
	case *Jump:
		e.Target = t.Target
	case *Call:
		e.Target = t.Target
	case *Return:
	case *If:
		if len(t.Branches) > 0 {
			e.Branches = make([]envelope, len(t.Branches))
			for i, b := range t.Branches {
				e.Branches[i] = encodeStatement(b)
			}
		}
	case *Branch:
		e.Condition = t.Condition
		e.Body = encodeBody(t.Body)
	case *Set:
		e.Variable = t.Variable
		e.Operator = t.Operator
		e.Value = t.Value
	case *RawCode:
		e.Code = t.Code
	case *Play:
		e.Channel = t.Channel
		e.File = t.File
		e.FadeIn = t.FadeIn
		e.Loop = t.Loop
	case *Stop:
		e.Channel = t.Channel
		e.FadeOut = t.FadeOut
	case *Pause:
		e.Duration = t.Duration
	case *Nvl:
		e.Action = t.Action
	case *Define:
		e.Name = t.Name
		e.Value = t.Value
	case *Default:
		e.Name = t.Name
		e.Value = t.Value
	}
	return e
}

func decodeBody(envs []envelope) ([]Statement, error) {
	if len(envs) == 0 {
		return nil, nil
	}
	out := make([]Statement, len(envs))
	for i := range envs {
		s, err := decodeStatement(&envs[i])
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func decodeStatement(e *envelope) (Statement, error) {
	m := Meta{ID: e.ID}
	switch e.Kind {
	case KindLabel:
		body, err := decodeBody(e.Body)
		if err != nil {
			return nil, err
		}
		return &Label{Meta: m, Name: e.Name, Body: body}, nil
	case KindDialogue:
		return &Dialogue{Meta: m, Speaker: e.Speaker, Text: e.Text}, nil
	case KindScene:
		return &Scene{Meta: m, Image: e.Image, Transition: e.Transition}, nil
	case KindShow:
		return &Show{Meta: m, Image: e.Image, Position: e.Position, Transition: e.Transition}, nil
	case KindHide:
		return &Hide{Meta: m, Image: e.Image, Transition: e.Transition}, nil
	case KindWith:
		return &With{Meta: m, Transition: e.Transition}, nil
	case KindMenu:
		menu := &Menu{Meta: m, Prompt: e.Prompt}
		if len(e.Choices) > 0 {
			menu.Choices = make([]*Choice, len(e.Choices))
			for i := range e.Choices {
				s, err := decodeStatement(&e.Choices[i])
				if err != nil {
					return nil, err
				}
				ch, ok := s.(*Choice)
				if !ok {
					return nil, fmt.Errorf("menu %s: child %d is %s, want choice", e.ID, i, s.Kind())
				}
				menu.Choices[i] = ch
			}
		}
		return menu, nil
	case KindChoice:
		body, err := decodeBody(e.Body)
		if err != nil {
			return nil, err
		}
		return &Choice{Meta: m, Text: e.Text, Condition: e.Condition, Body: body}, nil
	case KindJump:
		return &Jump{Meta: m, Target: e.Target}, nil
	case KindCall:
		return &Call{Meta: m, Target: e.Target}, nil
	case KindReturn:
		return &Return{Meta: m}, nil
	case KindIf:
		ifs := &If{Meta: m}
		if len(e.Branches) > 0 {
			ifs.Branches = make([]*Branch, len(e.Branches))
			for i := range e.Branches {
				s, err := decodeStatement(&e.Branches[i])
				if err != nil {
					return nil, err
				}
				b, ok := s.(*Branch)
				if !ok {
					return nil, fmt.Errorf("if %s: child %d is %s, want branch", e.ID, i, s.Kind())
				}
				ifs.Branches[i] = b
			}
		}
		return ifs, nil
	case KindBranch:
		body, err := decodeBody(e.Body)
		if err != nil {
			return nil, err
		}
		return &Branch{Meta: m, Condition: e.Condition, Body: body}, nil
	case KindSet:
		return &Set{Meta: m, Variable: e.Variable, Operator: e.Operator, Value: e.Value}, nil
	case KindRawCode:
		return &RawCode{Meta: m, Code: e.Code}, nil
	case KindPlay:
		return &Play{Meta: m, Channel: e.Channel, File: e.File, FadeIn: e.FadeIn, Loop: e.Loop}, nil
	case KindStop:
		return &Stop{Meta: m, Channel: e.Channel, FadeOut: e.FadeOut}, nil
	case KindPause:
		return &Pause{Meta: m, Duration: e.Duration}, nil
	case KindNvl:
		return &Nvl{Meta: m, Action: e.Action}, nil
	case KindDefine:
		return &Define{Meta: m, Name: e.Name, Value: e.Value}, nil
	case KindDefault:
		return &Default{Meta: m, Name: e.Name, Value: e.Value}, nil
	}
	return nil, fmt.Errorf("unknown statement kind %q", e.Kind)
}

// MarshalJSON encodes the forest as a JSON array of statement envelopes.
func (sc *Script) MarshalJSON() ([]byte, error) {
	envs := make([]envelope, len(sc.Statements))
	for i, s := range sc.Statements {
		envs[i] = encodeStatement(s)
	}
	return json.Marshal(envs)
}

// UnmarshalJSON decodes a forest previously written by MarshalJSON.
func (sc *Script) UnmarshalJSON(data []byte) error {
	var envs []envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return err
	}
	stmts, err := decodeBody(envs)
	if err != nil {
		return err
	}
	sc.Statements = stmts
	return nil
}
