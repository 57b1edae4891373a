/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes the script out in distributable formats. Exporters
// are read-only consumers of the project: they never mutate the statement
// forest.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vnweaver/internal/domain"
	"vnweaver/internal/script"
	"vnweaver/internal/storage"
)

// TextOptions controls plain-text script export.
type TextOptions struct {
	// Labels limits export to the named labels; empty exports all, in
	// document order.
	Labels []string
	// ResolveSpeakers replaces character IDs in dialogue with the
	// character's display name from the project roster.
	ResolveSpeakers bool
}

// line is one rendered script line with its nesting depth. The PDF exporter
// shares the renderer so both formats agree on structure.
type line struct {
	indent int
	kind   script.Kind
	text   string
}

// ExportScriptText writes the project script as an indented plain-text file.
// Relative outPath is placed under <project>/exports/.
func ExportScriptText(ph *storage.ProjectHandle, outPath string, opt TextOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create out file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := WriteScriptText(f, &ph.Project, opt); err != nil {
		return err
	}
	return f.Sync()
}

// WriteScriptText renders the script to w, one statement per line, four
// spaces per nesting level.
func WriteScriptText(w io.Writer, p *domain.Project, opt TextOptions) error {
	for _, ln := range renderProject(p, opt) {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("    ", ln.indent), ln.text); err != nil {
			return fmt.Errorf("write line: %w", err)
		}
	}
	return nil
}

func renderProject(p *domain.Project, opt TextOptions) []line {
	speakerName := func(s string) string { return s }
	if opt.ResolveSpeakers && p != nil {
		speakerName = func(s string) string {
			if c, ok := p.CharacterByID(s); ok {
				return c.Name
			}
			return s
		}
	}

	var want map[string]bool
	if len(opt.Labels) > 0 {
		want = make(map[string]bool, len(opt.Labels))
		for _, n := range opt.Labels {
			want[n] = true
		}
	}

	var out []line
	if p == nil || p.Script == nil {
		return out
	}
	for _, s := range p.Script.Statements {
		lbl, ok := s.(*script.Label)
		if !ok {
			// Top-level define/default declarations; skipped when a label
			// subset is requested.
			if want == nil {
				renderStatement(s, 0, speakerName, &out)
			}
			continue
		}
		if want != nil && !want[lbl.Name] {
			continue
		}
		if len(out) > 0 {
			out = append(out, line{kind: lbl.Kind(), text: ""})
		}
		out = append(out, line{kind: lbl.Kind(), text: fmt.Sprintf("label %s:", lbl.Name)})
		renderBody(lbl.Body, 1, speakerName, &out)
	}
	return out
}

func renderBody(body []script.Statement, depth int, speakerName func(string) string, out *[]line) {
	for _, s := range body {
		renderStatement(s, depth, speakerName, out)
	}
}

func renderStatement(s script.Statement, depth int, speakerName func(string) string, out *[]line) {
	emit := func(text string) {
		*out = append(*out, line{indent: depth, kind: s.Kind(), text: text})
	}
	switch st := s.(type) {
	case *script.Dialogue:
		if st.Speaker == "" {
			emit(strconv.Quote(st.Text))
		} else {
			emit(fmt.Sprintf("%s %s", speakerName(st.Speaker), strconv.Quote(st.Text)))
		}
	case *script.Scene:
		emit(withTransition("scene "+st.Image, st.Transition))
	case *script.Show:
		t := "show " + st.Image
		if st.Position != "" {
			t += " at " + st.Position
		}
		emit(withTransition(t, st.Transition))
	case *script.Hide:
		emit(withTransition("hide "+st.Image, st.Transition))
	case *script.With:
		emit("with " + st.Transition)
	case *script.Menu:
		emit("menu:")
		if st.Prompt != "" {
			*out = append(*out, line{indent: depth + 1, kind: st.Kind(), text: strconv.Quote(st.Prompt)})
		}
		for _, c := range st.Choices {
			renderStatement(c, depth+1, speakerName, out)
		}
	case *script.Choice:
		t := strconv.Quote(st.Text)
		if st.Condition != "" {
			t += " if " + st.Condition
		}
		emit(t + ":")
		renderBody(st.Body, depth+1, speakerName, out)
	case *script.Jump:
		emit("jump " + st.Target)
	case *script.Call:
		emit("call " + st.Target)
	case *script.Return:
		emit("return")
	case *script.If:
		for i, b := range st.Branches {
			kw := "if"
			if i > 0 {
				kw = "elif"
			}
			head := kw + " " + b.Condition + ":"
			if b.Condition == "" {
				head = "else:"
			}
			*out = append(*out, line{indent: depth, kind: st.Kind(), text: head})
			renderBody(b.Body, depth+1, speakerName, out)
		}
	case *script.Set:
		op := st.Operator
		if op == "" {
			op = "="
		}
		emit(fmt.Sprintf("$ %s %s %s", st.Variable, op, st.Value))
	case *script.RawCode:
		emit(st.Code)
	case *script.Play:
		t := fmt.Sprintf("play %s %s", st.Channel, strconv.Quote(st.File))
		if st.FadeIn > 0 {
			t += " fadein " + formatSeconds(st.FadeIn)
		}
		if st.Loop {
			t += " loop"
		}
		emit(t)
	case *script.Stop:
		t := "stop " + st.Channel
		if st.FadeOut > 0 {
			t += " fadeout " + formatSeconds(st.FadeOut)
		}
		emit(t)
	case *script.Pause:
		if st.Duration > 0 {
			emit("pause " + formatSeconds(st.Duration))
		} else {
			emit("pause")
		}
	case *script.Nvl:
		emit("nvl " + st.Action)
	case *script.Define:
		emit(fmt.Sprintf("define %s = %s", st.Name, st.Value))
	case *script.Default:
		emit(fmt.Sprintf("default %s = %s", st.Name, st.Value))
	case *script.Label:
		// Labels only appear at the top level; a nested one becomes a comment.
		emit("# label " + st.Name)
	default:
		emit("# " + string(s.Kind()))
	}
}

func withTransition(t, transition string) string {
	if transition == "" {
		return t
	}
	return t + " with " + transition
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
