/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"vnweaver/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetDraft is for quick review passes: plain text, raw speaker IDs.
	PresetDraft PresetName = "draft"
	// PresetPrint is for handing out: PDF with title page plus text, with
	// speaker IDs resolved to character names.
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - If OutDir is empty or relative, it is created under
//     <project>/exports/<preset>/.
//   - Outputs are named script.txt / script.pdf inside subfolders txt/ or
//     pdf/ so repeated runs of different presets never collide.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset          PresetName
	Formats         []string // allowed: txt, pdf; empty means preset defaults
	Labels          []string // limit to named labels; empty means all
	ResolveSpeakers *bool    // when set, overrides the preset's default
	OutDir          string   // base directory for outputs (created per preset if relative)
}

// BatchExport runs exports according to the given preset.
func BatchExport(ph *storage.ProjectHandle, opt BatchOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	if ph.Project.Script == nil || len(ph.Project.Script.Labels()) == 0 {
		return fmt.Errorf("project has no script labels")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(ph.Root, "exports", baseOut)
	}

	resolve := presetResolveSpeakers(opt.Preset)
	if opt.ResolveSpeakers != nil {
		resolve = *opt.ResolveSpeakers
	}

	for _, f := range formats {
		switch f {
		case "txt":
			out := filepath.Join(baseOut, "txt", "script.txt")
			to := TextOptions{Labels: opt.Labels, ResolveSpeakers: resolve}
			if err := ExportScriptText(ph, out, to); err != nil {
				return fmt.Errorf("txt export: %w", err)
			}
		case "pdf":
			out := filepath.Join(baseOut, "pdf", "script.pdf")
			po := PDFOptions{Labels: opt.Labels, ResolveSpeakers: resolve, TitlePage: opt.Preset == PresetPrint}
			if err := ExportScriptPDF(ph, out, po); err != nil {
				return fmt.Errorf("pdf export: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetDraft:
		return []string{"txt"}
	case PresetPrint:
		return []string{"pdf", "txt"}
	default:
		return []string{"txt"}
	}
}

func presetResolveSpeakers(p PresetName) bool {
	switch p {
	case PresetDraft:
		return false
	case PresetPrint:
		return true
	default:
		return false
	}
}
