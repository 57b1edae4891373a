/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"vnweaver/internal/script"
	"vnweaver/internal/storage"
)

// PDFOptions controls PDF script export.
// Units are points (pt). Vector text relies on built-in Helvetica for
// portability; font embedding can be added later using TTFs.
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	// Labels limits export to the named labels; empty exports all.
	Labels []string
	// ResolveSpeakers replaces character IDs with display names.
	ResolveSpeakers bool
	// TitlePage prepends a page with the project name and metadata.
	TitlePage bool
	// FontSize for body text; label headings are rendered larger. Zero
	// means 11pt.
	FontSize float64
}

// A4 in points.
const (
	pdfPageWidth  = 595.28
	pdfPageHeight = 841.89
	pdfMargin     = 56.0
	indentStep    = 18.0
)

// ExportScriptPDF renders the project script as a paginated PDF at outPath.
// Relative outPath is placed under <project>/exports/.
func ExportScriptPDF(ph *storage.ProjectHandle, outPath string, opt PDFOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	fontSize := opt.FontSize
	if fontSize <= 0 {
		fontSize = 11
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s — Script", ph.Project.Name), true)
	if ph.Project.Metadata.Author != "" {
		pdf.SetAuthor(ph.Project.Metadata.Author, true)
	}
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	if opt.TitlePage {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 24)
		pdf.CellFormat(0, 32, ph.Project.Name, "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		if ph.Project.Metadata.Author != "" {
			pdf.CellFormat(0, 18, "by "+ph.Project.Metadata.Author, "", 1, "C", false, 0, "")
		}
		if ph.Project.Metadata.Version != "" {
			pdf.CellFormat(0, 18, "version "+ph.Project.Metadata.Version, "", 1, "C", false, 0, "")
		}
		if ph.Project.Metadata.Synopsis != "" {
			pdf.Ln(18)
			pdf.SetFont("Helvetica", "I", 11)
			pdf.MultiCell(0, 15, ph.Project.Metadata.Synopsis, "", "L", false)
		}
	}

	lines := renderProject(&ph.Project, TextOptions{Labels: opt.Labels, ResolveSpeakers: opt.ResolveSpeakers})
	pdf.AddPage()
	lineHeight := fontSize * 1.35
	usableWidth := pdfPageWidth - 2*pdfMargin
	for _, ln := range lines {
		if ln.text == "" {
			pdf.Ln(lineHeight)
			continue
		}
		switch {
		case ln.kind == script.KindLabel && ln.indent == 0:
			pdf.SetFont("Helvetica", "B", fontSize+3)
		case ln.kind == script.KindDialogue:
			pdf.SetFont("Helvetica", "", fontSize)
		default:
			pdf.SetFont("Courier", "", fontSize-1)
		}
		indent := float64(ln.indent) * indentStep
		pdf.SetX(pdfMargin + indent)
		pdf.MultiCell(usableWidth-indent, lineHeight, ln.text, "", "L", false)
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
