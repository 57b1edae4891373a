/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vnweaver/internal/assetpack"
	"vnweaver/internal/blockview"
	"vnweaver/internal/canvas"
	"vnweaver/internal/config"
	"vnweaver/internal/crash"
	"vnweaver/internal/domain"
	"vnweaver/internal/editor"
	"vnweaver/internal/export"
	"vnweaver/internal/flowview"
	applog "vnweaver/internal/log"
	"vnweaver/internal/script"
	"vnweaver/internal/storage"
	"vnweaver/internal/version"
)

func usage() {
	fmt.Println("VN Weaver — visual novel script editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vnweaver version|-v|--version          Show version")
	fmt.Println("  vnweaver init <dir> <name>             Create a new project at <dir> with name <name>")
	fmt.Println("  vnweaver open <dir>                    Open project at <dir> and print summary")
	fmt.Println("  vnweaver save <dir>                    Save project at <dir> (creates backup)")
	fmt.Println("  vnweaver add <dir> <label> <spkr> <text>  Append a dialogue line to a label and save (\"-\" = default speaker)")
	fmt.Println("  vnweaver check <dir>                   Report dangling jumps, orphans and cycles")
	fmt.Println("  vnweaver layout <dir>                  Recompute and store default flow-node positions")
	fmt.Println("  vnweaver search <dir> <query>          Full-text search in the project index")
	fmt.Println("  vnweaver export <dir> [draft|print]    Export the script using a preset")
	fmt.Println("  vnweaver pack <dir> <zip>              Bundle project assets into a zip pack")
	fmt.Println("  vnweaver install <dir> <zip>           Install an asset pack into the project")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			name := args[3]
			l.Info("init project", slog.String("root", abs), slog.String("name", name))
			h, err := storage.InitProject(abs, *domain.NewProject(name))
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			fmt.Println("Created project at", abs)
			return
		case "open":
			ph = mustOpen(l, args)
			printSummary(ph)
			if err := storage.BuildIndexIfEmpty(context.Background(), ph.Root, ph.Project); err != nil {
				l.Warn("index build failed", slog.Any("err", err))
			}
			return
		case "save":
			ph = mustOpen(l, args)
			sess := editor.NewSession(ph, loadConfig(l))
			l.Info("save project", slog.String("root", ph.Root))
			if err := sess.Save(context.Background()); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved project and created a backup of previous manifest (if any).")
			return
		case "add":
			if len(args) < 6 {
				fmt.Println("add requires <dir>, <label>, <speaker> and <text>")
				usage()
				os.Exit(2)
			}
			ph = mustOpen(l, args)
			cfg := loadConfig(l)
			labelName, speaker, text := args[3], args[4], args[5]
			if speaker == "-" {
				speaker = cfg.Editor.DefaultSpeaker
			}
			sess := editor.NewSession(ph, cfg)
			err := sess.Apply(labelName, "add_block", func(sc *script.Script) (*script.Script, error) {
				lbl, ok := sc.LabelByName(labelName)
				if !ok {
					return sc, fmt.Errorf("%w: label %q", script.ErrNotFound, labelName)
				}
				out, stmt, err := blockview.AddBlock(sc, script.KindDialogue, lbl.ID, len(lbl.Body))
				if err != nil {
					return sc, err
				}
				if out, err = blockview.UpdateSlot(out, stmt.StatementID(), "speaker", speaker); err != nil {
					return sc, err
				}
				return blockview.UpdateSlot(out, stmt.StatementID(), "text", text)
			})
			if err != nil {
				l.Error("add failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := sess.Save(context.Background()); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Added dialogue to label %q and saved.\n", labelName)
			return
		case "check":
			ph = mustOpen(l, args)
			g := flowview.Build(ph.Project.Script)
			bad := flowview.InvalidTargets(g)
			orphans := flowview.Orphans(g)
			cycles := flowview.Cycles(g)
			for _, id := range bad {
				n := g.Node(id)
				fmt.Printf("invalid target: node %s -> %q\n", id, n.Target)
			}
			for _, id := range orphans {
				fmt.Printf("orphan: node %s\n", id)
			}
			for _, cyc := range cycles {
				fmt.Printf("cycle: %s\n", strings.Join(cyc, " -> "))
			}
			if len(bad) == 0 && len(orphans) == 0 && len(cycles) == 0 {
				fmt.Println("No issues found.")
				return
			}
			os.Exit(1)
		case "layout":
			ph = mustOpen(l, args)
			g := flowview.Build(ph.Project.Script)
			pos := canvas.AutoLayout(g)
			ctx := context.Background()
			for id, p := range pos {
				if err := storage.SaveNodePosition(ctx, ph, id, p.X, p.Y); err != nil {
					l.Error("save position failed", slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
			}
			fmt.Printf("Stored positions for %d node(s).\n", len(pos))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			ph = mustOpen(l, args)
			if err := storage.BuildIndexIfEmpty(context.Background(), ph.Root, ph.Project); err != nil {
				l.Error("index build failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			results, err := storage.Search(context.Background(), ph.Root, storage.SearchQuery{Text: args[3]})
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range results {
				fmt.Printf("%s\t%s\t%s\n", r.Type, r.Path, r.Snippet)
			}
			fmt.Printf("%d result(s)\n", len(results))
			return
		case "export":
			ph = mustOpen(l, args)
			preset := export.PresetDraft
			if len(args) >= 4 {
				preset = export.PresetName(args[3])
			}
			l.Info("export", slog.String("root", ph.Root), slog.String("preset", string(preset)))
			if err := export.BatchExport(ph, export.BatchOptions{Preset: preset}); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported to", filepath.Join(ph.Root, "exports", string(preset)))
			return
		case "pack":
			if len(args) < 4 {
				fmt.Println("pack requires <dir> and <zip>")
				usage()
				os.Exit(2)
			}
			ph = mustOpen(l, args)
			zipPath := args[3]
			if !filepath.IsAbs(zipPath) {
				zipPath = filepath.Join(ph.Root, "exports", zipPath)
			}
			if err := assetpack.ExportProjectAssets(ph.Root, zipPath); err != nil {
				l.Error("pack failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote asset pack to", zipPath)
			return
		case "install":
			if len(args) < 4 {
				fmt.Println("install requires <dir> and <zip>")
				usage()
				os.Exit(2)
			}
			ph = mustOpen(l, args)
			n, err := assetpack.InstallPack(ph.Root, args[3])
			if err != nil {
				l.Error("install failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Installed %d file(s).\n", n)
			return
		}
	}

	usage()
}

// loadConfig reads the user config; errors fall back to defaults so a broken
// config file never blocks a save.
func loadConfig(l *slog.Logger) config.AppConfig {
	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}
	return cfg
}

func mustOpen(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 3 {
		fmt.Printf("%s requires <dir>\n", args[1])
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	l.Info("open project", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}

func printSummary(ph *storage.ProjectHandle) {
	fmt.Printf("Opened project: %s\n", ph.Project.Name)
	total := 0
	ph.Project.Script.Walk(func(script.Statement) bool {
		total++
		return true
	})
	fmt.Printf("Labels: %d\n", len(ph.Project.Script.Labels()))
	fmt.Printf("Statements: %d\n", total)
	fmt.Printf("Characters: %d\n", len(ph.Project.Characters))
	fmt.Println("Root:", ph.Root)
}
