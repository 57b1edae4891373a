/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package assetpack bundles a project's assets (backgrounds, sprites, audio)
// into a single zip for sharing between projects, and installs such packs.
package assetpack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "vnweaver/internal/log"
)

// packedDirs are the project subdirectories included in a pack.
var packedDirs = []string{"assets", "audio"}

// ManifestName is the human-readable manifest at the archive root.
const ManifestName = "assetpack.manifest.txt"

// ExportProjectAssets zips the project's asset directories (<project>/assets
// and <project>/audio) into a single .zip file. The archive preserves the
// directory structure and adds a small manifest at the root for quick human
// inspection. Missing directories are created empty so the archive is always
// produced.
func ExportProjectAssets(projectRoot string, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("assetpack"), "export").With(slog.String("project", projectRoot))
	if strings.TrimSpace(projectRoot) == "" {
		return errors.New("projectRoot is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	for _, d := range packedDirs {
		dir := filepath.Join(projectRoot, d)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("ensure %s dir: %w", d, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	manifest := fmt.Sprintf("VN Weaver Asset Pack\nCreated: %s\nProject: %s\n\nContents mirror the project's /assets and /audio directories.\n",
		time.Now().Format(time.RFC3339), projectRoot)
	w, err := zw.Create(ManifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	for _, d := range packedDirs {
		dir := filepath.Join(projectRoot, d)
		err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(projectRoot, path)
			if err != nil {
				return err
			}
			// Forward slashes inside the zip, regardless of host OS
			fw, err := zw.Create(filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if _, err := io.Copy(fw, f); err != nil {
				return err
			}
			added++
			return nil
		})
		if err != nil {
			l.Error("zip build failed", slog.Any("err", err))
			return fmt.Errorf("build zip: %w", err)
		}
	}
	l.Info("asset pack exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// InstallPack extracts the given .zip pack into the project. Entries rooted
// at assets/ or audio/ keep their place; anything else lands under assets/.
// Existing files are never overwritten; skipped files are not counted.
func InstallPack(projectRoot string, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("assetpack"), "install").With(slog.String("project", projectRoot))
	if strings.TrimSpace(projectRoot) == "" {
		return 0, errors.New("projectRoot is required")
	}
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("packZipPath is required")
	}
	for _, d := range packedDirs {
		if err := os.MkdirAll(filepath.Join(projectRoot, d), 0o755); err != nil {
			return 0, fmt.Errorf("ensure %s dir: %w", d, err)
		}
	}

	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		name := f.Name
		if name == ManifestName {
			continue
		}
		targetRel := name
		if !hasPackedPrefix(targetRel) {
			targetRel = filepath.ToSlash(filepath.Join("assets", targetRel))
		}
		targetPath := filepath.Join(projectRoot, filepath.FromSlash(targetRel))
		if _, err := os.Stat(targetPath); err == nil {
			l.Warn("skip existing file", slog.String("path", targetPath))
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return installed, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return installed, err
		}
		rc, err := f.Open()
		if err != nil {
			return installed, err
		}
		out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			_ = rc.Close()
			return installed, err
		}
		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return installed, err
		}
		_ = out.Close()
		_ = rc.Close()
		installed++
	}
	l.Info("asset pack installed", slog.Int("files", installed))
	return installed, nil
}

func hasPackedPrefix(rel string) bool {
	for _, d := range packedDirs {
		if strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	return false
}
