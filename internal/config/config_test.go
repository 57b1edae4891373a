/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"testing"
)

func TestEnvOverridesTelemetry(t *testing.T) {
	old := os.Getenv(EnvTelemetryOptIn)
	_ = os.Setenv(EnvTelemetryOptIn, "true")
	t.Cleanup(func() { _ = os.Setenv(EnvTelemetryOptIn, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestEnvOverridesEditor(t *testing.T) {
	oldAuto := os.Getenv(EnvAutosaveSeconds)
	oldUndo := os.Getenv(EnvUndoDepth)
	_ = os.Setenv(EnvAutosaveSeconds, "30")
	_ = os.Setenv(EnvUndoDepth, "500")
	t.Cleanup(func() {
		_ = os.Setenv(EnvAutosaveSeconds, oldAuto)
		_ = os.Setenv(EnvUndoDepth, oldUndo)
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.AutosaveSeconds != 30 || cfg.Editor.UndoDepth != 500 {
		t.Fatalf("editor env overrides not applied: %#v", cfg.Editor)
	}
}

func TestMergeIncludesEditor(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Editor.SnapshotsPerLabel = 5
	src.Editor.DefaultSpeaker = "narrator"
	mergeInto(&dst, &src)
	if dst.Editor.SnapshotsPerLabel != 5 || dst.Editor.DefaultSpeaker != "narrator" {
		t.Fatalf("editor fields not merged correctly: %#v", dst.Editor)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/vnw.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/vnw.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/vnw.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/vnw.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	old := os.Getenv(EnvUndoDepth)
	_ = os.Setenv(EnvUndoDepth, "42")
	t.Cleanup(func() { _ = os.Setenv(EnvUndoDepth, old) })
	if name, ok := EnvOverrideFor("editor.undo_depth"); !ok || name != EnvUndoDepth {
		t.Fatalf("EnvOverrideFor: %q %v", name, ok)
	}
	if _, ok := EnvOverrideFor("nonexistent.key"); ok {
		t.Fatalf("unexpected override for unknown key")
	}
}
