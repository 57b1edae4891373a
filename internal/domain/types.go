/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "vnweaver/internal/script"

// Project is a visual-novel project: the manifest metadata plus the script
// forest. It serializes to the human-readable JSON manifest at the project
// root.
type Project struct {
	Name       string         `json:"name"`
	Metadata   Metadata       `json:"metadata,omitempty"`
	Characters []Character    `json:"characters,omitempty"`
	Assets     []Asset        `json:"assets,omitempty"`
	Script     *script.Script `json:"script"`
}

// Metadata contains optional descriptive metadata for a project.
type Metadata struct {
	Author   string `json:"author,omitempty"`
	Synopsis string `json:"synopsis,omitempty"`
	Version  string `json:"version,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Character is a roster entry: the identifier used in dialogue speaker
// slots plus presentation hints.
type Character struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Asset describes an external resource referenced from the script
// (backgrounds, sprites, audio files).
type Asset struct {
	Type    string `json:"type"` // image, audio, font
	Path    string `json:"path"`
	License string `json:"license,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// NewProject returns a minimal project with one empty start label, the same
// shape the editor opens on File > New.
func NewProject(name string) *Project {
	start := script.NewStatement(script.KindLabel).(*script.Label)
	start.Name = "start"
	return &Project{
		Name:   name,
		Script: &script.Script{Statements: []script.Statement{start}},
	}
}

// CharacterByID returns the roster entry with the given id.
func (p *Project) CharacterByID(id string) (Character, bool) {
	for _, c := range p.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}
