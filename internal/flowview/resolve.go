/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flowview

import (
	"sort"
	"strings"
)

// The resolver checks are advisory: they are recomputed in full on every
// graph rebuild instead of tracked incrementally, so they can never drift
// from the structure. None of them blocks editing.

func (g *Graph) forward() map[string][]string {
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

func (g *Graph) backward() map[string][]string {
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.To] = append(adj[e.To], e.From)
	}
	return adj
}

// Orphans returns ids of nodes not reachable from any scene root, sorted.
// Scene roots are never orphans by definition.
func Orphans(g *Graph) []string {
	adj := g.forward()
	visited := map[string]bool{}
	var queue []string
	for _, r := range g.Roots() {
		visited[r.ID] = true
		queue = append(queue, r.ID)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	var out []string
	for _, n := range g.Nodes {
		if !visited[n.ID] {
			out = append(out, n.ID)
		}
	}
	sort.Strings(out)
	return out
}

// InvalidTargets returns ids of jump/call nodes whose target does not
// case-sensitively match an existing label name. Empty or whitespace-only
// targets are always invalid. Other node kinds are trivially valid.
func InvalidTargets(g *Graph) []string {
	labels := map[string]bool{}
	for _, r := range g.Roots() {
		labels[r.LabelName] = true
	}
	var out []string
	for _, n := range g.Nodes {
		if n.Kind != NodeJump && n.Kind != NodeCall {
			continue
		}
		if strings.TrimSpace(n.Target) == "" || !labels[n.Target] {
			out = append(out, n.ID)
		}
	}
	sort.Strings(out)
	return out
}

// Cycles runs directed-cycle detection over the drawn edge set and returns
// one node path per cycle found. Narrative loops through jump/call are never
// reported because jump/call targets are not materialized as edges; anything
// returned here indicates a structural containment problem.
func Cycles(g *Graph) [][]string {
	adj := g.forward()
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var stack []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range adj[id] {
			switch color[next] {
			case white:
				visit(next)
			case gray:
				// back edge: slice the cycle out of the current path
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						cycle := make([]string, len(stack)-i)
						copy(cycle, stack[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, n := range g.Nodes {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	return cycles
}

// ResolveNodeLabel walks backward along edges from the node to its owning
// scene root and returns that label's name. The second result is false when
// no root is reachable; this agrees exactly with Orphans: a node is an
// orphan if and only if its label does not resolve.
func ResolveNodeLabel(g *Graph, nodeID string) (string, bool) {
	start := g.Node(nodeID)
	if start == nil {
		return "", false
	}
	if start.Kind == NodeScene {
		return start.LabelName, true
	}
	adj := g.backward()
	visited := map[string]bool{nodeID: true}
	queue := []string{nodeID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if n := g.Node(cur); n != nil && n.Kind == NodeScene {
			return n.LabelName, true
		}
		for _, prev := range adj[cur] {
			if !visited[prev] {
				visited[prev] = true
				queue = append(queue, prev)
			}
		}
	}
	return "", false
}
