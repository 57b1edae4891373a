/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import "vnweaver/internal/flowview"

// Default node box used when a frontend has not measured real sizes.
const (
	DefaultNodeWidth  = 180.0
	DefaultNodeHeight = 72.0
	columnGap         = 80.0
	rowGap            = 36.0
)

// NodeRect returns the box a node occupies at the given position.
func NodeRect(p Pt) Rect {
	return Rect{X: p.X, Y: p.Y, W: DefaultNodeWidth, H: DefaultNodeHeight}
}

// AutoLayout assigns a position to every node of the graph: columns by
// distance from the scene roots, rows stacked in graph order within each
// column. Nodes unreachable from any root (staged or orphaned) land in an
// extra column after the deepest reachable one. The result is deterministic
// for a given graph.
func AutoLayout(g *flowview.Graph) map[string]Pt {
	depth := make(map[string]int, len(g.Nodes))
	adj := make(map[string][]string)
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	maxDepth := 0
	var queue []string
	for _, n := range g.Roots() {
		depth[n.ID] = 0
		queue = append(queue, n.ID)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adj[id] {
			if _, seen := depth[next]; seen {
				continue
			}
			depth[next] = depth[id] + 1
			if depth[next] > maxDepth {
				maxDepth = depth[next]
			}
			queue = append(queue, next)
		}
	}

	rows := make(map[int]int)
	out := make(map[string]Pt, len(g.Nodes))
	for _, n := range g.Nodes {
		col, ok := depth[n.ID]
		if !ok {
			col = maxDepth + 1
		}
		row := rows[col]
		rows[col] = row + 1
		out[n.ID] = Pt{
			X: float64(col) * (DefaultNodeWidth + columnGap),
			Y: float64(row) * (DefaultNodeHeight + rowGap),
		}
	}
	return out
}
