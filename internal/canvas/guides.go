/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

// Smart guides and snapping for dragging nodes on the flow canvas. Snapping
// happens independently in X and Y against the rectangles of the stationary
// nodes.

import "math"

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance (in canvas units) at which snapping
	// occurs. Typical UI values are 6–8 pixels.
	Threshold float64
	// Snap to edges (left, right, top, bottom)
	SnapToEdges bool
	// Snap to centers (cx, cy)
	SnapToCenters bool
}

// Anchor is a stationary reference rect (another node, or the viewport
// bounds). Weight biases selection when distances tie (higher = preferred);
// when uncertain, set Weight to 1.
type Anchor struct {
	Rect   Rect
	Weight float64
}

// GuideLine describes a visual guide generated during a snap alignment.
// Orientation is "vertical" or "horizontal". Kind indicates which features
// aligned: "edge" or "center". From and To denote the guide extents for
// rendering. Positions are rounded to 3 decimal places for determinism.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float64
	From        Pt
	To          Pt
}

// axisBest tracks the winning candidate for one axis during a snap pass.
type axisBest struct {
	delta float64
	dist  float64
	guide GuideLine
}

func (b *axisBest) consider(delta, threshold, weight float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	if dist/math.Max(1, weight) < b.dist {
		b.dist = dist
		b.delta = delta
		b.guide = g
	}
}

// ComputeSmartGuides computes snapping adjustments for a moving node
// rectangle against the anchors. It returns the snapped rectangle and any
// guide lines to render for visual feedback.
func ComputeSmartGuides(moving Rect, anchors []Anchor, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	bestX := axisBest{dist: math.Inf(1)}
	bestY := axisBest{dist: math.Inf(1)}

	mLeft, mRight := moving.X, moving.X+moving.W
	mTop, mBottom := moving.Y, moving.Y+moving.H
	mCX, mCY := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, a := range anchors {
		aLeft, aRight := a.Rect.X, a.Rect.X+a.Rect.W
		aTop, aBottom := a.Rect.Y, a.Rect.Y+a.Rect.H
		aCX, aCY := a.Rect.X+a.Rect.W/2, a.Rect.Y+a.Rect.H/2

		if opts.SnapToEdges {
			// like edges, then abutting edges
			bestX.consider(mLeft-aLeft, opts.Threshold, a.Weight, verticalGuide(aLeft, moving, a.Rect, "edge"))
			bestX.consider(mRight-aRight, opts.Threshold, a.Weight, verticalGuide(aRight, moving, a.Rect, "edge"))
			bestX.consider(mLeft-aRight, opts.Threshold, a.Weight, verticalGuide(aRight, moving, a.Rect, "edge"))
			bestX.consider(mRight-aLeft, opts.Threshold, a.Weight, verticalGuide(aLeft, moving, a.Rect, "edge"))

			bestY.consider(mTop-aTop, opts.Threshold, a.Weight, horizontalGuide(aTop, moving, a.Rect, "edge"))
			bestY.consider(mBottom-aBottom, opts.Threshold, a.Weight, horizontalGuide(aBottom, moving, a.Rect, "edge"))
			bestY.consider(mTop-aBottom, opts.Threshold, a.Weight, horizontalGuide(aBottom, moving, a.Rect, "edge"))
			bestY.consider(mBottom-aTop, opts.Threshold, a.Weight, horizontalGuide(aTop, moving, a.Rect, "edge"))
		}
		if opts.SnapToCenters {
			bestX.consider(mCX-aCX, opts.Threshold, a.Weight, verticalGuide(aCX, moving, a.Rect, "center"))
			bestY.consider(mCY-aCY, opts.Threshold, a.Weight, horizontalGuide(aCY, moving, a.Rect, "center"))
		}
	}

	snapped := moving
	var guides []GuideLine
	if bestX.dist <= opts.Threshold {
		snapped.X = Round(moving.X-bestX.delta, 3)
		guides = append(guides, bestX.guide)
	}
	if bestY.dist <= opts.Threshold {
		snapped.Y = Round(moving.Y-bestY.delta, 3)
		guides = append(guides, bestY.guide)
	}
	return snapped, guides
}

func verticalGuide(x float64, a, b Rect, kind string) GuideLine {
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y+a.H, b.Y+b.H)
	x = Round(x, 3)
	return GuideLine{
		Orientation: "vertical",
		Kind:        kind,
		Position:    x,
		From:        Pt{x, minY},
		To:          Pt{x, maxY},
	}
}

func horizontalGuide(y float64, a, b Rect, kind string) GuideLine {
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X+a.W, b.X+b.W)
	y = Round(y, 3)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        kind,
		Position:    y,
		From:        Pt{minX, y},
		To:          Pt{maxX, y},
	}
}
