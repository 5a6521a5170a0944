// Copyright 2026 go-segmask Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conformance

import (
	"math/rand"

	"github.com/ajroetker/go-segmask/mask"
)

// FillRandomMask sets each pixel to index or 0 with equal probability.
func FillRandomMask(rng *rand.Rand, m *mask.View, index uint8) {
	for y := 0; y < m.Height(); y++ {
		row := m.Row(y)
		for x := range row {
			if rng.Intn(2) == 1 {
				row[x] = index
			} else {
				row[x] = 0
			}
		}
	}
}

// FillRandom sets each pixel to a uniform value in [lo, hi].
func FillRandom(rng *rand.Rand, m *mask.View, lo, hi uint8) {
	span := int(hi) - int(lo) + 1
	for y := 0; y < m.Height(); y++ {
		row := m.Row(y)
		for x := range row {
			row[x] = lo + uint8(rng.Intn(span))
		}
	}
}

// RhombRect is the rectangle FillRhombMask is given for a w x h mask.
func RhombRect(w, h int) mask.Rect {
	return mask.Rect{Left: w * 1 / 15, Top: h * 2 / 15, Right: w * 11 / 15, Bottom: h * 12 / 15}
}

// FillRhombMask clears m and scatters index over a rhombus inscribed in r,
// so the tight bounds of index sit well inside the mask.
func FillRhombMask(rng *rand.Rand, m *mask.View, r mask.Rect, index uint8) {
	m.Fill(0)
	r = r.Intersect(m.Bounds())
	if r.Empty() {
		return
	}
	c := r.Center()
	for y := r.Top; y < r.Bottom; y++ {
		dy := y - c.Y
		if dy < 0 {
			dy = -dy
		}
		indent := dy * r.Width() / r.Height()
		row := m.Row(y)
		for x := r.Left + indent; x < r.Right-indent; x++ {
			if rng.Intn(2) == 1 {
				row[x] = index
			}
		}
	}
}
