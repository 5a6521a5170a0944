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

package motion

import (
	"fmt"

	"github.com/ajroetker/go-segmask/mask"
)

// Region is a moving region found by Segment.
type Region struct {
	// Index is the value the region's pixels carry in every mask level.
	Index uint8

	// Level is the pyramid level the region was seeded on.
	Level int

	// Rect bounds the region at full resolution.
	Rect mask.Rect

	// Rects[l] bounds the region on level l, for l <= Level.
	Rects []mask.Rect

	// Center is the centre of Rect.
	Center mask.Point
}

func newRegion(index uint8, level int) *Region {
	return &Region{Index: index, Level: level, Rects: make([]mask.Rect, level+1)}
}

func (r *Region) String() string {
	return fmt.Sprintf("region %d level %d rect %v center (%d,%d)", r.Index, r.Level, r.Rect, r.Center.X, r.Center.Y)
}
