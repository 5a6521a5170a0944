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

// Package mask provides bounds-checked 2D byte views used as segmentation masks.
//
// A View references a byte slice together with its width, height and stride
// (bytes per row). Views never copy: Region returns a sub-view that shares the
// parent's storage, which is how callers hand a rectangle of a larger mask to
// the kernels in package segment.
//
// Every cell of a mask is a region index. The meaning of an index (background,
// tracked region, invalid) is a convention of the caller.
//
// # Usage Example
//
//	m := mask.NewView(640, 480)
//	m.Fill(0)
//	m.FillFrame(mask.Rect{Left: 1, Top: 1, Right: 639, Bottom: 479}, 2)
//	roi := m.Region(mask.Rect{Left: 100, Top: 100, Right: 200, Bottom: 180})
//	roi.Set(10, 10, 3)
//
// # Rectangles
//
// Rect is half-open: Right and Bottom are exclusive. The zero Rect is the
// empty sentinel returned by segment.ShrinkRegion when no pixel matches.
package mask
