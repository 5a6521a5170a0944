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

package mask

import "fmt"

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect defines a half-open rectangular region within a mask.
type Rect struct {
	Left, Top     int // inclusive
	Right, Bottom int // exclusive
}

// RectOf returns the rectangle covering a width x height area at the origin.
func RectOf(width, height int) Rect {
	return Rect{Right: width, Bottom: height}
}

// Width returns the rectangle width.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the rectangle height.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Area returns Width*Height, or 0 for an empty rectangle.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Empty returns true if the rectangle has zero or negative area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Intersect returns the intersection of two rectangles.
// The result may be empty; it is not normalized to the zero Rect.
func (r Rect) Intersect(other Rect) Rect {
	return Rect{
		Left:   max(r.Left, other.Left),
		Top:    max(r.Top, other.Top),
		Right:  min(r.Right, other.Right),
		Bottom: min(r.Bottom, other.Bottom),
	}
}

// Union returns the smallest rectangle containing both r and other.
// Empty operands are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	return Rect{
		Left:   min(r.Left, other.Left),
		Top:    min(r.Top, other.Top),
		Right:  max(r.Right, other.Right),
		Bottom: max(r.Bottom, other.Bottom),
	}
}

// UnionPoint grows r to include pixel p.
func (r Rect) UnionPoint(p Point) Rect {
	return r.Union(Rect{Left: p.X, Top: p.Y, Right: p.X + 1, Bottom: p.Y + 1})
}

// AddBorder grows every side by n pixels. A negative n shrinks the rectangle.
func (r Rect) AddBorder(n int) Rect {
	return Rect{Left: r.Left - n, Top: r.Top - n, Right: r.Right + n, Bottom: r.Bottom + n}
}

// Scale multiplies every coordinate by k.
func (r Rect) Scale(k int) Rect {
	return Rect{Left: r.Left * k, Top: r.Top * k, Right: r.Right * k, Bottom: r.Bottom * k}
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Top >= r.Top &&
		other.Right <= r.Right && other.Bottom <= r.Bottom
}

// ContainsPoint reports whether p lies inside r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Center returns the (rounded down) centre of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// String formats r as "(left,top,right,bottom)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}
