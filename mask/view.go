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

import (
	"image"

	"github.com/pkg/errors"
)

// Alignment is the row alignment in bytes used by NewView.
// It matches the widest vector width the segment kernels dispatch to.
const Alignment = 64

var (
	// ErrInvalidDimensions is returned when width, height or stride are inconsistent.
	ErrInvalidDimensions = errors.New("mask: invalid dimensions")

	// ErrShortBuffer is returned when the backing slice cannot hold the view.
	ErrShortBuffer = errors.New("mask: buffer too short for view")
)

// View is a bounds-checked 2D byte grid with an explicit stride.
//
// The backing slice is capped to the last byte the view may touch, so any
// out-of-range access through Row panics instead of silently reaching a
// neighbouring buffer.
type View struct {
	data   []uint8
	width  int
	height int
	stride int // bytes per row (>= width)
}

// NewView allocates a zeroed view. Rows are padded to a multiple of Alignment.
func NewView(width, height int) *View {
	if width <= 0 || height <= 0 {
		return &View{}
	}
	stride := ((width + Alignment - 1) / Alignment) * Alignment
	return &View{
		data:   make([]uint8, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}
}

// FromSlice wraps caller-owned memory. It never copies.
func FromSlice(data []uint8, width, height, stride int) (*View, error) {
	if width <= 0 || height <= 0 || stride < width {
		return nil, errors.Wrapf(ErrInvalidDimensions, "width=%d height=%d stride=%d", width, height, stride)
	}
	need := span(width, height, stride)
	if len(data) < need {
		return nil, errors.Wrapf(ErrShortBuffer, "have %d bytes, need %d", len(data), need)
	}
	return &View{data: data[:need:need], width: width, height: height, stride: stride}, nil
}

// FromGray returns a view sharing the pixels of img.
func FromGray(img *image.Gray) (*View, error) {
	if img == nil {
		return nil, errors.Wrap(ErrInvalidDimensions, "nil image")
	}
	b := img.Bounds()
	return FromSlice(img.Pix, b.Dx(), b.Dy(), img.Stride)
}

// Gray copies the view into a new *image.Gray.
func (v *View) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, v.width, v.height))
	for y := 0; y < v.height; y++ {
		copy(img.Pix[y*img.Stride:], v.Row(y))
	}
	return img
}

func span(width, height, stride int) int {
	return (height-1)*stride + width
}

// Width returns the view width in pixels.
func (v *View) Width() int {
	return v.width
}

// Height returns the view height in pixels.
func (v *View) Height() int {
	return v.height
}

// Stride returns the number of bytes between the starts of consecutive rows.
func (v *View) Stride() int {
	return v.stride
}

// Bounds returns the rectangle covering the whole view.
func (v *View) Bounds() Rect {
	return RectOf(v.width, v.height)
}

// Row returns row y limited to the view width.
// It returns nil when y is out of range.
func (v *View) Row(y int) []uint8 {
	if y < 0 || y >= v.height {
		return nil
	}
	start := y * v.stride
	return v.data[start : start+v.width : start+v.width]
}

// At returns the value at (x, y), or 0 when out of range.
func (v *View) At(x, y int) uint8 {
	if x < 0 || x >= v.width || y < 0 || y >= v.height {
		return 0
	}
	return v.data[y*v.stride+x]
}

// AtPoint is At(p.X, p.Y).
func (v *View) AtPoint(p Point) uint8 {
	return v.At(p.X, p.Y)
}

// Set writes value at (x, y). Out-of-range writes are ignored.
func (v *View) Set(x, y int, value uint8) {
	if x < 0 || x >= v.width || y < 0 || y >= v.height {
		return
	}
	v.data[y*v.stride+x] = value
}

// Region returns a sub-view sharing storage with v.
// The rectangle is clamped to the view, so the result may be empty.
func (v *View) Region(r Rect) *View {
	r = r.Intersect(v.Bounds())
	if r.Empty() {
		return &View{}
	}
	off := r.Top*v.stride + r.Left
	end := off + span(r.Width(), r.Height(), v.stride)
	return &View{
		data:   v.data[off:end:end],
		width:  r.Width(),
		height: r.Height(),
		stride: v.stride,
	}
}

// SameSize reports whether both views have the same dimensions.
func SameSize(a, b *View) bool {
	return a.width == b.width && a.height == b.height
}

// Fill sets every pixel of the view (not the row padding) to value.
func (v *View) Fill(value uint8) {
	for y := 0; y < v.height; y++ {
		row := v.Row(y)
		for x := range row {
			row[x] = value
		}
	}
}

// FillFrame sets every pixel outside inner to value.
func (v *View) FillFrame(inner Rect, value uint8) {
	inner = inner.Intersect(v.Bounds())
	for y := 0; y < v.height; y++ {
		row := v.Row(y)
		if y < inner.Top || y >= inner.Bottom || inner.Empty() {
			for x := range row {
				row[x] = value
			}
			continue
		}
		for x := 0; x < inner.Left; x++ {
			row[x] = value
		}
		for x := inner.Right; x < v.width; x++ {
			row[x] = value
		}
	}
}

// Clone returns a compact deep copy of the view.
func (v *View) Clone() *View {
	if v.width == 0 || v.height == 0 {
		return &View{}
	}
	c := NewView(v.width, v.height)
	c.CopyFrom(v)
	return c
}

// CopyFrom copies src into v. Both views must have the same size.
func (v *View) CopyFrom(src *View) {
	if !SameSize(v, src) {
		panic("mask: CopyFrom size mismatch")
	}
	for y := 0; y < v.height; y++ {
		copy(v.Row(y), src.Row(y))
	}
}

// Equal reports whether both views have the same size and pixels.
func (v *View) Equal(other *View) bool {
	if !SameSize(v, other) {
		return false
	}
	for y := 0; y < v.height; y++ {
		a, b := v.Row(y), other.Row(y)
		for x := range a {
			if a[x] != b[x] {
				return false
			}
		}
	}
	return true
}

// Count returns the number of pixels equal to value.
func (v *View) Count(value uint8) int {
	n := 0
	for y := 0; y < v.height; y++ {
		for _, c := range v.Row(y) {
			if c == value {
				n++
			}
		}
	}
	return n
}
