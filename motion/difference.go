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
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/ajroetker/go-segmask/mask"
)

// ErrSizeMismatch is returned when views that must agree in size do not.
var ErrSizeMismatch = errors.New("motion: size mismatch")

// AbsDifference writes |a-b| per pixel into dst. All three views must have
// the same size.
func AbsDifference(a, b, dst *mask.View) error {
	if !mask.SameSize(a, b) || !mask.SameSize(a, dst) {
		return errors.Wrapf(ErrSizeMismatch, "a %dx%d, b %dx%d, dst %dx%d",
			a.Width(), a.Height(), b.Width(), b.Height(), dst.Width(), dst.Height())
	}
	absDifferenceRows(a, b, dst, 0, a.Height())
	return nil
}

func absDifferenceRows(a, b, dst *mask.View, top, bottom int) {
	for y := top; y < bottom; y++ {
		ra, rb, rd := a.Row(y), b.Row(y), dst.Row(y)
		for x := range rd {
			if ra[x] > rb[x] {
				rd[x] = ra[x] - rb[x]
			} else {
				rd[x] = rb[x] - ra[x]
			}
		}
	}
}

// halve resamples src to width x height with a bilinear filter.
func halve(src *mask.View, width, height int) (*mask.View, error) {
	scaled := resize.Resize(uint(width), uint(height), src.Gray(), resize.Bilinear)
	gray, ok := scaled.(*image.Gray)
	if !ok {
		return nil, errors.Errorf("motion: resize returned %T, want *image.Gray", scaled)
	}
	v, err := mask.FromGray(gray)
	if err != nil {
		return nil, err
	}
	if v.Width() != width || v.Height() != height {
		return nil, errors.Wrapf(ErrSizeMismatch, "resized to %dx%d, want %dx%d",
			v.Width(), v.Height(), width, height)
	}
	return v, nil
}

// maxInto stores max(dst, src) per pixel in dst.
func maxInto(dst, src *mask.View) {
	for y := 0; y < dst.Height(); y++ {
		rd, rs := dst.Row(y), src.Row(y)
		for x := range rd {
			rd[x] = max(rd[x], rs[x])
		}
	}
}

// propagateDifference pushes each level forward into the next coarser one:
// level i becomes the per-pixel maximum of its own difference and the
// reduced level i-1.
func propagateDifference(p *mask.Pyramid) error {
	for i := 1; i < p.Len(); i++ {
		dst := p.Level(i)
		reduced, err := halve(p.Level(i-1), dst.Width(), dst.Height())
		if err != nil {
			return errors.Wrapf(err, "difference level %d", i)
		}
		maxInto(dst, reduced)
	}
	return nil
}

// frameDifferences writes |cur-prev| of the reduced frames into levels 1..
// of p. Level 0 is left to the caller.
func frameDifferences(p *mask.Pyramid, prev, cur *mask.View) error {
	for i := 1; i < p.Len(); i++ {
		dst := p.Level(i)
		var err error
		if prev, err = halve(prev, dst.Width(), dst.Height()); err != nil {
			return errors.Wrapf(err, "previous frame level %d", i)
		}
		if cur, err = halve(cur, dst.Width(), dst.Height()); err != nil {
			return errors.Wrapf(err, "current frame level %d", i)
		}
		absDifferenceRows(prev, cur, dst, 0, dst.Height())
	}
	return nil
}
