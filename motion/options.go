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
	"log/slog"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-segmask/segment"
)

// Options configures a Segmenter.
type Options struct {
	// Levels is the number of pyramid levels. Seeding happens on the
	// coarsest level by default.
	Levels int

	// DifferenceCreationMin is the difference a pixel must exceed to seed a region.
	DifferenceCreationMin uint8

	// DifferenceExpansionMin is the difference a pixel must exceed to join a region.
	DifferenceExpansionMin uint8

	// RegionAreaMin is the bounding-box area at or below which a fresh
	// region is discarded.
	RegionAreaMin int

	// Workers sizes the pool used for per-row frame work. <= 0 uses GOMAXPROCS.
	Workers int

	Logger  *slog.Logger
	Kernels string // implementation name; empty uses segment.Current
}

// DefaultOptions returns the thresholds of the reference motion detector.
func DefaultOptions() Options {
	return Options{
		Levels:                 3,
		DifferenceCreationMin:  128,
		DifferenceExpansionMin: 96,
		RegionAreaMin:          16,
	}
}

// Option modifies Options.
type Option func(*Options)

// WithLevels sets the number of pyramid levels.
func WithLevels(n int) Option {
	return func(o *Options) { o.Levels = n }
}

// WithThresholds sets the seed and expansion difference thresholds.
func WithThresholds(creationMin, expansionMin uint8) Option {
	return func(o *Options) {
		o.DifferenceCreationMin = creationMin
		o.DifferenceExpansionMin = expansionMin
	}
}

// WithRegionAreaMin sets the minimum bounding-box area of a kept region.
func WithRegionAreaMin(area int) Option {
	return func(o *Options) { o.RegionAreaMin = area }
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithKernels selects a registered kernel implementation by name.
func WithKernels(name string) Option {
	return func(o *Options) { o.Kernels = name }
}

// ErrInvalidOptions is returned by NewSegmenter for unusable settings.
var ErrInvalidOptions = errors.New("motion: invalid options")

func (o Options) kernels() (segment.Kernels, string, error) {
	if o.Kernels == "" {
		impl := segment.Current()
		return impl.Kernels, impl.Name, nil
	}
	impl, ok := segment.Lookup(o.Kernels)
	if !ok {
		return nil, "", errors.Wrapf(segment.ErrUnknownImplementation, "%q", o.Kernels)
	}
	return impl.Kernels, impl.Name, nil
}
