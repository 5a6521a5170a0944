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

package segment

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-segmask/mask"
)

// Kernels is the contract every implementation of the four mask operations
// satisfies. Implementations must produce byte-identical results to the
// Base* reference functions for every valid input.
type Kernels interface {
	ShrinkRegion(m *mask.View, index uint8, r mask.Rect) mask.Rect
	FillSingleHoles(m *mask.View, index uint8)
	ChangeIndex(m *mask.View, oldIndex, newIndex uint8)
	Propagate2x2(parent, child, difference *mask.View, currentIndex, invalidIndex, emptyIndex, differenceThreshold uint8)
}

// Implementation is a registered set of kernels.
type Implementation struct {
	Name string

	// Width is the number of bytes processed per step. An implementation is
	// eligible when Width <= CurrentWidth().
	Width int

	// Priority orders eligible implementations; the highest wins.
	Priority int

	Kernels Kernels
}

// ErrUnknownImplementation is returned by Use for names that were never registered.
var ErrUnknownImplementation = errors.New("segment: unknown implementation")

var (
	registryMu sync.Mutex
	registry   []*Implementation
	current    atomic.Pointer[Implementation]
	pinned     bool // set by Use; Register does not reselect

	logger atomic.Pointer[slog.Logger]
)

func init() {
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))

	Register(Implementation{Name: "base", Width: 1, Priority: 0, Kernels: baseKernels{}})
	Register(Implementation{Name: "swar64", Width: 8, Priority: 10, Kernels: newSWARKernels(8)})
	Register(Implementation{Name: "swar128", Width: 16, Priority: 20, Kernels: newSWARKernels(16)})
	Register(Implementation{Name: "swar256", Width: 32, Priority: 30, Kernels: newSWARKernels(32)})
	Register(Implementation{Name: "swar512", Width: 64, Priority: 40, Kernels: newSWARKernels(64)})

	if name := os.Getenv("SEGMASK_KERNELS"); name != "" {
		if err := Use(name); err != nil {
			Logger().Warn("ignoring SEGMASK_KERNELS", "value", name, "error", err)
		}
	}
}

// SetLogger sets the logger used to report implementation selection.
// A nil logger silences the package.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Store(l)
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return logger.Load()
}

// Register adds an implementation. Registering a name twice replaces the
// earlier entry. Unless Use pinned a choice, the selection is recomputed on
// the next call to Current.
func Register(impl Implementation) {
	if impl.Kernels == nil {
		panic("segment: Register with nil Kernels")
	}
	registryMu.Lock()
	defer registryMu.Unlock()

	p := &impl
	if i := slices.IndexFunc(registry, func(e *Implementation) bool { return e.Name == impl.Name }); i >= 0 {
		registry[i] = p
	} else {
		registry = append(registry, p)
	}
	slices.SortStableFunc(registry, func(a, b *Implementation) int { return b.Priority - a.Priority })
	if !pinned {
		current.Store(nil)
	}
}

// Implementations returns every registered implementation, highest priority first.
func Implementations() []Implementation {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Implementation, len(registry))
	for i, p := range registry {
		out[i] = *p
	}
	return out
}

// Lookup returns the implementation registered under name.
func Lookup(name string) (Implementation, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, p := range registry {
		if p.Name == name {
			return *p, true
		}
	}
	return Implementation{}, false
}

// Best returns the highest priority implementation eligible for CurrentWidth.
func Best() Implementation {
	registryMu.Lock()
	defer registryMu.Unlock()
	return *best()
}

func best() *Implementation {
	for _, p := range registry {
		if p.Width <= currentWidth {
			return p
		}
	}
	// The reference is always eligible, but a caller may have replaced it.
	return registry[len(registry)-1]
}

// Use pins the implementation registered under name as the current one.
// An empty name clears the pin and returns to automatic selection.
func Use(name string) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" {
		pinned = false
		current.Store(nil)
		return nil
	}
	for _, p := range registry {
		if p.Name == name {
			pinned = true
			current.Store(p)
			Logger().Debug("segment kernels pinned", "name", p.Name, "width", p.Width)
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownImplementation, "%q", name)
}

// Current returns the implementation the package-level functions dispatch to.
func Current() Implementation {
	if p := current.Load(); p != nil {
		return *p
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if p := current.Load(); p != nil {
		return *p
	}
	p := best()
	current.Store(p)
	Logger().Debug("segment kernels selected",
		"name", p.Name, "width", p.Width, "level", CurrentName(), "cpu_width", currentWidth)
	return *p
}
