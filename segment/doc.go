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

// Package segment provides connected-region segmentation mask kernels with
// runtime dispatch.
//
// Four operations work in place on caller-owned masks (see package mask):
//
//	ShrinkRegion(m, index, rect)     // tightest rect around pixels == index
//	FillSingleHoles(m, index)        // fill 1-pixel holes surrounded by index
//	ChangeIndex(m, oldIndex, newIdx) // relabel a region
//	Propagate2x2(parent, child, difference, cur, invalid, empty, threshold)
//
// Each operation has a scalar reference (BaseShrinkRegion, ...) and
// word-parallel variants that process 8 bytes per machine word, unrolled to
// the vector width detected at startup. Every registered implementation is a
// byte-exact substitute for the reference.
//
// # Dispatch
//
// At init the package detects the CPU vector width with golang.org/x/sys/cpu.
// Current returns the highest priority implementation whose width fits the
// detected width. Set SEGMASK_NO_SIMD=1 to force the scalar reference, or
// SEGMASK_KERNELS=<name> to pick an implementation by name.
//
// # Concurrency
//
// Kernels keep no state. Calls on different masks may run in parallel; calls
// that write a mask need exclusive access to it for their duration.
//
// # Usage Example
//
//	m := mask.NewView(5, 5)
//	m.Set(2, 2, 3)
//	r := segment.ShrinkRegion(m, 3, m.Bounds()) // (2,2,3,3)
//	segment.ChangeIndex(m, 3, 7)
package segment
