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
	"math/rand"
	"testing"

	"github.com/ajroetker/go-segmask/mask"
)

// Benchmark sizes for mask kernels
var benchSizes = []struct {
	name   string
	width  int
	height int
}{
	{"64x64", 64, 64},
	{"VGA", 640, 480},
	{"1080p", 1920, 1080},
}

func benchKernels(b *testing.B, fn func(b *testing.B, k Kernels, width, height int)) {
	for _, impl := range Implementations() {
		for _, size := range benchSizes {
			b.Run(impl.Name+"/"+size.name, func(b *testing.B) {
				fn(b, impl.Kernels, size.width, size.height)
			})
		}
	}
}

func BenchmarkShrinkRegion(b *testing.B) {
	benchKernels(b, func(b *testing.B, k Kernels, width, height int) {
		m := mask.NewView(width, height)
		// Region in the centre so every scan runs a long way.
		m.Set(width/2, height/2, 3)
		r := m.Bounds()

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			k.ShrinkRegion(m, 3, r)
		}
		b.SetBytes(int64(width * height))
	})
}

func BenchmarkFillSingleHoles(b *testing.B) {
	benchKernels(b, func(b *testing.B, k Kernels, width, height int) {
		rng := rand.New(rand.NewSource(42))
		m := randomMask(rng, width, height, 2)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			k.FillSingleHoles(m, 1)
		}
		b.SetBytes(int64(width * height))
	})
}

func BenchmarkChangeIndex(b *testing.B) {
	benchKernels(b, func(b *testing.B, k Kernels, width, height int) {
		rng := rand.New(rand.NewSource(42))
		m := randomMask(rng, width, height, 4)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			// Alternate so every iteration has pixels to rewrite.
			k.ChangeIndex(m, uint8(1+i&1), uint8(2-i&1))
		}
		b.SetBytes(int64(width * height))
	})
}

func BenchmarkPropagate2x2(b *testing.B) {
	benchKernels(b, func(b *testing.B, k Kernels, width, height int) {
		rng := rand.New(rand.NewSource(42))
		parent := randomMask(rng, width/2, height/2, 4)
		child := mask.NewView(width, height)
		diff := randomMask(rng, width, height, 256)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			k.Propagate2x2(parent, child, diff, 3, 2, 0, 96)
		}
		// child and difference per iteration
		b.SetBytes(int64(width * height * 2))
	})
}
