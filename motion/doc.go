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

// Package motion segments moving regions out of a frame difference image
// using the mask kernels of package segment.
//
// Regions are seeded and grown on a coarse pyramid level, then carried down
// to full resolution with Propagate2x2, tightened with ShrinkRegion at every
// level, and discarded with ChangeIndex when they are too small or vanish.
//
//	seg, err := motion.NewSegmenter(640, 480)
//	if err != nil {
//	    return err
//	}
//	defer seg.Close()
//	if err := seg.SetFrames(prev, cur); err != nil {
//	    return err
//	}
//	regions, err := seg.Segment()
package motion
