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

//go:build arm64

package segment

import "golang.org/x/sys/cpu"

func init() {
	if NoSimdEnv() {
		setScalarMode()
		return
	}
	detectCPUFeatures()
}

func detectCPUFeatures() {
	// ASIMD is mandatory on ARMv8 but x/sys/cpu can report it missing on
	// systems where feature detection is unavailable.
	if cpu.ARM64.HasASIMD {
		setLevel(DispatchNEON)
		return
	}
	setLevel(DispatchScalar)
}

// CPUFeatures lists the detected features relevant to dispatch.
func CPUFeatures() map[string]bool {
	return map[string]bool{
		"asimd": cpu.ARM64.HasASIMD,
		"sve":   cpu.ARM64.HasSVE,
	}
}
