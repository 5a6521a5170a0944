//go:build !amd64 && !arm64

package segment

func init() {
	if NoSimdEnv() {
		setScalarMode()
		return
	}
	// Other architectures only get the plain 64-bit word path.
	setLevel(DispatchScalar)
}

// CPUFeatures lists the detected features relevant to dispatch.
func CPUFeatures() map[string]bool {
	return map[string]bool{}
}
