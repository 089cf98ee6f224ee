// Some helpers using closures to generate test values
package valgen

// MakeWordGen returns a deterministic xorshift generator of 32-bit words.
// A zero seed is replaced so the sequence never gets stuck at zero.
func MakeWordGen(seed uint32) func() uint32 {
	state := seed
	if state == 0 {
		state = 0x9e3779b9
	}
	return func() uint32 {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		return state
	}
}

// MakeEdgeWordGen first yields the usual corner cases of 32-bit
// arithmetic, then falls back to MakeWordGen.
func MakeEdgeWordGen(seed uint32) func() uint32 {
	edges := []uint32{0, 1, 0x7fffffff, 0x80000000, 0xffffffff, 0x800, 0xfff}
	next := MakeWordGen(seed)
	i := 0
	return func() uint32 {
		if i < len(edges) {
			i++
			return edges[i-1]
		}
		return next()
	}
}
