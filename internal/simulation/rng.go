package simulation

// Mulberry32 is a small seedable generator with 32 bits of state. The
// sequence for a given seed is fixed on every platform.
type Mulberry32 struct {
	state uint32
}

func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 advances the state and returns the next raw output.
func (m *Mulberry32) Uint32() uint32 {
	m.state += 0x6D2B79F5
	s := m.state
	t := (s ^ s>>15) * (s | 1)
	t ^= t + (t^t>>7)*(t|61)
	return t ^ t>>14
}

// Float64 returns the next draw in [0,1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / 4294967296.0
}
