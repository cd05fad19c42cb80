package apu

// channel2 is the square channel without sweep (NR21-NR24).
type channel2 struct {
	*square
}

func newChannel2() *channel2 {
	return &channel2{square: newSquare()}
}
