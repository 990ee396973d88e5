package fogchess

import "math/bits"

// SquareSet is a set of board positions, one bit per square.
type SquareSet uint64

// SetOf builds a set from positions. Off-board positions are ignored.
func SetOf(ps ...Position) SquareSet {
	var s SquareSet
	for _, p := range ps {
		s = s.Add(p)
	}
	return s
}

func (s SquareSet) Add(p Position) SquareSet {
	if !p.Valid() {
		return s
	}
	return s | 1<<uint(p.index())
}

func (s SquareSet) Has(p Position) bool {
	return p.Valid() && s&(1<<uint(p.index())) != 0
}

func (s SquareSet) Union(o SquareSet) SquareSet { return s | o }

func (s SquareSet) Intersect(o SquareSet) SquareSet { return s & o }

func (s SquareSet) Len() int { return bits.OnesCount64(uint64(s)) }

func (s SquareSet) Empty() bool { return s == 0 }

// Positions lists the members in row-major order.
func (s SquareSet) Positions() []Position {
	out := make([]Position, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		i := bits.TrailingZeros64(rest)
		out = append(out, Position{Row: i / Size, Col: i % Size})
	}
	return out
}
