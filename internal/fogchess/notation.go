package fogchess

import (
	"fmt"
	"strings"
)

const files = "abcdefgh"

// ParseSquare maps a label like "e2" to a position: file a..h is the column,
// rank r is row 8-r. Anything else is an error.
func ParseSquare(label string) (Position, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", label)
	}
	col := strings.IndexByte(files, s[0])
	if col < 0 || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("invalid square %q", label)
	}
	rank := int(s[1] - '0')
	return Position{Row: Size - rank, Col: col}, nil
}

// String returns the square label, or "??" off the board.
func (p Position) String() string {
	if !p.Valid() {
		return "??"
	}
	return fmt.Sprintf("%c%d", files[p.Col], Size-p.Row)
}

// ParseMove splits "e2e4", "e2-e4" or "e2 e4" into origin and destination.
func ParseMove(s string) (from, to Position, err error) {
	m := strings.NewReplacer("-", "", " ", "", "x", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	if len(m) != 4 {
		return from, to, fmt.Errorf("invalid move %q", s)
	}
	if from, err = ParseSquare(m[:2]); err != nil {
		return from, to, err
	}
	if to, err = ParseSquare(m[2:]); err != nil {
		return from, to, err
	}
	return from, to, nil
}

// Move is an origin/destination pair.
type Move struct {
	From Position
	To   Position
}

// String returns the coordinate form, e.g. "e2e4".
func (m Move) String() string { return m.From.String() + m.To.String() }
