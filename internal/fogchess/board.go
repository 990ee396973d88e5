package fogchess

import (
	"fmt"
	"strings"
)

// Size is the board dimension.
const Size = 8

// Board is an 8x8 grid of pieces. It is a plain value: assigning or passing a Board copies it,
// so move generation and visibility always work on their own snapshot.
type Board [Size][Size]Piece

const standardLayout = `rnbqkbnr
pppppppp
........
........
........
........
PPPPPPPP
RNBQKBNR`

// NewStandardBoard returns the initial chess setup.
func NewStandardBoard() Board {
	b, err := ParseBoard(standardLayout)
	if err != nil {
		panic("standard layout: " + err.Error())
	}
	return b
}

// ParseBoard reads eight rows of eight letters (uppercase white, lowercase black, '.' or ' ' empty).
// Rows may be separated by newlines or '/'.
func ParseBoard(s string) (Board, error) {
	var b Board
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", "\n")
	var rows []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) != Size {
		return b, fmt.Errorf("board has %d rows, want %d", len(rows), Size)
	}
	for r, line := range rows {
		if len(line) != Size {
			return b, fmt.Errorf("row %d has %d columns, want %d", r, len(line), Size)
		}
		for c := 0; c < Size; c++ {
			ch := line[c]
			if ch == '.' || ch == ' ' {
				continue
			}
			p, ok := pieceFromLetter(ch)
			if !ok {
				return b, fmt.Errorf("unknown piece letter %q at row %d col %d", ch, r, c)
			}
			b[r][c] = p
		}
	}
	return b, nil
}

// At returns the piece on pos. Off-board positions read as empty.
func (b *Board) At(pos Position) Piece {
	if !pos.Valid() {
		return NoPiece
	}
	return b[pos.Row][pos.Col]
}

// Set places p on pos.
func (b *Board) Set(pos Position, p Piece) {
	b[pos.Row][pos.Col] = p
}

// Clear empties pos.
func (b *Board) Clear(pos Position) {
	b[pos.Row][pos.Col] = NoPiece
}

// Occupied reports whether pos holds a piece.
func (b *Board) Occupied(pos Position) bool {
	return !b.At(pos).IsEmpty()
}

// Pieces returns the squares holding pieces of color c, row-major.
func (b *Board) Pieces(c Color) []Position {
	var out []Position
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			p := b[r][col]
			if !p.IsEmpty() && p.Color == c {
				out = append(out, Position{Row: r, Col: col})
			}
		}
	}
	return out
}

// String renders the board in the ParseBoard layout.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(Size * (Size + 1))
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			sb.WriteByte(b[r][c].Letter())
		}
		if r < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
