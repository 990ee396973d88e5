package fogchess

import (
	"fmt"
	"strings"
)

// Perspective selects whose fog applies to a board snapshot.
type Perspective int8

const (
	WhiteView Perspective = iota
	BlackView
	Audience
)

// PerspectiveOf returns the player perspective for a color.
func PerspectiveOf(c Color) Perspective {
	if c == White {
		return WhiteView
	}
	return BlackView
}

// ParsePerspective accepts "white"/"w", "black"/"b" and "audience".
func ParsePerspective(s string) (Perspective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return WhiteView, nil
	case "black", "b":
		return BlackView, nil
	case "audience", "spectator", "all":
		return Audience, nil
	}
	return Audience, fmt.Errorf("unknown perspective %q", s)
}

func (p Perspective) String() string {
	switch p {
	case WhiteView:
		return "white"
	case BlackView:
		return "black"
	}
	return "audience"
}

// Player returns the color behind a player perspective; ok is false for Audience.
func (p Perspective) Player() (c Color, ok bool) {
	switch p {
	case WhiteView:
		return White, true
	case BlackView:
		return Black, true
	}
	return White, false
}

// VisibleSquares is the union of move destinations of every piece of color c on b.
// Computed from scratch on every call.
func VisibleSquares(c Color, b Board) SquareSet {
	var seen SquareSet
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			p := b[r][col]
			if p.IsEmpty() || p.Color != c {
				continue
			}
			seen = seen.Union(Generate(p.Kind, p.Color, Position{Row: r, Col: col}, b))
		}
	}
	return seen
}

// Cell is one square of a rendered view. Fog hides whatever opponent piece stands there.
type Cell struct {
	Piece Piece
	Fog   bool
}

// View is a perspective-filtered board snapshot.
type View struct {
	Perspective Perspective
	cells       [Size][Size]Cell
}

// Render applies fog of war for a player perspective. Audience gets the board unmodified.
// Own pieces and empty squares are always shown; an opponent piece is shown only if one of
// the viewer's pieces could move onto its square right now.
func Render(p Perspective, b Board) View {
	v := View{Perspective: p}
	viewer, isPlayer := p.Player()
	var visible SquareSet
	if isPlayer {
		visible = VisibleSquares(viewer, b)
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			piece := b[r][c]
			if isPlayer && !piece.IsEmpty() && piece.Color != viewer && !visible.Has(Position{Row: r, Col: c}) {
				v.cells[r][c] = Cell{Fog: true}
				continue
			}
			v.cells[r][c] = Cell{Piece: piece}
		}
	}
	return v
}

// At returns the cell at pos. Off-board positions read as empty.
func (v View) At(pos Position) Cell {
	if !pos.Valid() {
		return Cell{}
	}
	return v.cells[pos.Row][pos.Col]
}

// Fogged lists the hidden squares.
func (v View) Fogged() SquareSet {
	var s SquareSet
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if v.cells[r][c].Fog {
				s = s.Add(Position{Row: r, Col: c})
			}
		}
	}
	return s
}

// String renders the view in board layout with '*' for fog.
func (v View) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			cell := v.cells[r][c]
			if cell.Fog {
				sb.WriteByte('*')
				continue
			}
			sb.WriteByte(cell.Piece.Letter())
		}
		if r < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
