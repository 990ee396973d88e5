package fogchess

// Color identifies a side.
type Color int8

const (
	White Color = iota
	Black
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceKind is the closed set of chess piece kinds. NoKind marks an empty square.
type PieceKind int8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = [...]byte{NoKind: '.', Pawn: 'p', Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q', King: 'k'}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// Piece is a (kind, color) pair. The zero Piece is an empty square.
type Piece struct {
	Kind  PieceKind
	Color Color
}

// NoPiece is the empty square.
var NoPiece = Piece{}

func (p Piece) IsEmpty() bool { return p.Kind == NoKind }

// Letter returns the board letter: uppercase for white, lowercase for black, '.' for empty.
func (p Piece) Letter() byte {
	if p.IsEmpty() {
		return '.'
	}
	l := kindLetters[p.Kind]
	if p.Color == White {
		return l - 'a' + 'A'
	}
	return l
}

func pieceFromLetter(ch byte) (Piece, bool) {
	color := Black
	lower := ch
	if ch >= 'A' && ch <= 'Z' {
		color = White
		lower = ch - 'A' + 'a'
	}
	for k := Pawn; k <= King; k++ {
		if kindLetters[k] == lower {
			return Piece{Kind: k, Color: color}, true
		}
	}
	return NoPiece, false
}

// Position is a (row, col) pair. Row 0 is black's back rank, row 7 white's.
type Position struct {
	Row int
	Col int
}

// Valid reports whether the position lies on the board.
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Position) offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) index() int { return p.Row*Size + p.Col }

// Outcome is the game state. It only ever moves from InProgress to a win.
type Outcome int8

const (
	InProgress Outcome = iota
	WhiteWon
	BlackWon
)

func (o Outcome) String() string {
	switch o {
	case WhiteWon:
		return "white_won"
	case BlackWon:
		return "black_won"
	}
	return "in_progress"
}

// Winner returns the winning color; ok is false while the game is in progress.
func (o Outcome) Winner() (c Color, ok bool) {
	switch o {
	case WhiteWon:
		return White, true
	case BlackWon:
		return Black, true
	}
	return White, false
}

func winFor(c Color) Outcome {
	if c == White {
		return WhiteWon
	}
	return BlackWon
}
