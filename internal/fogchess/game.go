package fogchess

// Game owns one board, the side to move and the outcome. It is not safe for concurrent use;
// callers serialize access, and every read accessor returns a copy.
type Game struct {
	board   Board
	turn    Color
	outcome Outcome
	plies   int
	last    *Move
}

// NewGame starts from the standard setup with White to move.
func NewGame() *Game {
	return &Game{board: NewStandardBoard(), turn: White}
}

// NewGameFromBoard starts from an arbitrary position. A board missing a king is not judged
// here; the outcome only changes through a king capture.
func NewGameFromBoard(b Board, turn Color) *Game {
	return &Game{board: b, turn: turn}
}

func (g *Game) Outcome() Outcome { return g.outcome }

// Turn is the color to move next.
func (g *Game) Turn() Color { return g.turn }

// TurnCount is the number of moves executed so far.
func (g *Game) TurnCount() int { return g.plies }

// Snapshot returns a copy of the unmasked board.
func (g *Game) Snapshot() Board { return g.board }

// Board returns the board as seen from perspective p.
func (g *Game) Board(p Perspective) View { return Render(p, g.board) }

// LastMove returns the most recent executed move; ok is false before the first move.
func (g *Game) LastMove() (m Move, ok bool) {
	if g.last == nil {
		return Move{}, false
	}
	return *g.last, true
}

// Play is MakeMove on square labels. A label that does not decode to a square is an illegal
// move like any other: false, nothing changes.
func (g *Game) Play(fromLabel, toLabel string) bool {
	from, err := ParseSquare(fromLabel)
	if err != nil {
		return false
	}
	to, err := ParseSquare(toLabel)
	if err != nil {
		return false
	}
	return g.MakeMove(from, to)
}

// MakeMove validates and executes one move. It reports false, leaving the game untouched, when
// the game is over, from is empty or holds the wrong side's piece, or to is not a generated
// destination. Capturing a king ends the game for the capturer. The turn flips on every
// executed move, the winning one included.
func (g *Game) MakeMove(from, to Position) bool {
	if g.outcome != InProgress {
		return false
	}
	if !from.Valid() || !to.Valid() {
		return false
	}
	mover := g.board.At(from)
	if mover.IsEmpty() || mover.Color != g.turn {
		return false
	}
	if !Moves(g.board, from).Has(to) {
		return false
	}
	// generators never offer own-occupied squares; kept as a regression guard
	captured := g.board.At(to)
	if !captured.IsEmpty() && captured.Color == mover.Color {
		return false
	}

	g.board.Set(to, mover)
	g.board.Clear(from)
	if captured.Kind == King {
		g.outcome = winFor(mover.Color)
	}
	g.turn = g.turn.Opponent()
	g.plies++
	g.last = &Move{From: from, To: to}
	return true
}
