package fogchess

import "testing"

func mustBoard(t *testing.T, layout string) Board {
	t.Helper()
	b, err := ParseBoard(layout)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	return b
}

func pos(t *testing.T, label string) Position {
	t.Helper()
	p, err := ParseSquare(label)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", label, err)
	}
	return p
}

func assertSet(t *testing.T, name string, got SquareSet, want ...Position) {
	t.Helper()
	if exp := SetOf(want...); got != exp {
		t.Fatalf("%s: got %v want %v", name, got.Positions(), exp.Positions())
	}
}

const midgameLayout = `r..qk..r
ppp..ppp
..n..n..
...pp.B.
.b..P...
..NP.N..
PPP..PPP
R..QKB.R`

func TestRookRayStopsOnCapture(t *testing.T) {
	b := mustBoard(t, `........
........
........
........
........
........
........
R..p....`)
	moves := Generate(Rook, White, Position{Row: 7, Col: 0}, b)
	for _, want := range []Position{{7, 1}, {7, 2}, {7, 3}} {
		if !moves.Has(want) {
			t.Fatalf("expected %v in rook moves %v", want, moves.Positions())
		}
	}
	for c := 4; c < Size; c++ {
		if moves.Has(Position{Row: 7, Col: c}) {
			t.Fatalf("rook ray passed the captured pawn: %v", Position{Row: 7, Col: c})
		}
	}
	if moves.Len() != 10 {
		t.Fatalf("expected 3 rightward + 7 upward moves, got %d: %v", moves.Len(), moves.Positions())
	}
}

func TestInitialPositionMoves(t *testing.T) {
	b := NewStandardBoard()
	assertSet(t, "e2 pawn", Moves(b, pos(t, "e2")), pos(t, "e3"), pos(t, "e4"))
	assertSet(t, "e7 pawn", Moves(b, pos(t, "e7")), pos(t, "e6"), pos(t, "e5"))
	assertSet(t, "g1 knight", Moves(b, pos(t, "g1")), pos(t, "f3"), pos(t, "h3"))
	assertSet(t, "b8 knight", Moves(b, pos(t, "b8")), pos(t, "a6"), pos(t, "c6"))
	for _, boxed := range []string{"a1", "c1", "d1", "e1", "f1", "h8", "d8", "e8"} {
		if m := Moves(b, pos(t, boxed)); !m.Empty() {
			t.Fatalf("%s should have no moves at start, got %v", boxed, m.Positions())
		}
	}
	if m := Moves(b, pos(t, "e4")); !m.Empty() {
		t.Fatalf("empty origin should generate nothing, got %v", m.Positions())
	}
}

func TestPawnForwardAndDoubleStep(t *testing.T) {
	blocked := mustBoard(t, `........
........
........
........
........
....n...
....P...
........`)
	if m := Moves(blocked, pos(t, "e2")); !m.Empty() {
		t.Fatalf("pawn blocked head-on must not move or capture forward: %v", m.Positions())
	}

	farBlocked := mustBoard(t, `........
........
........
........
....n...
........
....P...
........`)
	assertSet(t, "far blocked", Moves(farBlocked, pos(t, "e2")), pos(t, "e3"))

	offHome := mustBoard(t, `........
........
........
........
........
....P...
........
........`)
	assertSet(t, "off home rank", Moves(offHome, pos(t, "e3")), pos(t, "e4"))

	black := mustBoard(t, `........
...p....
........
........
........
........
........
........`)
	assertSet(t, "black double step", Moves(black, pos(t, "d7")), pos(t, "d6"), pos(t, "d5"))
}

func TestPawnDiagonalsCaptureOnly(t *testing.T) {
	b := mustBoard(t, `........
........
........
........
........
...r.N..
....P...
........`)
	// d3 holds an enemy rook, f3 a friendly knight
	assertSet(t, "white pawn", Moves(b, pos(t, "e2")), pos(t, "e3"), pos(t, "e4"), pos(t, "d3"))

	edge := mustBoard(t, `........
........
........
........
........
........
.p......
P.......`)
	// black pawn on b2 captures toward row 7 only
	assertSet(t, "black pawn", Moves(edge, pos(t, "b2")), pos(t, "b1"), pos(t, "a1"))
	// white pawn on a1: one step, no double step off the home rank, capture on b2 only
	assertSet(t, "edge pawn", Moves(edge, pos(t, "a1")), pos(t, "a2"), pos(t, "b2"))
}

func TestKnightAndKingSkipOwnPiecesAndEdges(t *testing.T) {
	b := mustBoard(t, `N.......
..P.....
.p......
........
........
........
.....kq.
.......b`)
	assertSet(t, "corner knight", Moves(b, pos(t, "a8")), pos(t, "b6"))
	king := Moves(b, pos(t, "f2"))
	if king.Has(pos(t, "g2")) {
		t.Fatalf("king may not land on own queen")
	}
	if king.Len() != 7 {
		t.Fatalf("expected 7 king moves, got %v", king.Positions())
	}
	for _, name := range []string{"a8", "c7", "b6", "f2", "g2", "h1"} {
		from := pos(t, name)
		p := b.At(from)
		if p.Kind != Knight && p.Kind != King {
			continue
		}
		for _, to := range Moves(b, from).Positions() {
			if !to.Valid() {
				t.Fatalf("%s generated off-board %v", name, to)
			}
			if dst := b.At(to); !dst.IsEmpty() && dst.Color == p.Color {
				t.Fatalf("%s generated own-occupied %v", name, to)
			}
		}
	}
}

func TestQueenIsRookUnionBishop(t *testing.T) {
	boards := []Board{NewStandardBoard(), mustBoard(t, midgameLayout), {}}
	for bi, b := range boards {
		for r := 0; r < Size; r++ {
			for c := 0; c < Size; c++ {
				from := Position{Row: r, Col: c}
				for _, side := range []Color{White, Black} {
					queen := Generate(Queen, side, from, b)
					union := Generate(Rook, side, from, b).Union(Generate(Bishop, side, from, b))
					if queen != union {
						t.Fatalf("board %d %v %s: queen %v != rook|bishop %v", bi, from, side, queen.Positions(), union.Positions())
					}
				}
			}
		}
	}
}

func TestSlidingRaysStopAtFirstPiece(t *testing.T) {
	b := mustBoard(t, midgameLayout)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			from := Position{Row: r, Col: c}
			p := b.At(from)
			if p.Kind != Bishop && p.Kind != Rook && p.Kind != Queen {
				continue
			}
			for _, to := range Moves(b, from).Positions() {
				dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
				for step := from.offset(dr, dc); step != to; step = step.offset(dr, dc) {
					if b.Occupied(step) {
						t.Fatalf("%v -> %v jumps over %v", from, to, step)
					}
				}
				if dst := b.At(to); !dst.IsEmpty() && dst.Color == p.Color {
					t.Fatalf("%v -> %v lands on own piece", from, to)
				}
			}
		}
	}
}

func TestGenerateRejectsUnknownKindAndOrigin(t *testing.T) {
	b := NewStandardBoard()
	if m := Generate(NoKind, White, pos(t, "e4"), b); !m.Empty() {
		t.Fatalf("NoKind generated %v", m.Positions())
	}
	if m := Generate(Queen, White, Position{Row: 8, Col: 0}, b); !m.Empty() {
		t.Fatalf("off-board origin generated %v", m.Positions())
	}
}

func TestGenerateDoesNotMutateBoard(t *testing.T) {
	b := mustBoard(t, midgameLayout)
	before := b
	_ = VisibleSquares(White, b)
	_ = Moves(b, pos(t, "g5"))
	if b != before {
		t.Fatalf("board changed during generation")
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
