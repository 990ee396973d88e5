package fogchess

import "testing"

type gameState struct {
	board   Board
	turn    Color
	outcome Outcome
	plies   int
}

func stateOf(g *Game) gameState {
	return gameState{board: g.Snapshot(), turn: g.Turn(), outcome: g.Outcome(), plies: g.TurnCount()}
}

func TestFirstMoveE2E4(t *testing.T) {
	g := NewGame()
	if !g.Play("e2", "e4") {
		t.Fatalf("e2e4 rejected")
	}
	b := g.Snapshot()
	if b.Occupied(Position{Row: 6, Col: 4}) {
		t.Fatalf("origin square still occupied")
	}
	if got := b.At(Position{Row: 4, Col: 4}); got != (Piece{Kind: Pawn, Color: White}) {
		t.Fatalf("expected white pawn on e4, got %+v", got)
	}
	if g.Turn() != Black || g.TurnCount() != 1 {
		t.Fatalf("turn=%s count=%d", g.Turn(), g.TurnCount())
	}
	if last, ok := g.LastMove(); !ok || last.String() != "e2e4" {
		t.Fatalf("last move = %v %v", last, ok)
	}
}

func TestRejectedMovesLeaveStateUntouched(t *testing.T) {
	g := NewGame()
	before := stateOf(g)
	rejected := []struct {
		name     string
		from, to string
	}{
		{"black moves first", "e7", "e5"},
		{"empty origin", "e4", "e5"},
		{"pawn triple step", "e2", "e5"},
		{"pawn diagonal onto empty", "e2", "d3"},
		{"bishop through pawn", "c1", "a3"},
		{"onto own piece", "b1", "d2"},
		{"file out of range", "i2", "i4"},
		{"rank out of range", "e0", "e9"},
		{"empty label", "", "e4"},
		{"same square", "e2", "e2"},
	}
	for _, tc := range rejected {
		if g.Play(tc.from, tc.to) {
			t.Fatalf("%s: move %s%s accepted", tc.name, tc.from, tc.to)
		}
		if after := stateOf(g); after != before {
			t.Fatalf("%s: state changed after rejection", tc.name)
		}
	}
	if g.MakeMove(Position{Row: -1, Col: 0}, Position{Row: 0, Col: 0}) {
		t.Fatalf("off-board origin accepted")
	}
	if _, ok := g.LastMove(); ok {
		t.Fatalf("no move should be recorded")
	}
}

func TestTurnAlternatesOnlyOnSuccess(t *testing.T) {
	g := NewGame()
	steps := []struct {
		from, to string
		ok       bool
		turn     Color
	}{
		{"e2", "e4", true, Black},
		{"d2", "d4", false, Black},
		{"e7", "e5", true, White},
		{"e7", "e6", false, White},
		{"g1", "f3", true, Black},
		{"b8", "c6", true, White},
	}
	for i, s := range steps {
		if got := g.Play(s.from, s.to); got != s.ok {
			t.Fatalf("step %d %s%s: got %v want %v", i, s.from, s.to, got, s.ok)
		}
		if g.Turn() != s.turn {
			t.Fatalf("step %d: turn %s want %s", i, g.Turn(), s.turn)
		}
	}
	if g.TurnCount() != 4 {
		t.Fatalf("turn count %d, want 4", g.TurnCount())
	}
}

func TestKingCaptureEndsGame(t *testing.T) {
	b := mustBoard(t, `........
p.......
........
....k...
....K...
........
........
........`)
	g := NewGameFromBoard(b, White)
	if !g.MakeMove(pos(t, "e4"), pos(t, "e5")) {
		t.Fatalf("king capture rejected")
	}
	if g.Outcome() != WhiteWon {
		t.Fatalf("outcome %s, want white_won", g.Outcome())
	}
	if g.Turn() != Black {
		t.Fatalf("turn must flip after the winning move")
	}
	frozen := stateOf(g)
	if g.MakeMove(pos(t, "a7"), pos(t, "a6")) {
		t.Fatalf("move accepted after game over")
	}
	if stateOf(g) != frozen {
		t.Fatalf("state changed after game over")
	}
	if w, ok := g.Outcome().Winner(); !ok || w != White {
		t.Fatalf("winner = %s %v", w, ok)
	}
}

func TestFourMoveKingHunt(t *testing.T) {
	g := NewGame()
	moves := [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"d1", "h5"}, {"b7", "b6"}}
	for _, m := range moves {
		if !g.Play(m[0], m[1]) {
			t.Fatalf("move %s%s rejected", m[0], m[1])
		}
	}

	white := g.Board(WhiteView)
	for _, seen := range []string{"f7", "h7", "e5"} {
		if white.At(pos(t, seen)).Fog {
			t.Fatalf("queen on h5 should reveal %s:\n%s", seen, white)
		}
	}
	if !white.At(pos(t, "b6")).Fog || !white.At(pos(t, "e8")).Fog {
		t.Fatalf("b6 and e8 should stay fogged for white:\n%s", white)
	}
	if black := g.Board(BlackView); !black.At(pos(t, "h5")).Fog {
		t.Fatalf("no black piece reaches h5, the queen must be fogged:\n%s", black)
	}

	for _, m := range [][2]string{{"h5", "f7"}, {"b6", "b5"}} {
		if !g.Play(m[0], m[1]) {
			t.Fatalf("move %s%s rejected", m[0], m[1])
		}
	}
	if g.Outcome() != InProgress {
		t.Fatalf("capturing a pawn must not end the game")
	}
	if !g.Play("f7", "e8") {
		t.Fatalf("queen takes king rejected")
	}
	if g.Outcome() != WhiteWon {
		t.Fatalf("outcome %s after king capture", g.Outcome())
	}
	if g.Play("b5", "b4") {
		t.Fatalf("black moved after losing the king")
	}
}

func TestPawnBlockedHeadOnStaysHidden(t *testing.T) {
	g := NewGame()
	if !g.Play("e2", "e4") || !g.Play("e7", "e5") {
		t.Fatalf("opening moves rejected")
	}
	if !g.Board(WhiteView).At(pos(t, "e5")).Fog {
		t.Fatalf("a pawn cannot capture straight ahead, so e5 must stay fogged for white")
	}
	if !g.Board(BlackView).At(pos(t, "e4")).Fog {
		t.Fatalf("e4 must stay fogged for black")
	}
	if g.Board(Audience).At(pos(t, "e5")).Fog {
		t.Fatalf("audience sees everything")
	}
}
