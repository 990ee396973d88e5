package fogchess

import "testing"

const sparseLayout = `....k...
........
........
p......n
........
........
........
R...K...`

func TestInitialViewHidesWholeOpponentArmy(t *testing.T) {
	b := NewStandardBoard()
	visible := VisibleSquares(White, b)
	if visible.Len() != 16 {
		t.Fatalf("white should see ranks 3 and 4 only, got %v", visible.Positions())
	}
	want := `********
********
........
........
........
........
PPPPPPPP
RNBQKBNR`
	if got := Render(WhiteView, b).String(); got != want {
		t.Fatalf("white view:\n%s\nwant:\n%s", got, want)
	}
	if got := Render(Audience, b).String(); got != b.String() {
		t.Fatalf("audience view must be the full board:\n%s", got)
	}
}

func TestRenderPlayerPerspectives(t *testing.T) {
	b := mustBoard(t, sparseLayout)

	white := Render(WhiteView, b)
	wantWhite := `....*...
........
........
p......*
........
........
........
R...K...`
	if got := white.String(); got != wantWhite {
		t.Fatalf("white view:\n%s\nwant:\n%s", got, wantWhite)
	}

	black := Render(BlackView, b)
	wantBlack := `....k...
........
........
p......n
........
........
........
*...*...`
	if got := black.String(); got != wantBlack {
		t.Fatalf("black view:\n%s\nwant:\n%s", got, wantBlack)
	}
	if cell := black.At(pos(t, "a1")); !cell.Fog || !cell.Piece.IsEmpty() {
		t.Fatalf("fog cell must not leak the piece: %+v", cell)
	}
}

func TestRenderMatchesVisibleSquares(t *testing.T) {
	boards := []Board{NewStandardBoard(), mustBoard(t, midgameLayout), mustBoard(t, sparseLayout)}
	for bi, b := range boards {
		for _, viewer := range []Color{White, Black} {
			visible := VisibleSquares(viewer, b)
			v := Render(PerspectiveOf(viewer), b)
			for r := 0; r < Size; r++ {
				for c := 0; c < Size; c++ {
					at := Position{Row: r, Col: c}
					piece := b.At(at)
					cell := v.At(at)
					switch {
					case piece.IsEmpty():
						if cell.Fog || !cell.Piece.IsEmpty() {
							t.Fatalf("board %d %s: empty %v rendered as %+v", bi, viewer, at, cell)
						}
					case piece.Color == viewer:
						if cell.Fog || cell.Piece != piece {
							t.Fatalf("board %d %s: own piece at %v rendered as %+v", bi, viewer, at, cell)
						}
					case visible.Has(at):
						if cell.Fog || cell.Piece != piece {
							t.Fatalf("board %d %s: visible enemy at %v hidden", bi, viewer, at)
						}
					default:
						if !cell.Fog {
							t.Fatalf("board %d %s: unseen enemy at %v shown", bi, viewer, at)
						}
					}
				}
			}
			opponents := SetOf(b.Pieces(viewer.Opponent())...)
			seen := opponents.Intersect(visible)
			if fog := v.Fogged(); fog.Len() != opponents.Len()-seen.Len() || !fog.Intersect(visible).Empty() {
				t.Fatalf("board %d %s: fogged %v, opponents %v, seen %v", bi, viewer, fog.Positions(), opponents.Positions(), seen.Positions())
			}
		}
	}
}

func TestVisibleSquaresIncludesEmptyAndCaptureTargets(t *testing.T) {
	b := mustBoard(t, sparseLayout)
	visible := VisibleSquares(White, b)
	for _, name := range []string{"a2", "a4", "a5", "d1", "d2", "f1"} {
		if !visible.Has(pos(t, name)) {
			t.Fatalf("expected %s visible to white, got %v", name, visible.Positions())
		}
	}
	for _, name := range []string{"a6", "e8", "h5", "e1"} {
		if visible.Has(pos(t, name)) {
			t.Fatalf("%s must not be visible to white", name)
		}
	}
}

func TestParsePerspective(t *testing.T) {
	cases := map[string]Perspective{"white": WhiteView, "B": BlackView, " audience ": Audience}
	for in, want := range cases {
		got, err := ParsePerspective(in)
		if err != nil || got != want {
			t.Fatalf("ParsePerspective(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePerspective("referee"); err == nil {
		t.Fatalf("expected error for unknown perspective")
	}
}
