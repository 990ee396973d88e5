package foggame

import (
	"context"
	"fmt"
	"strings"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/fogchess"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/render"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/pkg/fogdto"
)

// View returns the board userID is entitled to see: their own side while playing, and the
// full board for anyone once the game is over.
func (m *Manager) View(ctx context.Context, g *Game, userID string) (*fogdto.BoardView, error) {
	if g == nil {
		return nil, ErrGameNotFound
	}
	if !g.Active() {
		return m.ViewFor(ctx, g, fogchess.Audience)
	}
	side, ok := g.PlayerColor(userID)
	if !ok {
		return nil, ErrNotParticipant
	}
	return m.ViewFor(ctx, g, perspectiveOf(side))
}

// ViewFor renders g from a fixed perspective. Callers decide who may receive it.
func (m *Manager) ViewFor(ctx context.Context, g *Game, p fogchess.Perspective) (*fogdto.BoardView, error) {
	if g == nil {
		return nil, ErrGameNotFound
	}
	game, err := replay(g.Moves)
	if err != nil {
		return nil, err
	}
	view := game.Board(p)
	opts := render.RenderOptions{
		HUDHeader: hudHeader(p),
		HUDTurn:   hudTurn(g, game),
		Highlight: lastHighlight(game, p),
	}
	png, err := m.renderer.RenderPNG(ctx, view, opts)
	if err != nil {
		return nil, fmt.Errorf("render %s view: %w", p, err)
	}
	return &fogdto.BoardView{
		GameID:      g.ID,
		Perspective: p.String(),
		Placement:   render.Placement(view),
		Turn:        string(g.Turn),
		MoveCount:   len(g.Moves),
		Fogged:      view.Fogged().Len(),
		Finished:    !g.Active(),
		Outcome:     g.Outcome,
		BoardImage:  png,
	}, nil
}

func hudHeader(p fogchess.Perspective) string {
	if p == fogchess.Audience {
		return "Fog Chess - full board"
	}
	return "Fog Chess - " + p.String() + " view"
}

func hudTurn(g *Game, game *fogchess.Game) string {
	if !g.Active() {
		if g.Outcome == "" {
			return "Game over"
		}
		return title(g.Outcome) + " wins"
	}
	return fmt.Sprintf("%s to move - ply %d", title(game.Turn().String()), game.TurnCount()+1)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// lastHighlight shows the previous move to a player only when it was theirs or both of its
// squares are inside their visible set.
func lastHighlight(game *fogchess.Game, p fogchess.Perspective) *render.MoveHighlight {
	mv, ok := game.LastMove()
	if !ok {
		return nil
	}
	h := &render.MoveHighlight{From: mv.From, To: mv.To}
	viewer, isPlayer := p.Player()
	if !isPlayer {
		return h
	}
	board := game.Snapshot()
	if mover := board.At(mv.To); !mover.IsEmpty() && mover.Color == viewer {
		return h
	}
	visible := fogchess.VisibleSquares(viewer, board)
	if visible.Has(mv.From) && visible.Has(mv.To) {
		return h
	}
	return nil
}
