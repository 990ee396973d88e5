package fogpresenter

import (
	"errors"
	"strings"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/fogchess"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/foggame"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/lobby"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/stats"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/util"
)

const helpHeader = "🌫️ 안개 체스 명령어 안내"

// Formatter turns game state into chat text using the message catalog.
type Formatter struct {
	cat    *msgcat.Catalog
	prefix string
}

func NewFormatter(cat *msgcat.Catalog, prefix string) *Formatter {
	return &Formatter{cat: cat, prefix: strings.TrimSpace(prefix)}
}

// Text renders a catalog entry that takes no fields.
func (f *Formatter) Text(key string) string {
	return f.cat.Text(key, nil)
}

func (f *Formatter) Help() string {
	body := f.cat.Text("fog.help", map[string]string{"Prefix": f.prefix})
	return util.SeeMore(helpHeader, body)
}

func (f *Formatter) Start(g *foggame.Game) string {
	return f.cat.Text("fog.start", map[string]string{"White": g.WhiteName, "Black": g.BlackName})
}

// Turn names the side to move and the ply about to be played.
func (f *Formatter) Turn(g *foggame.Game) string {
	return f.cat.Text("fog.turn."+string(g.Turn), map[string]int{"Ply": len(g.Moves) + 1})
}

// MoveFor is the text that accompanies a board after a move. The mover sees their move
// echoed; the opponent only learns that a move happened.
func (f *Formatter) MoveFor(g *foggame.Game, p fogchess.Perspective) string {
	if !g.Active() {
		return f.Finish(g)
	}
	mover := foggame.White
	if g.Turn == foggame.White {
		mover = foggame.Black
	}
	viewer, isPlayer := p.Player()
	if isPlayer && string(mover) != viewer.String() {
		return f.cat.Text("fog.move.opponent_moved", map[string]string{"Player": g.PlayerName(mover)}) + "\n" + f.Turn(g)
	}
	return f.cat.Text("fog.move.played", map[string]string{"Player": g.PlayerName(mover), "Move": g.LastMove()}) + "\n" + f.Turn(g)
}

func (f *Formatter) Finish(g *foggame.Game) string {
	winner := foggame.Color(g.Outcome)
	loser := foggame.White
	if winner == foggame.White {
		loser = foggame.Black
	}
	data := map[string]string{"Winner": g.PlayerName(winner), "Loser": g.PlayerName(loser)}
	if g.Method == foggame.MethodResignation {
		return f.cat.Text("fog.finish.resign", data)
	}
	return f.cat.Text("fog.finish.king_captured", data)
}

func (f *Formatter) Illegal(move string) string {
	return f.cat.Text("fog.move.illegal", map[string]string{"Move": strings.TrimSpace(move)})
}

func (f *Formatter) LobbyMade(code string) string {
	return f.cat.Text("fog.lobby.made", map[string]string{"Code": code, "Prefix": f.prefix})
}

func (f *Formatter) Challenge(target, code string) string {
	return f.cat.Text("fog.lobby.challenge", map[string]string{"Target": target, "Code": code, "Prefix": f.prefix})
}

func (f *Formatter) LobbyList(list []*lobby.ChannelMeta) string {
	if len(list) == 0 {
		return f.cat.Text("fog.lobby.empty", nil)
	}
	return f.cat.Text("fog.lobby.list", map[string]any{"Channels": list})
}

func (f *Formatter) Stats(name string, rec *stats.Record) string {
	return f.cat.Text("fog.stats", map[string]any{"Name": name, "R": rec})
}

// Error maps service errors to user text; unknown errors are shown raw.
func (f *Formatter) Error(err error) string {
	key := ""
	switch {
	case err == nil:
		return ""
	case errors.Is(err, foggame.ErrGameNotFound):
		key = "fog.error.no_game"
	case errors.Is(err, foggame.ErrNotYourTurn):
		key = "fog.move.not_your_turn"
	case errors.Is(err, foggame.ErrInvalidMove):
		key = "fog.move.invalid_input"
	case errors.Is(err, foggame.ErrConcurrentUpdate):
		key = "fog.move.conflict"
	case errors.Is(err, foggame.ErrPlayerBusy), errors.Is(err, lobby.ErrPlayerBusy):
		key = "fog.error.busy"
	case errors.Is(err, foggame.ErrSharedRoom):
		key = "fog.error.shared_room"
	case errors.Is(err, foggame.ErrInvalidPlayers):
		key = "fog.error.self"
	case errors.Is(err, foggame.ErrNotParticipant):
		key = "fog.error.not_participant"
	case errors.Is(err, lobby.ErrChannelGone):
		key = "fog.lobby.gone"
	case errors.Is(err, lobby.ErrFull):
		key = "fog.lobby.full"
	case errors.Is(err, lobby.ErrCreatorHasLobby):
		key = "fog.lobby.has_lobby"
	case errors.Is(err, lobby.ErrOwnLobby):
		key = "fog.lobby.own"
	case errors.Is(err, lobby.ErrNotInvited):
		key = "fog.lobby.not_invited"
	case errors.Is(err, lobby.ErrNoInvite):
		key = "fog.lobby.no_invite"
	default:
		return f.cat.Text("fog.error.unknown", map[string]string{"Err": err.Error()})
	}
	return f.cat.Text(key, nil)
}
