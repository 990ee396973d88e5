// Package bot routes chat commands to the fog chess services and delivers the replies.
package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/fogchess"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/foggame"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/fogpresenter"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/irisfast"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/lobby"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/stats"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/pkg/fogdto"
	"go.uber.org/zap"
)

// Output delivers replies. *fogpresenter.Presenter is the chat implementation.
type Output interface {
	Text(ctx context.Context, room, message string) error
	Board(ctx context.Context, room, message string, view *fogdto.BoardView) error
}

// Deps bundles what the handler needs. Stats may be nil.
type Deps struct {
	Prefix    string
	Games     *foggame.Manager
	Lobby     *lobby.Manager
	Stats     *stats.Store
	Formatter *fogpresenter.Formatter
	Presenter Output
	Logger    *zap.Logger
}

type Handler struct {
	prefix string
	games  *foggame.Manager
	lobby  *lobby.Manager
	stats  *stats.Store
	fmt    *fogpresenter.Formatter
	out    Output
	logger *zap.Logger
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		prefix: strings.TrimSpace(d.Prefix),
		games:  d.Games,
		lobby:  d.Lobby,
		stats:  d.Stats,
		fmt:    d.Formatter,
		out:    d.Presenter,
		logger: logger,
	}
}

// command is one parsed "<prefix>fog ..." line.
type command struct {
	room   string
	userID string
	name   string
	sub    string
	args   []string
}

// moveText accepts "e2e4" as well as "e2 e4".
func (c command) moveText() string {
	return strings.Join(append([]string{c.sub}, c.args...), " ")
}

// parse returns false for anything that is not addressed to the fog commands.
func (h *Handler) parse(msg *irisfast.Message) (command, bool) {
	if msg == nil {
		return command{}, false
	}
	text := strings.TrimSpace(msg.Msg)
	if h.prefix == "" || !strings.HasPrefix(text, h.prefix) {
		return command{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, h.prefix))
	if len(fields) == 0 {
		return command{}, false
	}
	switch strings.ToLower(fields[0]) {
	case "fog", "안개":
	default:
		return command{}, false
	}
	cmd := command{
		room:   strings.TrimSpace(msg.Room),
		userID: strings.TrimSpace(msg.UserID()),
		name:   strings.TrimSpace(msg.SenderName()),
	}
	if len(fields) > 1 {
		cmd.sub = fields[1]
		cmd.args = fields[2:]
	}
	return cmd, true
}

// Handle processes one chat message. Replies and errors go back to the chat; nothing is returned.
func (h *Handler) Handle(ctx context.Context, msg *irisfast.Message) {
	cmd, ok := h.parse(msg)
	if !ok {
		return
	}
	sub := strings.ToLower(cmd.sub)
	if sub == "" || sub == "help" || sub == "도움말" {
		h.reply(ctx, cmd.room, h.fmt.Help())
		return
	}
	if cmd.userID == "" {
		h.reply(ctx, cmd.room, h.fmt.Error(errNoUser))
		return
	}

	var err error
	switch {
	case strings.HasPrefix(cmd.sub, "@"):
		err = h.challenge(ctx, cmd)
	case sub == "make" || sub == "만들기":
		err = h.makeLobby(ctx, cmd)
	case sub == "join" || sub == "참가":
		err = h.join(ctx, cmd)
	case sub == "accept" || sub == "수락":
		err = h.accept(ctx, cmd)
	case sub == "lobby" || sub == "대기방":
		err = h.listLobby(ctx, cmd)
	case sub == "board" || sub == "현황":
		err = h.board(ctx, cmd)
	case sub == "resign" || sub == "기권":
		err = h.resign(ctx, cmd)
	case sub == "stats" || sub == "전적":
		err = h.showStats(ctx, cmd)
	default:
		err = h.move(ctx, cmd)
	}
	if err != nil {
		h.logger.Debug("fog_command_failed", zap.String("room", cmd.room), zap.String("user_id", cmd.userID), zap.String("sub", sub), zap.Error(err))
		h.reply(ctx, cmd.room, h.errorText(cmd, err))
	}
}

var (
	errNoUser        = errors.New("no user")
	errStatsDisabled = errors.New("stats disabled")
)

func (h *Handler) errorText(cmd command, err error) string {
	switch {
	case errors.Is(err, errNoUser):
		return h.fmt.Text("fog.error.no_user")
	case errors.Is(err, foggame.ErrIllegalMove):
		return h.fmt.Illegal(cmd.moveText())
	}
	return h.fmt.Error(err)
}

// challenge invites target; the game starts once they accept from a room of their own.
func (h *Handler) challenge(ctx context.Context, cmd command) error {
	target := strings.TrimSpace(strings.TrimPrefix(cmd.sub, "@"))
	if target == "" {
		return foggame.ErrInvalidPlayers
	}
	color := foggame.ColorRandom
	if len(cmd.args) > 0 {
		color = foggame.ParseColorChoice(cmd.args[0])
	}
	res, err := h.lobby.Challenge(ctx, cmd.room, cmd.userID, cmd.name, target, color)
	if err != nil {
		return err
	}
	h.reply(ctx, cmd.room, h.fmt.Challenge(target, res.Code))
	return nil
}

func (h *Handler) accept(ctx context.Context, cmd command) error {
	res, err := h.lobby.Accept(ctx, cmd.room, cmd.userID, cmd.name)
	if err != nil {
		return err
	}
	h.announceStart(ctx, res.Game)
	return nil
}

func (h *Handler) makeLobby(ctx context.Context, cmd command) error {
	color := foggame.ColorRandom
	if len(cmd.args) > 0 {
		color = foggame.ParseColorChoice(cmd.args[0])
	}
	res, err := h.lobby.Make(ctx, cmd.room, cmd.userID, cmd.name, color)
	if err != nil {
		return err
	}
	h.reply(ctx, cmd.room, h.fmt.LobbyMade(res.Code))
	return nil
}

func (h *Handler) join(ctx context.Context, cmd command) error {
	if len(cmd.args) == 0 {
		return lobby.ErrChannelGone
	}
	res, err := h.lobby.Join(ctx, cmd.room, cmd.args[0], cmd.userID, cmd.name)
	if err != nil {
		return err
	}
	h.announceStart(ctx, res.Game)
	return nil
}

func (h *Handler) listLobby(ctx context.Context, cmd command) error {
	list, err := h.lobby.ListLobby(ctx)
	if err != nil {
		return err
	}
	h.reply(ctx, cmd.room, h.fmt.LobbyList(list))
	return nil
}

// board re-sends the asking player's own view to their own room.
func (h *Handler) board(ctx context.Context, cmd command) error {
	g, err := h.games.GetActiveGameByUserInRoom(ctx, cmd.userID, cmd.room)
	if err != nil {
		return err
	}
	if g == nil {
		return foggame.ErrGameNotFound
	}
	view, err := h.games.View(ctx, g, cmd.userID)
	if err != nil {
		return err
	}
	return h.out.Board(ctx, cmd.room, h.fmt.Turn(g), view)
}

func (h *Handler) resign(ctx context.Context, cmd command) error {
	g, err := h.games.Resign(ctx, cmd.userID, cmd.room)
	if err != nil {
		return err
	}
	h.deliver(ctx, g, func(fogchess.Perspective) string { return h.fmt.Finish(g) })
	return nil
}

func (h *Handler) showStats(ctx context.Context, cmd command) error {
	if h.stats == nil {
		return errStatsDisabled
	}
	rec, err := h.stats.Get(cmd.userID)
	if err != nil {
		return err
	}
	name := rec.Name
	if name == "" {
		name = cmd.name
	}
	h.reply(ctx, cmd.room, h.fmt.Stats(name, rec))
	return nil
}

func (h *Handler) move(ctx context.Context, cmd command) error {
	g, err := h.games.PlayMove(ctx, cmd.userID, cmd.room, cmd.moveText())
	if err != nil {
		return err
	}
	h.deliver(ctx, g, func(p fogchess.Perspective) string { return h.fmt.MoveFor(g, p) })
	return nil
}

func (h *Handler) announceStart(ctx context.Context, g *foggame.Game) {
	text := h.fmt.Start(g) + "\n" + h.fmt.Turn(g)
	h.deliver(ctx, g, func(fogchess.Perspective) string { return text })
}

// deliver renders one board per delivery target. A render failure still sends the text.
func (h *Handler) deliver(ctx context.Context, g *foggame.Game, text func(fogchess.Perspective) string) {
	for _, d := range foggame.Deliveries(g) {
		view, err := h.games.ViewFor(ctx, g, d.Perspective)
		if err != nil {
			h.logger.Error("fog_render_error", zap.String("game_id", g.ID), zap.String("perspective", d.Perspective.String()), zap.Error(err))
		}
		if err := h.out.Board(ctx, d.Room, text(d.Perspective), view); err != nil {
			h.logger.Warn("fog_send_error", zap.String("game_id", g.ID), zap.String("room", d.Room), zap.Error(err))
		}
	}
}

func (h *Handler) reply(ctx context.Context, room, text string) {
	if err := h.out.Text(ctx, room, text); err != nil {
		h.logger.Warn("fog_send_error", zap.String("room", room), zap.Error(err))
	}
}
