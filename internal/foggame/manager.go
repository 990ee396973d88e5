package foggame

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/fogchess"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/obslog"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/render"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTTL = 24 * time.Hour

// ResultRecorder receives every game once it leaves ACTIVE.
type ResultRecorder interface {
	SaveResult(ctx context.Context, g *Game) error
}

type Manager struct {
	rdb       *redis.Client
	renderer  render.BoardRenderer
	ttl       time.Duration
	recorders []ResultRecorder
}

// NewManager connects to REDIS_URL and pings it.
func NewManager(redisURL string, ttl time.Duration) (*Manager, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for fog game manager")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewManagerWithClient(rdb, ttl), nil
}

func NewManagerWithClient(rdb *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{rdb: rdb, renderer: render.NewBoardRenderer(), ttl: ttl}
}

// Client exposes the redis connection so the lobby can share it.
func (m *Manager) Client() *redis.Client { return m.rdb }

func (m *Manager) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}

// AttachRecorder wires an archive for finished games.
func (m *Manager) AttachRecorder(r ResultRecorder) {
	if m != nil && r != nil {
		m.recorders = append(m.recorders, r)
	}
}

// CreateGame starts a game between two distinct players in two distinct rooms, refusing if
// either already has an active game in their room. A shared room would show each player's board
// to the opponent.
func (m *Manager) CreateGame(ctx context.Context, req NewGameRequest) (*Game, error) {
	challenger := strings.TrimSpace(req.ChallengerID)
	opponent := strings.TrimSpace(req.OpponentID)
	if challenger == "" || opponent == "" || challenger == opponent {
		return nil, ErrInvalidPlayers
	}
	if strings.TrimSpace(req.ChallengerRoom) == "" || strings.TrimSpace(req.ChallengerRoom) == strings.TrimSpace(req.OpponentRoom) {
		return nil, ErrSharedRoom
	}
	if g, err := m.GetActiveGameByUserInRoom(ctx, challenger, req.ChallengerRoom); err != nil {
		return nil, err
	} else if g != nil {
		return nil, ErrPlayerBusy
	}
	if g, err := m.GetActiveGameByUserInRoom(ctx, opponent, req.OpponentRoom); err != nil {
		return nil, err
	} else if g != nil {
		return nil, ErrPlayerBusy
	}

	type seat struct{ id, name, room string }
	white := seat{challenger, strings.TrimSpace(req.ChallengerName), strings.TrimSpace(req.ChallengerRoom)}
	black := seat{opponent, strings.TrimSpace(req.OpponentName), strings.TrimSpace(req.OpponentRoom)}
	switch req.Color {
	case ColorWhite:
	case ColorBlack:
		white, black = black, white
	default:
		if n, err := rand.Int(rand.Reader, big.NewInt(2)); err == nil && n.Int64() == 0 {
			white, black = black, white
		}
	}

	now := time.Now()
	g := &Game{
		ID:        "fog-" + uuid.NewString(),
		Moves:     []string{},
		Placement: render.Placement(fogchess.Render(fogchess.Audience, fogchess.NewStandardBoard())),
		Turn:      White,
		Status:    StatusActive,
		WhiteID:   white.id,
		WhiteName: white.name,
		BlackID:   black.id,
		BlackName: black.name,
		WhiteRoom: white.room,
		BlackRoom: black.room,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.save(ctx, g); err != nil {
		return nil, err
	}
	if err := m.indexParticipants(ctx, g.ID, g.WhiteID, g.BlackID); err != nil {
		return nil, err
	}
	obslog.L().Info("fog_game_create",
		zap.String("game_id", g.ID),
		zap.String("white_id", g.WhiteID),
		zap.String("black_id", g.BlackID),
		zap.String("white_room", g.WhiteRoom),
		zap.String("black_room", g.BlackRoom),
	)
	return g, nil
}

// GetActiveGameByUser returns the most recently updated active game of a user, or nil.
func (m *Manager) GetActiveGameByUser(ctx context.Context, userID string) (*Game, error) {
	return m.activeGame(ctx, userID, func(*Game) bool { return true })
}

// GetActiveGameByUserInRoom restricts the lookup to games the user plays from room, so a user
// never acts on a game from the opponent's room.
func (m *Manager) GetActiveGameByUserInRoom(ctx context.Context, userID, room string) (*Game, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, nil
	}
	return m.activeGame(ctx, userID, func(g *Game) bool { return g.RoomOf(userID) == room })
}

func (m *Manager) activeGame(ctx context.Context, userID string, keep func(*Game) bool) (*Game, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}
	ids, err := m.rdb.SMembers(ctx, idxUserKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	var list []*Game
	for _, id := range ids {
		g, err := m.get(ctx, id)
		if err != nil {
			obslog.L().Warn("fog_index_load_error", zap.String("game_id", id), zap.String("user_id", userID), zap.Error(err))
			continue
		}
		if g == nil || !g.Active() || !keep(g) {
			continue
		}
		list = append(list, g)
	}
	if len(list) == 0 {
		return nil, nil
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list[0], nil
}

// PlayMove applies a move for userID in the game bound to room. The game is rebuilt from its
// move list inside a WATCH transaction; a rejected move writes nothing.
func (m *Manager) PlayMove(ctx context.Context, userID, room, move string) (*Game, error) {
	userID = strings.TrimSpace(userID)
	g, err := m.GetActiveGameByUserInRoom(ctx, userID, room)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	from, to, perr := fogchess.ParseMove(move)
	if perr != nil {
		return g, ErrInvalidMove
	}

	key := gameKey(g.ID)
	seen := len(g.Moves)
	err = m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := loadTx(ctx, tx, key)
		if err != nil {
			return err
		}
		if !cur.Active() || len(cur.Moves) != seen {
			return redis.TxFailedErr
		}
		side, ok := cur.PlayerColor(userID)
		if !ok {
			return ErrNotParticipant
		}
		if side != cur.Turn {
			return ErrNotYourTurn
		}
		game, err := replay(cur.Moves)
		if err != nil {
			return err
		}
		if !game.MakeMove(from, to) {
			return ErrIllegalMove
		}

		mv := fogchess.Move{From: from, To: to}.String()
		cur.Moves = append(cur.Moves, mv)
		cur.Turn = colorOf(game.Turn())
		cur.Placement = render.Placement(game.Board(fogchess.Audience))
		cur.UpdatedAt = time.Now()
		if winner, done := game.Outcome().Winner(); done {
			cur.Status = StatusFinished
			cur.Outcome = string(colorOf(winner))
			cur.Winner = cur.WhiteID
			if winner == fogchess.Black {
				cur.Winner = cur.BlackID
			}
			cur.Method = MethodKingCapture
		}
		if err := m.write(ctx, tx, cur); err != nil {
			return err
		}
		g = cur
		return nil
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			err = ErrConcurrentUpdate
		}
		obslog.L().Info("fog_move_rejected",
			zap.String("game_id", g.ID),
			zap.String("user_id", userID),
			zap.String("move", strings.TrimSpace(move)),
			zap.Error(err),
		)
		return g, err
	}

	obslog.L().Info("fog_move",
		zap.String("game_id", g.ID),
		zap.String("user_id", userID),
		zap.String("move", g.LastMove()),
		zap.String("turn", string(g.Turn)),
		zap.Int("ply", len(g.Moves)),
		zap.String("status", string(g.Status)),
	)
	if !g.Active() {
		m.record(ctx, g)
	}
	return g, nil
}

// Resign ends the user's active game in room (any room when room is empty) in the opponent's favour.
func (m *Manager) Resign(ctx context.Context, userID, room string) (*Game, error) {
	userID = strings.TrimSpace(userID)
	var (
		g   *Game
		err error
	)
	if strings.TrimSpace(room) == "" {
		g, err = m.GetActiveGameByUser(ctx, userID)
	} else {
		g, err = m.GetActiveGameByUserInRoom(ctx, userID, room)
	}
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}

	key := gameKey(g.ID)
	err = m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := loadTx(ctx, tx, key)
		if err != nil {
			return err
		}
		if !cur.Active() {
			return redis.TxFailedErr
		}
		side, ok := cur.PlayerColor(userID)
		if !ok {
			return ErrNotParticipant
		}
		winner := White
		if side == White {
			winner = Black
		}
		cur.Status = StatusResigned
		cur.Outcome = string(winner)
		cur.Winner = cur.WhiteID
		if winner == Black {
			cur.Winner = cur.BlackID
		}
		cur.Method = MethodResignation
		cur.UpdatedAt = time.Now()
		if err := m.write(ctx, tx, cur); err != nil {
			return err
		}
		g = cur
		return nil
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}
	obslog.L().Info("fog_resign",
		zap.String("game_id", g.ID),
		zap.String("resigner", userID),
		zap.String("winner", g.Winner),
	)
	m.record(ctx, g)
	return g, nil
}

// Deliveries lists where boards go after a change. Each room gets its own player's view; a
// finished game is revealed to both rooms.
func Deliveries(g *Game) []Delivery {
	if g == nil {
		return nil
	}
	if !g.Active() {
		return []Delivery{
			{Room: g.WhiteRoom, Perspective: fogchess.Audience},
			{Room: g.BlackRoom, Perspective: fogchess.Audience},
		}
	}
	return []Delivery{
		{Room: g.WhiteRoom, Perspective: fogchess.WhiteView},
		{Room: g.BlackRoom, Perspective: fogchess.BlackView},
	}
}

func perspectiveOf(c Color) fogchess.Perspective {
	if c == Black {
		return fogchess.PerspectiveOf(fogchess.Black)
	}
	return fogchess.PerspectiveOf(fogchess.White)
}

// replay rebuilds the rules state from scratch. A stored move that no longer replays means the
// record is corrupt.
func replay(moves []string) (*fogchess.Game, error) {
	game := fogchess.NewGame()
	for i, mv := range moves {
		from, to, err := fogchess.ParseMove(mv)
		if err != nil {
			return nil, fmt.Errorf("replay move %d %q: %w", i+1, mv, err)
		}
		if !game.MakeMove(from, to) {
			return nil, fmt.Errorf("replay move %d %q rejected", i+1, mv)
		}
	}
	return game, nil
}

func (m *Manager) record(ctx context.Context, g *Game) {
	for _, r := range m.recorders {
		if err := r.SaveResult(ctx, g); err != nil {
			obslog.L().Error("fog_result_persist_error", zap.String("game_id", g.ID), zap.String("outcome", g.Outcome), zap.Error(err))
			continue
		}
		obslog.L().Info("fog_result_persist", zap.String("game_id", g.ID), zap.String("outcome", g.Outcome), zap.String("method", g.Method))
	}
}

// Persistence

func loadTx(ctx context.Context, tx *redis.Tx, key string) (*Game, error) {
	raw, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	return &g, nil
}

func (m *Manager) write(ctx context.Context, tx *redis.Tx, g *Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(g.ID), raw, m.ttl)
		return nil
	})
	return err
}

func (m *Manager) save(ctx context.Context, g *Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, gameKey(g.ID), raw, m.ttl).Err()
}

func (m *Manager) get(ctx context.Context, id string) (*Game, error) {
	raw, err := m.rdb.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *Manager) indexParticipants(ctx context.Context, id string, users ...string) error {
	pipe := m.rdb.TxPipeline()
	for _, u := range users {
		if strings.TrimSpace(u) == "" {
			continue
		}
		key := idxUserKey(u)
		pipe.SAdd(ctx, key, id)
		// index lives as long as the newest game
		pipe.Expire(ctx, key, m.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func gameKey(id string) string        { return "fog:game:" + strings.TrimSpace(id) }
func idxUserKey(userID string) string { return "fog:index:user:" + strings.TrimSpace(userID) }
