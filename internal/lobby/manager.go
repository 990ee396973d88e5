package lobby

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/foggame"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/obslog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Manager hands out lobby codes so two players in different rooms can start a game, each
// receiving only their own board in their own room.
type Manager struct {
	rdb   *redis.Client
	store *Store
	games *foggame.Manager
}

func NewManager(rdb *redis.Client, games *foggame.Manager, ttl time.Duration) *Manager {
	return &Manager{rdb: rdb, store: NewStore(rdb, ttl), games: games}
}

// Make opens a public channel listed by ListLobby.
func (m *Manager) Make(ctx context.Context, room, userID, userName string, color foggame.ColorChoice) (*MakeResult, error) {
	return m.open(ctx, room, userID, userName, "", color)
}

// Challenge opens an unlisted channel only targetID may join, via Accept from a room of their own.
func (m *Manager) Challenge(ctx context.Context, room, userID, userName, targetID string, color foggame.ColorChoice) (*MakeResult, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, ErrInvalidArgs
	}
	if targetID == strings.TrimSpace(userID) {
		return nil, foggame.ErrInvalidPlayers
	}
	return m.open(ctx, room, userID, userName, targetID, color)
}

// Accept joins the most recent challenge addressed to userID.
func (m *Manager) Accept(ctx context.Context, room, userID, userName string) (*JoinResult, error) {
	code, err := m.store.InviteFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, ErrNoInvite
	}
	return m.Join(ctx, room, code, userID, userName)
}

func (m *Manager) open(ctx context.Context, room, userID, userName, targetID string, color foggame.ColorChoice) (*MakeResult, error) {
	room, userID = strings.TrimSpace(room), strings.TrimSpace(userID)
	if room == "" || userID == "" {
		return nil, ErrInvalidArgs
	}
	if g, _ := m.games.GetActiveGameByUserInRoom(ctx, userID, room); g != nil {
		return nil, ErrPlayerBusy
	}
	if code, err := m.store.OpenCodeByCreator(ctx, userID); err != nil {
		return nil, err
	} else if code != "" {
		if meta, _ := m.store.LoadMeta(ctx, code); meta != nil && meta.State == StateLobby {
			return nil, ErrCreatorHasLobby
		}
	}

	for i := 0; i < 5; i++ {
		code, err := codeGen()
		if err != nil {
			return nil, err
		}
		ok, err := m.store.Reserve(ctx, code)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		meta := &ChannelMeta{
			ID:          code,
			State:       StateLobby,
			CreatedAt:   time.Now(),
			Color:       color,
			CreatorID:   userID,
			CreatorName: strings.TrimSpace(userName),
			CreatorRoom: room,
			TargetID:    targetID,
		}
		if err := m.store.SaveMeta(ctx, meta); err != nil {
			return nil, err
		}
		if err := m.store.Open(ctx, meta); err != nil {
			return nil, err
		}
		obslog.L().Info("lobby_make", zap.String("code", code), zap.String("room", room), zap.String("creator_id", userID), zap.String("target_id", targetID), zap.String("color", string(color)))
		return &MakeResult{Code: code, Meta: meta}, nil
	}
	return nil, fmt.Errorf("failed to allocate lobby code")
}

// Join seats the second player and starts the game. The creator's color choice is honoured.
func (m *Manager) Join(ctx context.Context, room, code, userID, userName string) (*JoinResult, error) {
	room, code, userID = strings.TrimSpace(room), strings.ToUpper(strings.TrimSpace(code)), strings.TrimSpace(userID)
	if room == "" || code == "" || userID == "" {
		return nil, ErrInvalidArgs
	}
	meta, err := m.store.LoadMeta(ctx, code)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, ErrChannelGone
	}
	if meta.State != StateLobby {
		return nil, ErrFull
	}
	if meta.CreatorID == userID {
		return nil, ErrOwnLobby
	}
	if meta.TargetID != "" && meta.TargetID != userID {
		return nil, ErrNotInvited
	}
	if meta.CreatorRoom == room {
		return nil, foggame.ErrSharedRoom
	}
	if g, _ := m.games.GetActiveGameByUserInRoom(ctx, userID, room); g != nil {
		return nil, ErrPlayerBusy
	}

	partKey := m.store.keyParticipants(code)
	err = m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cnt, err := tx.SCard(ctx, partKey).Result()
		if err != nil {
			return err
		}
		if cnt >= 2 {
			return ErrFull
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SAdd(ctx, partKey, userID)
			pipe.SAdd(ctx, m.store.keyRooms(code), room)
			return nil
		})
		return err
	}, partKey)
	if errors.Is(err, redis.TxFailedErr) {
		err = ErrFull
	}
	if err != nil {
		obslog.L().Warn("lobby_join_error", zap.String("code", code), zap.String("room", room), zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	g, err := m.games.CreateGame(ctx, foggame.NewGameRequest{
		ChallengerID:   meta.CreatorID,
		ChallengerName: meta.CreatorName,
		ChallengerRoom: meta.CreatorRoom,
		OpponentID:     userID,
		OpponentName:   strings.TrimSpace(userName),
		OpponentRoom:   room,
		Color:          meta.Color,
	})
	if err != nil {
		// give the seat back so someone else can join
		_ = m.rdb.SRem(ctx, partKey, userID).Err()
		if errors.Is(err, foggame.ErrPlayerBusy) {
			return nil, ErrPlayerBusy
		}
		return nil, err
	}

	meta.State = StateActive
	meta.GameID = g.ID
	if err := m.store.SaveMeta(ctx, meta); err != nil {
		return nil, err
	}
	if err := m.store.Close(ctx, meta); err != nil {
		return nil, err
	}
	obslog.L().Info("lobby_start_game", zap.String("code", code), zap.String("game_id", g.ID), zap.String("white_id", g.WhiteID), zap.String("black_id", g.BlackID))
	return &JoinResult{Game: g, Meta: meta}, nil
}

// ListLobby returns the channels still waiting for a second player.
func (m *Manager) ListLobby(ctx context.Context) ([]*ChannelMeta, error) {
	return m.store.ListOpen(ctx)
}
