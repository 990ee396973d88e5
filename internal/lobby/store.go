package lobby

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) keyMeta(code string) string         { return "lobby:" + strings.TrimSpace(code) }
func (s *Store) keyRooms(code string) string        { return s.keyMeta(code) + ":rooms" }
func (s *Store) keyParticipants(code string) string { return s.keyMeta(code) + ":participants" }
func (s *Store) keyCreator(user string) string      { return "lobby:creator:" + strings.TrimSpace(user) }
func (s *Store) keyOpen() string                    { return "lobby:open" }
func (s *Store) keyTarget(user string) string       { return "lobby:target:" + strings.TrimSpace(user) }

// Reserve claims code if unused.
func (s *Store) Reserve(ctx context.Context, code string) (bool, error) {
	return s.rdb.SetNX(ctx, s.keyMeta(code), "{}", s.ttl).Result()
}

func (s *Store) SaveMeta(ctx context.Context, meta *ChannelMeta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.keyMeta(meta.ID), raw, s.ttl).Err()
}

func (s *Store) LoadMeta(ctx context.Context, code string) (*ChannelMeta, error) {
	raw, err := s.rdb.Get(ctx, s.keyMeta(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m ChannelMeta
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m.ID == "" {
		// reserved but not yet written
		return nil, nil
	}
	return &m, nil
}

// Open records the creator as first participant. Public channels are listed; challenges are
// indexed under their target instead.
func (s *Store) Open(ctx context.Context, meta *ChannelMeta) error {
	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, s.keyRooms(meta.ID), meta.CreatorRoom)
	pipe.Expire(ctx, s.keyRooms(meta.ID), s.ttl)
	pipe.SAdd(ctx, s.keyParticipants(meta.ID), meta.CreatorID)
	pipe.Expire(ctx, s.keyParticipants(meta.ID), s.ttl)
	pipe.Set(ctx, s.keyCreator(meta.CreatorID), meta.ID, s.ttl)
	if meta.TargetID != "" {
		pipe.Set(ctx, s.keyTarget(meta.TargetID), meta.ID, s.ttl)
	} else {
		pipe.SAdd(ctx, s.keyOpen(), meta.ID)
		pipe.Expire(ctx, s.keyOpen(), s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Close delists a started channel and frees its creator and target.
func (s *Store) Close(ctx context.Context, meta *ChannelMeta) error {
	pipe := s.rdb.TxPipeline()
	pipe.SRem(ctx, s.keyOpen(), meta.ID)
	pipe.Del(ctx, s.keyCreator(meta.CreatorID))
	if meta.TargetID != "" {
		pipe.Del(ctx, s.keyTarget(meta.TargetID))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// InviteFor returns the pending challenge code addressed to userID, if any.
func (s *Store) InviteFor(ctx context.Context, userID string) (string, error) {
	code, err := s.rdb.Get(ctx, s.keyTarget(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

// OpenCodeByCreator returns the creator's waiting channel, if any.
func (s *Store) OpenCodeByCreator(ctx context.Context, userID string) (string, error) {
	code, err := s.rdb.Get(ctx, s.keyCreator(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

func (s *Store) rooms(ctx context.Context, code string) ([]string, error) {
	return s.rdb.SMembers(ctx, s.keyRooms(code)).Result()
}

func (s *Store) ListOpen(ctx context.Context) ([]*ChannelMeta, error) {
	codes, err := s.rdb.SMembers(ctx, s.keyOpen()).Result()
	if err != nil {
		return nil, err
	}
	var out []*ChannelMeta
	for _, c := range codes {
		m, _ := s.LoadMeta(ctx, c)
		if m == nil || m.State != StateLobby {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// codeGen returns "CH-" followed by six upper-case alphanumerics.
func codeGen() (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}
	return "CH-" + string(b), nil
}
