// Package stats keeps per-player win/loss records in an embedded badger database.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/foggame"
)

// Record is a player's running tally.
type Record struct {
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	GamesPlayed   int       `json:"games_played"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	KingCaptures  int       `json:"king_captures"`
	Resignations  int       `json:"resignations"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	LastPlayed    time.Time `json:"last_played"`
}

type Store struct {
	db *badger.DB
}

// Open opens the store under dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if strings.TrimSpace(dir) == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func playerKey(userID string) []byte { return []byte("player:" + strings.TrimSpace(userID)) }
func gameKey(id string) []byte       { return []byte("game:" + strings.TrimSpace(id)) }

// SaveResult credits both players of a finished game. A game is counted once.
func (s *Store) SaveResult(_ context.Context, g *foggame.Game) error {
	if s == nil || g == nil || g.Active() {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(g.ID)); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		for _, side := range []foggame.Color{foggame.White, foggame.Black} {
			id := g.WhiteID
			if side == foggame.Black {
				id = g.BlackID
			}
			rec, err := load(txn, id)
			if err != nil {
				return err
			}
			rec.Name = g.PlayerName(side)
			apply(rec, string(side) == g.Outcome, g.Method, g.UpdatedAt)
			raw, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := txn.Set(playerKey(id), raw); err != nil {
				return err
			}
		}
		return txn.Set(gameKey(g.ID), []byte(g.Outcome))
	})
}

func apply(rec *Record, won bool, method string, at time.Time) {
	rec.GamesPlayed++
	rec.LastPlayed = at
	if !won {
		rec.Losses++
		rec.CurrentStreak = 0
		if method == foggame.MethodResignation {
			rec.Resignations++
		}
		return
	}
	rec.Wins++
	rec.CurrentStreak++
	rec.LongestStreak = max(rec.LongestStreak, rec.CurrentStreak)
	if method == foggame.MethodKingCapture {
		rec.KingCaptures++
	}
}

// Get returns the record for userID; unknown players get an empty record.
func (s *Store) Get(userID string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = load(txn, userID)
		return err
	})
	return rec, err
}

func load(txn *badger.Txn, userID string) (*Record, error) {
	rec := &Record{UserID: strings.TrimSpace(userID)}
	item, err := txn.Get(playerKey(userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return rec, nil
	}
	if err != nil {
		return nil, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("decode stats for %s: %w", userID, err)
	}
	return rec, nil
}
