package lobby

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/foggame"
	"github.com/redis/go-redis/v9"
)

func newTestManagers(t *testing.T) (*Manager, *foggame.Manager) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	games := foggame.NewManagerWithClient(rdb, time.Hour)
	return NewManager(rdb, games, time.Hour), games
}

func TestMakeJoinStartsGameAcrossRooms(t *testing.T) {
	m, games := newTestManagers(t)
	ctx := context.Background()

	mk, err := m.Make(ctx, "roomA", "u1", "Alice", foggame.ColorBlack)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if !strings.HasPrefix(mk.Code, "CH-") || len(mk.Code) != 9 {
		t.Fatalf("unexpected code %q", mk.Code)
	}
	list, err := m.ListLobby(ctx)
	if err != nil || len(list) != 1 || list[0].CreatorName != "Alice" {
		t.Fatalf("ListLobby: %+v %v", list, err)
	}

	jr, err := m.Join(ctx, "roomB", strings.ToLower(mk.Code), "u2", "Bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	g := jr.Game
	if g.BlackID != "u1" || g.BlackRoom != "roomA" || g.WhiteID != "u2" || g.WhiteRoom != "roomB" {
		t.Fatalf("creator asked for black in roomA: %+v", g)
	}
	if jr.Meta.State != StateActive || jr.Meta.GameID != g.ID {
		t.Fatalf("meta not updated: %+v", jr.Meta)
	}
	if active, err := games.GetActiveGameByUserInRoom(ctx, "u1", "roomA"); err != nil || active == nil || active.ID != g.ID {
		t.Fatalf("creator's game not found in creator room: %v", err)
	}
	rooms, err := m.store.rooms(ctx, mk.Code)
	if err != nil || len(rooms) != 2 {
		t.Fatalf("Rooms: %v %v", rooms, err)
	}
	if list, _ := m.ListLobby(ctx); len(list) != 0 {
		t.Fatalf("started channel must leave the lobby list")
	}
}

func TestThirdJoinRejected(t *testing.T) {
	m, _ := newTestManagers(t)
	ctx := context.Background()
	mk, err := m.Make(ctx, "roomA", "u1", "u1", foggame.ColorRandom)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if _, err := m.Join(ctx, "roomB", mk.Code, "u2", "u2"); err != nil {
		t.Fatalf("Join#1: %v", err)
	}
	if _, err := m.Join(ctx, "roomC", mk.Code, "u3", "u3"); !errors.Is(err, ErrFull) {
		t.Fatalf("third join err = %v", err)
	}
}

func TestJoinErrors(t *testing.T) {
	m, _ := newTestManagers(t)
	ctx := context.Background()
	if _, err := m.Join(ctx, "roomB", "CH-NOPE00", "u2", "u2"); !errors.Is(err, ErrChannelGone) {
		t.Fatalf("unknown code err = %v", err)
	}
	mk, err := m.Make(ctx, "roomA", "u1", "u1", foggame.ColorRandom)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if _, err := m.Join(ctx, "roomZ", mk.Code, "u1", "u1"); !errors.Is(err, ErrOwnLobby) {
		t.Fatalf("own lobby err = %v", err)
	}
	if _, err := m.Join(ctx, "", mk.Code, "u2", "u2"); !errors.Is(err, ErrInvalidArgs) {
		t.Fatalf("empty room err = %v", err)
	}
}

func TestMakeRestrictions(t *testing.T) {
	m, games := newTestManagers(t)
	ctx := context.Background()

	if _, err := m.Make(ctx, "roomA", "u1", "u1", foggame.ColorRandom); err != nil {
		t.Fatalf("first Make: %v", err)
	}
	if _, err := m.Make(ctx, "roomB", "u1", "u1", foggame.ColorRandom); !errors.Is(err, ErrCreatorHasLobby) {
		t.Fatalf("duplicate lobby err = %v", err)
	}

	if _, err := games.CreateGame(ctx, foggame.NewGameRequest{ChallengerID: "x1", ChallengerRoom: "roomX", OpponentID: "u2", OpponentRoom: "roomB"}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := m.Make(ctx, "roomB", "u2", "u2", foggame.ColorRandom); !errors.Is(err, ErrPlayerBusy) {
		t.Fatalf("busy make err = %v", err)
	}
}

func TestJoinBlockedIfUserActiveInSameRoom(t *testing.T) {
	m, games := newTestManagers(t)
	ctx := context.Background()
	if _, err := games.CreateGame(ctx, foggame.NewGameRequest{ChallengerID: "x1", ChallengerRoom: "roomX", OpponentID: "u2", OpponentRoom: "roomB"}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	mk, err := m.Make(ctx, "roomA", "u1", "u1", foggame.ColorRandom)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if _, err := m.Join(ctx, "roomB", mk.Code, "u2", "u2"); !errors.Is(err, ErrPlayerBusy) {
		t.Fatalf("busy join err = %v", err)
	}
	// the seat is still free for someone else
	if _, err := m.Join(ctx, "roomC", mk.Code, "u3", "u3"); err != nil {
		t.Fatalf("Join after busy rejection: %v", err)
	}
}

func TestChallengeAcceptedFromOwnRoom(t *testing.T) {
	m, _ := newTestManagers(t)
	ctx := context.Background()

	ch, err := m.Challenge(ctx, "R", "u1", "Alice", "u2", foggame.ColorWhite)
	if err != nil {
		t.Fatalf("Challenge: %v", err)
	}
	if list, _ := m.ListLobby(ctx); len(list) != 0 {
		t.Fatalf("challenges must not be listed: %+v", list)
	}
	if _, err := m.Join(ctx, "roomC", ch.Code, "u3", "Carol"); !errors.Is(err, ErrNotInvited) {
		t.Fatalf("stranger join err = %v", err)
	}
	if _, err := m.Accept(ctx, "R", "u2", "Bob"); !errors.Is(err, foggame.ErrSharedRoom) {
		t.Fatalf("accept from the challenger's room err = %v", err)
	}
	jr, err := m.Accept(ctx, "dm-bob", "u2", "Bob")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if g := jr.Game; g.WhiteID != "u1" || g.WhiteRoom != "R" || g.BlackID != "u2" || g.BlackRoom != "dm-bob" {
		t.Fatalf("unexpected seats: %+v", g)
	}
	if _, err := m.Accept(ctx, "dm-bob", "u2", "Bob"); !errors.Is(err, ErrNoInvite) {
		t.Fatalf("second accept err = %v", err)
	}
}

func TestChallengeRejectsSelf(t *testing.T) {
	m, _ := newTestManagers(t)
	if _, err := m.Challenge(context.Background(), "R", "u1", "Alice", "u1", foggame.ColorRandom); !errors.Is(err, foggame.ErrInvalidPlayers) {
		t.Fatalf("self challenge err = %v", err)
	}
}
