package lobby

import (
	"time"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/foggame"
)

// State is the lifecycle of a lobby channel.
type State string

const (
	StateLobby  State = "LOBBY"
	StateActive State = "ACTIVE"
)

// ChannelMeta is stored as JSON under lobby:<code>.
type ChannelMeta struct {
	ID        string              `json:"id"`
	State     State               `json:"state"`
	CreatedAt time.Time           `json:"created_at"`
	Color     foggame.ColorChoice `json:"color"`

	CreatorID   string `json:"creator_id"`
	CreatorName string `json:"creator_name"`
	CreatorRoom string `json:"creator_room"`
	// TargetID restricts a challenge channel to one joiner; empty for public lobbies.
	TargetID string `json:"target_id,omitempty"`

	GameID string `json:"game_id,omitempty"`
}

type MakeResult struct {
	Code string
	Meta *ChannelMeta
}

type JoinResult struct {
	Game *foggame.Game
	Meta *ChannelMeta
}

var (
	ErrInvalidArgs     = errf("invalid arguments")
	ErrChannelGone     = errf("channel not found or expired")
	ErrFull            = errf("channel already has two participants")
	ErrPlayerBusy      = errf("player has active game in this room")
	ErrCreatorHasLobby = errf("user already has a lobby")
	ErrOwnLobby        = errf("cannot join own lobby")
	ErrNotInvited      = errf("channel is reserved for another player")
	ErrNoInvite        = errf("no pending challenge")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
