package foggame

import (
	"strings"
	"time"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/fogchess"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/pkg/fogdto"
)

// Color identifies a side in the stored record.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func colorOf(c fogchess.Color) Color {
	if c == fogchess.Black {
		return Black
	}
	return White
}

// Status represents a game lifecycle state.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
	StatusResigned Status = "RESIGNED"
)

// Termination methods recorded on finished games.
const (
	MethodKingCapture = "king_capture"
	MethodResignation = "resignation"
)

// ColorChoice is a textual color preference for challenges and lobbies.
type ColorChoice string

const (
	ColorWhite  ColorChoice = "white"
	ColorBlack  ColorChoice = "black"
	ColorRandom ColorChoice = "random"
)

func ParseColorChoice(s string) ColorChoice {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w", "백":
		return ColorWhite
	case "black", "b", "흑":
		return ColorBlack
	default:
		return ColorRandom
	}
}

// Game is the persisted state of a match. Only the move list is authoritative; Placement is
// kept for archive and debugging and is never read back into the rules.
type Game struct {
	ID        string    `json:"id"`
	Moves     []string  `json:"moves"`
	Placement string    `json:"placement"`
	Turn      Color     `json:"turn"`
	Status    Status    `json:"status"`
	WhiteID   string    `json:"white_id"`
	WhiteName string    `json:"white_name"`
	BlackID   string    `json:"black_id"`
	BlackName string    `json:"black_name"`
	WhiteRoom string    `json:"white_room"`
	BlackRoom string    `json:"black_room"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Winner    string    `json:"winner,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Method    string    `json:"method,omitempty"`
}

// PlayerColor returns the side userID plays.
func (g *Game) PlayerColor(userID string) (Color, bool) {
	switch strings.TrimSpace(userID) {
	case "":
		return "", false
	case g.WhiteID:
		return White, true
	case g.BlackID:
		return Black, true
	}
	return "", false
}

// PlayerName returns the display name for a side.
func (g *Game) PlayerName(c Color) string {
	if c == Black {
		return g.BlackName
	}
	return g.WhiteName
}

func (g *Game) playerRoom(c Color) string {
	if c == Black {
		return g.BlackRoom
	}
	return g.WhiteRoom
}

// RoomOf returns the room userID plays from, or "" when userID is not seated.
func (g *Game) RoomOf(userID string) string {
	side, ok := g.PlayerColor(userID)
	if !ok {
		return ""
	}
	return g.playerRoom(side)
}

func (g *Game) Active() bool { return g.Status == StatusActive }

// LastMove returns the most recent move in coordinate form.
func (g *Game) LastMove() string {
	if n := len(g.Moves); n > 0 {
		return g.Moves[n-1]
	}
	return ""
}

// NewGameRequest describes the two players of a new game. Rooms follow the players: each
// player's board is delivered to their own room, so the two rooms must differ.
type NewGameRequest struct {
	ChallengerID   string
	ChallengerName string
	ChallengerRoom string
	OpponentID     string
	OpponentName   string
	OpponentRoom   string
	Color          ColorChoice
}

// Delivery is one board message: which perspective goes to which room.
type Delivery struct {
	Room        string
	Perspective fogchess.Perspective
}

var (
	ErrNotYourTurn      error = fogdto.DomainError{Code: "not_your_turn", Message: "not your turn"}
	ErrIllegalMove      error = fogdto.DomainError{Code: "illegal_move", Message: "illegal move"}
	ErrInvalidMove      error = fogdto.DomainError{Code: "invalid_move", Message: "move must look like e2e4"}
	ErrGameNotFound     error = fogdto.DomainError{Code: "game_not_found", Message: "no active game"}
	ErrNotParticipant   error = fogdto.DomainError{Code: "not_participant", Message: "user is not playing this game"}
	ErrConcurrentUpdate error = fogdto.DomainError{Code: "concurrent_update", Message: "game changed concurrently", Retryable: true}
	ErrPlayerBusy       error = fogdto.DomainError{Code: "player_busy", Message: "player has an active game in this room"}
	ErrInvalidPlayers   error = fogdto.DomainError{Code: "invalid_players", Message: "two distinct players are required"}
	ErrSharedRoom       error = fogdto.DomainError{Code: "shared_room", Message: "players must play from different rooms"}
)
