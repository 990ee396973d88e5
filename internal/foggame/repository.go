package foggame

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Schema creates the archive table. EnsureSchema runs it on startup.
const Schema = `CREATE TABLE IF NOT EXISTS fog_games (
  game_id         TEXT PRIMARY KEY,
  white_id        TEXT NOT NULL,
  white_name      TEXT NOT NULL,
  black_id        TEXT NOT NULL,
  black_name      TEXT NOT NULL,
  white_room      TEXT NOT NULL,
  black_room      TEXT NOT NULL,
  result          TEXT NOT NULL,
  result_method   TEXT NOT NULL,
  moves           JSONB NOT NULL,
  move_log        TEXT NOT NULL,
  final_placement TEXT NOT NULL,
  started_at      TIMESTAMPTZ NOT NULL,
  ended_at        TIMESTAMPTZ NOT NULL,
  duration_ms     BIGINT NOT NULL
)`

// Repository archives finished games in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

const upsertResult = `INSERT INTO fog_games (
    game_id, white_id, white_name, black_id, black_name,
    white_room, black_room, result, result_method,
    moves, move_log, final_placement,
    started_at, ended_at, duration_ms
  ) VALUES (
    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
  ) ON CONFLICT (game_id) DO UPDATE SET
    result=EXCLUDED.result,
    result_method=EXCLUDED.result_method,
    moves=EXCLUDED.moves,
    move_log=EXCLUDED.move_log,
    final_placement=EXCLUDED.final_placement,
    ended_at=EXCLUDED.ended_at,
    duration_ms=EXCLUDED.duration_ms`

// SaveResult upserts a finished game. Active games are ignored.
func (r *Repository) SaveResult(ctx context.Context, g *Game) error {
	if r == nil || r.db == nil || g == nil || g.Active() {
		return nil
	}
	moves, err := json.Marshal(g.Moves)
	if err != nil {
		return err
	}
	duration := max(g.UpdatedAt.Sub(g.CreatedAt).Milliseconds(), 0)
	_, err = r.db.ExecContext(ctx, upsertResult,
		g.ID,
		g.WhiteID, g.WhiteName,
		g.BlackID, g.BlackName,
		g.WhiteRoom, g.BlackRoom,
		g.Outcome, g.Method,
		string(moves), buildMoveLog(g), g.Placement,
		g.CreatedAt, g.UpdatedAt, duration,
	)
	if err != nil {
		return fmt.Errorf("upsert fog_games %s: %w", g.ID, err)
	}
	return nil
}

// buildMoveLog renders a PGN-like record. Coordinates are used instead of SAN since check and
// castling do not exist in this variant.
func buildMoveLog(g *Game) string {
	var b strings.Builder
	date := g.UpdatedAt
	if date.IsZero() {
		date = time.Now()
	}
	fmt.Fprintf(&b, "[Event \"Fog of War\"]\n")
	fmt.Fprintf(&b, "[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day())
	fmt.Fprintf(&b, "[White \"%s\"]\n", sanitizeTag(g.WhiteName))
	fmt.Fprintf(&b, "[Black \"%s\"]\n", sanitizeTag(g.BlackName))
	if g.Method != "" {
		fmt.Fprintf(&b, "[Termination \"%s\"]\n", g.Method)
	}
	result := resultToken(g.Outcome)
	fmt.Fprintf(&b, "[Result \"%s\"]\n\n", result)
	for i := 0; i < len(g.Moves); i += 2 {
		fmt.Fprintf(&b, "%d. %s ", i/2+1, g.Moves[i])
		if i+1 < len(g.Moves) {
			fmt.Fprintf(&b, "%s ", g.Moves[i+1])
		}
	}
	b.WriteString(result)
	return b.String()
}

func resultToken(outcome string) string {
	switch Color(outcome) {
	case White:
		return "1-0"
	case Black:
		return "0-1"
	}
	return "*"
}

func sanitizeTag(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
