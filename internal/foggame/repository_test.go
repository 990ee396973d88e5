package foggame

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildMoveLog(t *testing.T) {
	g := &Game{
		WhiteName: `Al "the" ice`,
		BlackName: "Bob",
		Moves:     []string{"e2e4", "e7e5", "d1h5"},
		Outcome:   "white",
		Method:    MethodResignation,
		UpdatedAt: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	}
	log := buildMoveLog(g)
	for _, want := range []string{
		`[Date "2026.03.04"]`,
		`[White "Al 'the' ice"]`,
		`[Termination "resignation"]`,
		`[Result "1-0"]`,
		"1. e2e4 e7e5 2. d1h5 1-0",
	} {
		if !strings.Contains(log, want) {
			t.Fatalf("move log missing %q:\n%s", want, log)
		}
	}
	if resultToken("") != "*" || resultToken("black") != "0-1" {
		t.Fatalf("unexpected result tokens")
	}
}

func TestSaveResultSkipsWithoutDatabase(t *testing.T) {
	var r *Repository
	if err := r.SaveResult(context.Background(), &Game{Status: StatusFinished}); err != nil {
		t.Fatalf("nil repository must be a no-op: %v", err)
	}
}
