package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("IRIS_BASE_URL", "http://iris.local")
	t.Setenv("IRIS_WS_URL", "ws://iris.local/ws")
	t.Setenv("BOT_PREFIX", "!")
	t.Setenv("REDIS_URL", "redis://127.0.0.1:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("EGRESS_MODE", "")
	t.Setenv("FOG_GAME_TTL", "")
	t.Setenv("ALLOWED_ROOMS", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EgressMode != "http" || cfg.GameTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: mode=%q ttl=%v", cfg.EgressMode, cfg.GameTTL)
	}
	if !cfg.RoomAllowed("anything") {
		t.Fatalf("empty allow list must allow every room")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ROOMS", " roomA, ,roomB ")
	t.Setenv("EGRESS_MODE", "AUTO")
	t.Setenv("EGRESS_DRYRUN", "true")
	t.Setenv("FOG_GAME_TTL", "90m")
	t.Setenv("STATS_DIR", " /var/lib/fog-stats ")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.AllowedRooms) != 2 || !cfg.RoomAllowed("roomB") || cfg.RoomAllowed("roomC") {
		t.Fatalf("allowed rooms = %v", cfg.AllowedRooms)
	}
	if cfg.EgressMode != "auto" || !cfg.EgressDryRun {
		t.Fatalf("egress = %q dryrun=%v", cfg.EgressMode, cfg.EgressDryRun)
	}
	if cfg.StatsDir != "/var/lib/fog-stats" {
		t.Fatalf("stats dir = %q", cfg.StatsDir)
	}
	if cfg.GameTTL != 90*time.Minute {
		t.Fatalf("ttl = %v", cfg.GameTTL)
	}

	t.Setenv("FOG_GAME_TTL", "600")
	cfg, err = Load()
	if err != nil || cfg.GameTTL != 10*time.Minute {
		t.Fatalf("seconds ttl = %v (%v)", cfg.GameTTL, err)
	}
}

func TestLoadRequiresRedis(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without REDIS_URL")
	}
}
