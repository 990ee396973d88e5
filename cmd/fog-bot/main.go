package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/bot"
	appcfg "github.com/park285/Fog-Chess-KakaoTalk-bot/internal/config"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/foggame"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/fogpresenter"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/irisfast"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/lobby"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/obslog"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/stats"
	"go.uber.org/zap"
)

// commandTimeout bounds one chat command including rendering and delivery.
const commandTimeout = 30 * time.Second

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		// keep going with a console logger
		l, _ := zap.NewProduction()
		obslog.Set(l)
		obslog.L().Warn("log_init_error", zap.Error(err))
	}
	log := obslog.L()
	defer func() { _ = log.Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatal("config_error", zap.Error(err))
	}

	headers := irisfast.StaticHeaders(cfg.XUserID, cfg.XUserEmail, cfg.XSessionID)
	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers))
	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		log.Info("ws_state", zap.String("state", state.String()))
	})
	egress := irisfast.NewEgress(cfg.EgressMode, cfg.EgressDryRun, client, ws, log)

	games, err := foggame.NewManager(cfg.RedisURL, cfg.GameTTL)
	if err != nil {
		log.Fatal("fog_manager_init_error", zap.Error(err))
	}
	defer func() { _ = games.Close() }()

	var repo *foggame.Repository
	if cfg.DatabaseURL != "" {
		repo, err = foggame.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("fog_repo_init_error", zap.Error(err))
		}
		defer func() { _ = repo.Close() }()
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = repo.EnsureSchema(sctx)
		scancel()
		if err != nil {
			log.Fatal("fog_repo_schema_error", zap.Error(err))
		}
		games.AttachRecorder(repo)
	} else {
		log.Info("fog_repo_disabled", zap.String("reason", "DATABASE_URL not set"))
	}

	statStore, err := stats.Open(cfg.StatsDir)
	if err != nil {
		log.Fatal("stats_init_error", zap.Error(err))
	}
	defer func() { _ = statStore.Close() }()
	games.AttachRecorder(statStore)

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatal("messages_init_error", zap.Error(err))
	}

	handler := bot.NewHandler(bot.Deps{
		Prefix:    cfg.BotPrefix,
		Games:     games,
		Lobby:     lobby.NewManager(games.Client(), games, cfg.GameTTL),
		Stats:     statStore,
		Formatter: fogpresenter.NewFormatter(cat, cfg.BotPrefix),
		Presenter: fogpresenter.NewPresenter(egress),
		Logger:    log,
	})

	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || msg.Msg == "" {
			return
		}
		if !cfg.RoomAllowed(msg.Room) {
			log.Debug("ignore_room", zap.String("room", msg.Room))
			return
		}
		// avoid blocking the read loop
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()
			handler.Handle(ctx, msg)
		}()
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatal("ws_connect_error", zap.Error(err))
	}
	cancel()
	log.Info("fog_bot_started", zap.String("prefix", cfg.BotPrefix), zap.String("egress", cfg.EgressMode), zap.Strings("allowed_rooms", cfg.AllowedRooms))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("fog_bot_stopping")
	_ = ws.Close(context.Background())
}
