package main

import (
	"context"
	"os"
	"time"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/irisfast"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/obslog"
	"go.uber.org/zap"
)

// irischeck checks the Iris HTTP and websocket endpoints with the bot's credentials.
func main() {
	logger, err := obslog.New(obslog.Options{Console: true, Format: "console", Level: zap.DebugLevel}, os.Stdout)
	if err != nil {
		panic(err)
	}
	obslog.Set(logger)
	log := obslog.L()
	defer func() { _ = log.Sync() }()

	baseURL := os.Getenv("IRIS_BASE_URL")
	wsURL := os.Getenv("IRIS_WS_URL")
	if baseURL == "" {
		log.Fatal("IRIS_BASE_URL is required")
	}
	headers := irisfast.StaticHeaders(os.Getenv("X_USER_ID"), os.Getenv("X_USER_EMAIL"), os.Getenv("X_SESSION_ID"))

	client := irisfast.NewClient(baseURL,
		irisfast.WithHeaderProvider(headers),
		irisfast.WithTimeout(8*time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cfg, err := client.GetConfig(ctx)
	if err != nil {
		log.Warn("config_check_failed", zap.Error(err))
	} else {
		log.Info("config_ok", zap.Int("port", cfg.Port), zap.Int("polling", cfg.PollingSpeed), zap.Int("rate", cfg.MessageRate), zap.String("endpoint", cfg.WebserverEndpoint))
	}

	if wsURL == "" {
		log.Info("ws_check_skipped", zap.String("reason", "IRIS_WS_URL not set"))
		return
	}

	ws := irisfast.NewWebSocket(wsURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		log.Info("ws_state", zap.String("state", state.String()))
	})
	ws.OnMessage(func(msg *irisfast.Message) {
		log.Info("ws_message", zap.String("room", msg.Room), zap.String("from", msg.SenderName()), zap.String("text", msg.Msg))
	})

	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ccancel()
	if err := ws.Connect(cctx); err != nil {
		log.Warn("ws_connect_error", zap.Error(err))
		return
	}

	// observe for a short window
	<-time.After(10 * time.Second)
	_ = ws.Close(context.Background())
}
