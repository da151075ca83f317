package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/opora-ai/opora-bot/internal/config"
	"github.com/opora-ai/opora-bot/internal/handler"
	"github.com/opora-ai/opora-bot/internal/handler/telegram"
	"github.com/opora-ai/opora-bot/internal/service/ai"
	"github.com/opora-ai/opora-bot/internal/service/session"
	"github.com/opora-ai/opora-bot/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.L()
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatal("failed to create chat model", zap.Error(err))
	}

	completer, err := ai.NewService(ctx, chatModel, ai.Config{RequestTimeout: cfg.AI.RequestTimeout})
	if err != nil {
		log.Fatal("failed to initialize completion client", zap.Error(err))
	}

	store := session.NewStore(telegram.SystemPrompt, cfg.Session.HistoryLimit)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatal("failed to connect to telegram", zap.Error(err))
	}
	log.Info("authorized on telegram", zap.String("username", api.Self.UserName))

	bot := telegram.New(api, store, completer)

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = cfg.Telegram.PollTimeout
	updates := api.GetUpdatesChan(updateCfg)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	go bot.Run(ctx, updates)
	log.Info("bot started, long polling")

	startServer(ctx, cfg.Server, handler.NewRouter(store))
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logging.L().Info("ops server listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logging.L().Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
