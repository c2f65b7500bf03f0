package cmd

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bnema/podwatch/internal/adapters/memory"
	"github.com/bnema/podwatch/internal/adapters/render/podtext"
	"github.com/bnema/podwatch/internal/adapters/runpod"
	"github.com/bnema/podwatch/internal/adapters/telegram"
	"github.com/bnema/podwatch/internal/application"
	"github.com/bnema/podwatch/internal/config"
	"github.com/bnema/podwatch/internal/ports"
)

type app struct {
	cfg     config.Config
	logger  *zap.Logger
	bot     *telegram.Bot
	monitor *application.Monitor
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot api: %w", err)
	}

	directory := runpod.NewClient(runpod.DefaultBaseURL, cfg.RunPodAPIKey, nil)
	sessions := memory.NewSessionStore()
	gate := application.NewAccessGate(cfg.AllowedChatIDs, cfg.AllowedUserIDs)
	wizard := application.NewWizard(directory, sessions, ports.SystemClock{}, logger, cfg.PreferredGPUs, cfg.SessionTTL)
	pods := application.NewPodService(directory)

	bot := telegram.New(api, gate, wizard, pods, logger, telegram.Options{
		CheckInterval: cfg.CheckInterval,
		WebhookURL:    cfg.WebhookURL,
		WebhookPort:   cfg.WebhookPort,
	})

	monitor := application.NewMonitor(directory, bot, logger, podtext.Alert, cfg.AlertChatID, cfg.CheckInterval)

	return &app{
		cfg:     cfg,
		logger:  logger,
		bot:     bot,
		monitor: monitor,
	}, nil
}

func (a *app) run(ctx context.Context) error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Info("podwatch starting",
		zap.Duration("check_interval", a.cfg.CheckInterval),
		zap.Duration("session_ttl", a.cfg.SessionTTL))

	if err := a.bot.Send(ctx, a.cfg.AlertChatID, "RunPod monitor started."); err != nil {
		a.logger.Warn("startup notice failed", zap.Error(err))
	}

	go a.monitor.Run(ctx)

	return a.bot.Run(ctx)
}
