package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brawl345/invitebot/bot"
	"github.com/Brawl345/invitebot/config"
	"github.com/Brawl345/invitebot/logger"
	"github.com/Brawl345/invitebot/model/sql"
	"github.com/Brawl345/invitebot/plugin/about"
	"github.com/Brawl345/invitebot/plugin/allow"
	"github.com/Brawl345/invitebot/plugin/links"
	"github.com/Brawl345/invitebot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	_ "github.com/joho/godotenv/autoload"
)

var log = logger.New("main")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Checked before anything touches the database or Telegram
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.SetDebug(cfg.Debug)

	versionInfo, err := utils.ReadVersionInfo()
	if err == nil {
		log.Info().Msgf("invitebot-%s, %v", versionInfo.Revision, versionInfo.LastCommit)
	}

	db, err := sql.New(ctx, sql.Options{
		Driver:         cfg.DB.Driver,
		DSN:            cfg.DB.DSN,
		SkipMigrations: cfg.IgnoreMigration,
	})
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer db.Close()

	log.Info().Str("driver", cfg.DB.Driver).Msg("Database connection established")

	retryOpts := bot.RetryOpts{
		Attempts: cfg.Store.RetryAttempts,
		Delay:    cfg.Store.RetryDelay,
	}
	userService := bot.NewRetryingUserService(sql.NewAuthorizedUserService(db), retryOpts)
	linkService := bot.NewRetryingLinkService(sql.NewInviteLinkService(db), retryOpts)

	if err := bot.Bootstrap(ctx, userService, cfg.AdminIDs); err != nil {
		log.Fatal().Err(err).Send()
	}

	dispatcher, err := bot.NewDispatcher(
		bot.NewRoles(cfg.AdminIDs, userService),
		cfg.CommandTimeout,
		about.New(),
		allow.New(userService),
		links.New(linkService),
	)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	for i, plg := range dispatcher.Plugins() {
		log.Info().Msgf("Registered plugin (%d/%d): %s", i+1, len(dispatcher.Plugins()), plg.Name())
	}

	b, err := gotgbot.NewBot(cfg.BotToken, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	_, err = b.SetMyCommands(dispatcher.Commands(), nil)
	if err != nil {
		log.Err(err).Msg("Failed to set bot commands")
	}

	d := ext.NewDispatcher(&ext.DispatcherOpts{
		Processor:   bot.NewProcessor(ctx, dispatcher, cfg.PrintMsgs),
		Error:       bot.OnError,
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(d, nil)

	err = updater.StartPolling(b, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: 10 * time.Second,
			},
			AllowedUpdates: []string{"message"},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start polling")
	}

	log.Info().Msgf("Logged in as @%s (%d)", b.Username, b.Id)

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	if err := updater.Stop(); err != nil {
		log.Err(err).Msg("Failed to stop updater")
	}
}
