package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discord-gban/internal/bot"
	"discord-gban/internal/config"
	"discord-gban/internal/crash"
	"discord-gban/internal/handler"
	"discord-gban/internal/logger"
	"discord-gban/internal/notify"
	"discord-gban/internal/service"
	"discord-gban/internal/storage"
)

func main() {
	crash.SetupCrashHandler()
	defer crash.RecoverWithStackAndExit("main")

	// Define command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging first
	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	if err := storage.Initialize(cfg); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer storage.Close()
	store := storage.NewStore(storage.GetDB())

	session, server, err := bot.Initialize(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize bot: %v", err)
	}

	coord := service.NewCoordinator(session, store, service.OptionsFromConfig(cfg))

	mirror, err := notify.NewTelegramMirror(cfg.Notify.Telegram)
	if err != nil {
		logger.Fatalf("Failed to initialize Telegram mirror: %v", err)
	}
	if mirror != nil {
		coord.SetMirror(mirror)
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = coord.Bootstrap(bootCtx)
	bootCancel()
	if err != nil {
		logger.Fatalf("Failed to load global bans: %v", err)
	}

	// Handlers go in before the gateway opens so no join is missed
	h := handler.New(coord, session.Discord, cfg.Bot.Prefix, cfg.GBan.ListTimeout)
	h.Register()

	if err := session.Start(); err != nil {
		logger.Fatalf("Failed to start bot: %v", err)
	}
	if err := handler.RegisterCommands(session.Discord); err != nil {
		logger.Errorf("Slash commands unavailable: %v", err)
	}

	stop := make(chan struct{})
	h.StartStatusMonitoring(stop)

	if server != nil {
		server.Handle(func() string {
			return h.GetDetailedStatus(len(session.Guilds()))
		})
		crash.SafeGoroutine("status server", func() {
			if err := server.Start(); err != nil {
				logger.Errorf("Status server error: %v", err)
			}
		})
	}

	logger.Infof("Global ban bot is running with prefix %q", cfg.Bot.Prefix)

	// Create a channel for receiving OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for signal
	sig := <-sigChan
	logger.Infof("Received signal: %v, shutting down...", sig)

	close(stop)
	h.Close()
	if err := session.Stop(); err != nil {
		logger.Warningf("Discord session close error: %v", err)
	}

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warningf("Status server shutdown error: %v", err)
		}
	}

	logger.Info("Bot gracefully stopped")
}
