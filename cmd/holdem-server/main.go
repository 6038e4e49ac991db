package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemrooms/internal/config"
	"github.com/lox/holdemrooms/internal/relay"
	"github.com/lox/holdemrooms/internal/room"
	"github.com/lox/holdemrooms/internal/server"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"holdem-server.hcl" help:"Path to HCL configuration file"`
	Port     int    `short:"p" long:"port" help:"Port to listen on (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Seed     int64  `long:"seed" help:"Seed for reproducible decks (overrides config)"`
	RedisURL string `long:"redis-url" env:"REDIS_URL" help:"Publish room events to Redis (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("holdem-server"),
		kong.Description("Multi-room Texas Hold'em server"),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Seed != 0 {
		cfg.Server.Seed = CLI.Seed
	}
	if CLI.RedisURL != "" {
		cfg.Redis.URL = CLI.RedisURL
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := newLogger(cfg.Server.LogLevel)
	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}

	styles := log.DefaultStyles()
	styles.Keys["room"] = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styles.Keys["player"] = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	logger.SetStyles(styles)
	return logger
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsServer := server.NewServer(cfg.ServerAddress(), logger)
	sinks := relay.Fanout{wsServer}

	var redisRelay *relay.Redis
	if cfg.Redis.URL != "" {
		r, err := relay.NewRedis(cfg.Redis.URL, cfg.Redis.ChannelPrefix, logger)
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()
		if err := r.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		redisRelay = r
		sinks = append(sinks, r)
	}

	managerOpts := []room.ManagerOption{room.WithRoomOptions(room.WithSink(sinks))}
	if cfg.Server.Seed != 0 {
		managerOpts = append(managerOpts, room.WithSeed(cfg.Server.Seed))
	}
	manager := room.NewManager(cfg.RoomConfig(), logger, managerOpts...)
	wsServer.SetManager(manager)

	logger.Info("Starting Holdem Server",
		"addr", cfg.ServerAddress(),
		"blinds", fmt.Sprintf("%d/%d", cfg.Room.SmallBlind, cfg.Room.BigBlind),
		"maxSeats", cfg.Room.MaxSeats,
		"redis", redisRelay != nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsServer.ListenAndServe(gctx)
	})
	if redisRelay != nil {
		g.Go(func() error {
			return redisRelay.Run(gctx)
		})
	}

	err := g.Wait()
	logger.Info("Shutting down server...")
	manager.Shutdown("server shutting down")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
