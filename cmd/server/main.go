package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/controller"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	// Initialize services
	gameManager := service.NewGameManager(service.Options{
		BotDelay:            cfg.BotDelay,
		MatchmakingInterval: cfg.MatchmakingInterval,
	})
	gameService := service.NewGameService(gameManager)

	app := controller.NewApp(gameService, cfg.Origins())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return gameManager.Run(ctx)
	})

	g.Go(func() error {
		log.Infow("listening", "addr", cfg.Addr)
		return app.Listen(cfg.Addr)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return app.Shutdown()
	})

	return g.Wait()
}
