package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/caro-backend/internal/chain"
	"github.com/rocketscienceinc/caro-backend/internal/config"
	"github.com/rocketscienceinc/caro-backend/internal/repository"
	"github.com/rocketscienceinc/caro-backend/internal/repository/storage"
	"github.com/rocketscienceinc/caro-backend/internal/usecase"
	"github.com/rocketscienceinc/caro-backend/transport/rest"
	"github.com/rocketscienceinc/caro-backend/transport/websocket"
)

const janitorInterval = time.Minute

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString, conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gateway, err := chain.NewGateway(logger, conf.Wallet)
	if err != nil {
		return fmt.Errorf("could not create chain gateway: %w", err)
	}

	defer gateway.Close()

	networks := chain.NewRegistry(conf.Networks)
	sessionRepo := repository.NewSessionRepository(redisStorage, conf.Game.SessionTTL)

	rules := usecase.Rules{
		OpponentDelay:  conf.Game.OpponentDelay,
		TurnsPerBatch:  conf.Game.TurnsPerBatch,
		PurchasePrice:  conf.Game.PurchasePrice,
		PendingTimeout: conf.Game.PendingPurchase,
	}
	sessionManager := usecase.NewSessionManager(logger, sessionRepo, gateway, networks, rules, conf.DefaultNetwork)

	go sessionManager.RunJanitor(ctx, janitorInterval, conf.Game.SessionTTL)

	router := rest.NewRouter(logger, sessionManager, networks)
	websocket.New(logger, sessionManager).Register(router)

	// run HTTP server, Start returns once ctx is canceled and the server has shut down
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpErrCh <- rest.Start(ctx, conf.HTTPPort, router)
	}()

	if err = <-httpErrCh; err != nil {
		log.Error("HTTP server error", "error", err)
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
