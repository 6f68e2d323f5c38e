package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prathvinaik206-create/farmdirect/internal/auth"
	"github.com/prathvinaik206-create/farmdirect/internal/config"
	"github.com/prathvinaik206-create/farmdirect/internal/handlers"
	"github.com/prathvinaik206-create/farmdirect/internal/notify"
	"github.com/prathvinaik206-create/farmdirect/internal/server"
	"github.com/prathvinaik206-create/farmdirect/internal/services"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
	"github.com/prathvinaik206-create/farmdirect/internal/storage/memory"
	mongostore "github.com/prathvinaik206-create/farmdirect/internal/storage/mongo"
	"github.com/prathvinaik206-create/farmdirect/internal/storage/postgres"
	"github.com/prathvinaik206-create/farmdirect/internal/telemetry"
)

func main() {
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing.Exporter, cfg.Tracing.Endpoint)
	if err != nil {
		log.Fatalf("init tracing: %v", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init %s store: %v", cfg.StoreDriver, err)
	}

	notifier, closeNotifier, err := openNotifier(cfg)
	if err != nil {
		log.Fatalf("init %s notifier: %v", cfg.Notify.Driver, err)
	}
	dispatcher := notify.NewDispatcher(notifier, cfg.NotifyTimeout())

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL())

	router := handlers.NewRouter(handlers.Handlers{
		Health:   handlers.NewHealthHandler(time.Now()),
		Users:    handlers.NewUserHandler(services.NewUserService(store, tokens)),
		Products: handlers.NewProductHandler(services.NewProductService(store)),
		Orders: handlers.NewOrderHandler(
			services.NewOrderService(store, dispatcher),
			services.NewStatsService(store),
		),
	}, tokens)

	srv := server.New(cfg, router)

	go func() {
		log.Printf("farmdirect listening on %s (store=%s notify=%s)", cfg.HTTPAddress(), cfg.StoreDriver, cfg.Notify.Driver)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
	dispatcher.Wait()
	if err := closeNotifier(); err != nil {
		log.Printf("Error closing notifier: %v", err)
	}
	if err := store.Close(ctxShutdown); err != nil {
		log.Printf("Error closing store: %v", err)
	}
	if err := shutdownTracing(ctxShutdown); err != nil {
		log.Printf("Error flushing traces: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return mongostore.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	case config.StorePostgres:
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	case config.StoreMemory:
		log.Println("Warning: using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func openNotifier(cfg config.Config) (notify.Notifier, func() error, error) {
	noClose := func() error { return nil }
	n := cfg.Notify
	switch n.Driver {
	case config.NotifyLog:
		return notify.LogNotifier{}, noClose, nil
	case config.NotifySMTP:
		return notify.NewSMTPNotifier(n.SMTPHost, strconv.Itoa(n.SMTPPort), n.SMTPUsername, n.SMTPPassword, n.SMTPFrom), noClose, nil
	case config.NotifyRedis:
		q, err := notify.NewRedisQueueFromURL(n.RedisURL, n.RedisQueue)
		if err != nil {
			return nil, nil, err
		}
		return q, q.Close, nil
	case config.NotifyWebhook:
		return notify.NewWebhookNotifier(n.WebhookURL, n.WebhookToken), noClose, nil
	}
	return nil, nil, fmt.Errorf("unknown notify driver %q", n.Driver)
}
