// server/cmd/api/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blood-bank-api-server/config"
	"blood-bank-api-server/internal/api/routes"
	"blood-bank-api-server/internal/auth"
	"blood-bank-api-server/internal/database"
	"blood-bank-api-server/internal/logger"
	"blood-bank-api-server/internal/metrics"
	"blood-bank-api-server/internal/models"
	"blood-bank-api-server/internal/services"
	"blood-bank-api-server/internal/socket"
	"blood-bank-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "./config", "directory containing config.yaml")
	issueToken := flag.String("issue-token", "", "print a JWT for the given user id and exit")
	tokenRole := flag.String("role", string(models.RoleAdmin), "role embedded by -issue-token")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "blood-bank-api",
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})

	if *issueToken != "" {
		token, err := auth.GenerateJWT(*issueToken, *tokenRole, []byte(cfg.JWT.Secret), cfg.JWT.Expiration)
		if err != nil {
			log.Fatal().Err(err).Msg("issue token")
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	// 2. Connect MongoDB
	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("db", cfg.Mongo.DBName).Bool("transactions", cfg.Mongo.Transactions).Msg("connected to mongo")

	db := client.Database(cfg.Mongo.DBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	st := store.New(db, cfg.Mongo.Transactions)

	if _, err := database.SeedAdmin(ctx, st.Users, cfg.Seed, time.Now()); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// 3. Metrics, websocket hub and services
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	hub := socket.NewHub(log.With().Str("component", "socket").Logger())

	admin, err := services.NewAdminService(services.AdminDeps{
		Donations:  st.Donations,
		Requests:   st.Requests,
		Users:      st.Users,
		Tx:         st,
		Notifier:   hub,
		Observer:   m,
		RandomSeed: cfg.Seed.RandomSeed,
	})
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.Mode)
	router := routes.SetupRouter(routes.Dependencies{
		Config:    cfg,
		Logger:    log,
		Users:     st.Users,
		DB:        st,
		Donor:     services.NewDonorService(st.Donations, nil),
		Recipient: services.NewRecipientService(st.Requests, nil),
		Admin:     admin,
		Public:    services.NewPublicService(st.Donations),
		Hub:       hub,
		Metrics:   m,
		Gatherer:  registry,
	})

	// 4. Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
