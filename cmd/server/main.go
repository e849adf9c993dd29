package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vncsmyrnk/ballot/internal/adapters/api/rest"
	"github.com/vncsmyrnk/ballot/internal/adapters/handler/http"
	"github.com/vncsmyrnk/ballot/internal/adapters/repository"
	"github.com/vncsmyrnk/ballot/internal/config"
	"github.com/vncsmyrnk/ballot/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	mode, err := services.ParseLoginMode(cfg.LoginMode)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	credentials, closeCredentials, err := repository.OpenCredentials(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCredentials()

	// Initialize API client
	api := rest.NewClient(rest.Config{BaseURL: cfg.ElectionAPIURL, Timeout: cfg.APITimeout})

	// Initialize Services
	gate := services.NewUnlockGate(cfg.ResultsUnlockAt, time.Local)
	results := services.NewResultsService(gate, api)

	// Initialize Handlers
	ballots := http.NewBallotRegistry(cfg.SessionTTL)
	go ballots.Run(ctx, time.Minute)
	authHandler := http.NewAuthHandler(api, credentials, mode, ballots, cfg.ReauthRedirectDelay)
	handler := http.NewHandler(
		http.NewSessionCookies(cfg.CookieDomain, cfg.CookieSecure),
		authHandler,
		http.NewUserHandler(authHandler),
		http.NewVoteHandler(api, credentials, ballots, cfg.ReauthRedirectDelay),
		http.NewAdminHandler(api, credentials),
		http.NewResultsHandler(gate, results, cfg.ResultsPollInterval),
	)

	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr, "election_api", cfg.ElectionAPIURL, "login_mode", mode, "credential_store", cfg.CredentialStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
