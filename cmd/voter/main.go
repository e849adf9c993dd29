package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vncsmyrnk/ballot/internal/adapters/api/rest"
	"github.com/vncsmyrnk/ballot/internal/adapters/repository"
	"github.com/vncsmyrnk/ballot/internal/config"
	"github.com/vncsmyrnk/ballot/internal/core/services"
)

// profileSession is the session id of the terminal voter inside its profile.
const profileSession = "cli"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var store, mode string
	flag.StringVar(&cfg.ElectionAPIURL, "api", cfg.ElectionAPIURL, "Election API base URL")
	flag.StringVar(&cfg.SQLitePath, "profile", cfg.SQLitePath, "SQLite file holding the voting session")
	flag.StringVar(&store, "store", "sqlite", "Credential store (sqlite, memory, postgres or redis)")
	flag.StringVar(&mode, "mode", cfg.LoginMode, "Login mode (otp or code)")
	flag.Parse()
	cfg.CredentialStore = store

	loginMode, err := services.ParseLoginMode(mode)
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

	api := rest.NewClient(rest.Config{BaseURL: cfg.ElectionAPIURL, Timeout: cfg.APITimeout})
	session := services.NewSessionStore(credentials, services.VoterNamespace, profileSession)

	t := newTerminal(os.Stdin, os.Stdout, api, session, loginMode, cfg.ReauthRedirectDelay)
	if err := t.run(ctx); err != nil {
		log.Fatal(err)
	}
}
