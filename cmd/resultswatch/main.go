package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/vncsmyrnk/ballot/internal/adapters/api/rest"
	"github.com/vncsmyrnk/ballot/internal/config"
	"github.com/vncsmyrnk/ballot/internal/core/domain"
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

	var apiURL, unlockAt, password string
	var interval time.Duration

	flag.StringVar(&apiURL, "api", cfg.ElectionAPIURL, "Election API base URL")
	flag.StringVar(&unlockAt, "unlock-at", cfg.ResultsUnlockAt, "Local time results unlock, e.g. 2025-03-15T17:00")
	flag.StringVar(&password, "password", cfg.ResultsPassword, "Results password")
	flag.DurationVar(&interval, "interval", cfg.ResultsPollInterval, "How often to re-check the unlock time")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := rest.NewClient(rest.Config{BaseURL: apiURL, Timeout: cfg.APITimeout})
	gate := services.NewUnlockGate(unlockAt, time.Local)

	st := gate.Status()
	if !st.Configured {
		log.Fatal("no unlock time configured, set RESULTS_UNLOCK_AT or -unlock-at")
	}
	if !st.Unlocked {
		slog.Info("waiting for results to unlock", "unlock_at", st.Formatted, "in", st.Relative)
		if err := gate.WaitUnlocked(ctx, interval); err != nil {
			log.Fatalf("Stopped before results unlocked: %v", err)
		}
	}

	results, err := services.NewResultsService(gate, api).Results(ctx, password)
	if err != nil {
		log.Fatalf("Error fetching results: %v", err)
	}

	printResults(os.Stdout, results)
}

func printResults(out io.Writer, res *domain.Results) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, post := range res.Results {
		total := post.TotalVotes()
		leader, hasLeader := post.Leader()

		fmt.Fprintf(w, "%s\t\t%s votes\n", post.Title, humanize.Comma(total))
		for _, c := range post.Candidates {
			mark := ""
			if hasLeader && c.CandidateID == leader.CandidateID && c.Votes > 0 {
				mark = "*"
			}
			share := 0.0
			if total > 0 {
				share = float64(c.Votes) * 100 / float64(total)
			}
			fmt.Fprintf(w, "  %s %s\t%s\t%s%%\n", mark, c.Name, humanize.Comma(c.Votes), humanize.FtoaWithDigits(share, 1))
		}
		fmt.Fprintln(w, "\t\t")
	}

	if res.Summary != nil {
		fmt.Fprintf(w, "Voters\t%s\t\n", humanize.Comma(res.Summary.TotalVoters))
		if res.Summary.VotedCount > 0 {
			fmt.Fprintf(w, "Voted\t%s\t\n", humanize.Comma(res.Summary.VotedCount))
		}
	}
}
