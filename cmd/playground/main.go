// Command playground serves the repository QnA agent behind a local
// chat web UI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/repoqna/repoqna/internal/agent"
	"github.com/repoqna/repoqna/internal/config"
	"github.com/repoqna/repoqna/internal/playground"
	"github.com/repoqna/repoqna/internal/potpie"
	"github.com/repoqna/repoqna/internal/provider"
	"github.com/repoqna/repoqna/memory"
	"github.com/repoqna/repoqna/tools"
)

func main() {
	// Load .env file if present (ignored if missing).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup:", err)
		os.Exit(1)
	}

	pc := potpie.New(cfg.PotpieAPIKey,
		potpie.WithBaseURL(cfg.PotpieBaseURL),
		potpie.WithHTTPTimeout(cfg.HTTPTimeout),
		potpie.WithPollInterval(cfg.PollInterval),
		potpie.WithReadyTimeout(cfg.ReadyTimeout),
	)
	client := provider.NewAnthropicClient(cfg.AnthropicAPIKey)
	store := memory.NewStore(cfg.SessionDir)

	ag := agent.New(client, provider.Model(cfg.Model), tools.Registry(pc), store, cfg.HistoryTurns)
	srv := playground.New(ag, cfg.RateLimitPerMin)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	if err := srv.Run(ctx, addr); err != nil {
		log.Fatal(err)
	}
}
