// Command agent is a terminal chat with the repository QnA agent, for
// use without the web playground.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/repoqna/repoqna/internal/agent"
	"github.com/repoqna/repoqna/internal/config"
	"github.com/repoqna/repoqna/internal/potpie"
	"github.com/repoqna/repoqna/internal/provider"
	"github.com/repoqna/repoqna/memory"
	"github.com/repoqna/repoqna/tools"
)

// Fixed session so transcripts persist across CLI runs.
const cliSession = "cli"

func main() {
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

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("Chat with the %s (Ctrl-C to quit)\n", ag.Name())

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("[94mYou[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if user == "" {
			continue
		}

		answer, _, err := ag.Respond(ctx, cliSession, user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("[93mAgent[0m: %s\n", answer)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}
