// Command dodo runs a single task against the Gemini API and prints the
// result with its action log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/steve-z-wang/dodo"
	"github.com/steve-z-wang/dodo/internal/config"
	"github.com/steve-z-wang/dodo/observer"
	"github.com/steve-z-wang/dodo/provider/gemini"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config (default dodo.toml)")
	task := flag.String("task", "", "task description (required)")
	maxSteps := flag.Int("max-steps", 0, "override max iterations")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *task == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load(*configPath)
	if cfg.LLM.APIKey == "" {
		log.Fatal("DODO_API_KEY is required")
	}
	if *maxSteps > 0 {
		cfg.Agent.MaxIterations = *maxSteps
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []dodo.Option{
		dodo.WithLogger(logger),
		dodo.WithMemory(dodo.MemoryConfig{RecentWindow: cfg.Agent.RecentWindow}),
	}
	if cfg.Agent.SystemPrompt != "" {
		opts = append(opts, dodo.WithSystemPrompt(cfg.Agent.SystemPrompt))
	}
	if cfg.Observer.Enabled {
		shutdown, err := observer.Init(ctx)
		if err != nil {
			log.Fatalf("observer init: %v", err)
		}
		defer shutdown(context.Background())
		opts = append(opts, dodo.WithTracer(observer.NewTracer()))
	}

	llm := dodo.WithRetry(gemini.New(cfg.LLM.APIKey, cfg.LLM.Model,
		gemini.WithTemperature(cfg.LLM.Temperature),
		gemini.WithLogger(logger)))

	agent := dodo.New(llm, nil, nil, opts...)

	run, err := agent.Do(ctx, *task, dodo.WithMaxIterations(cfg.Agent.MaxIterations))
	var aborted *dodo.TaskAbortedError
	switch {
	case errors.As(err, &aborted):
		fmt.Fprintln(os.Stderr, "aborted:", aborted.Feedback)
	case err != nil:
		log.Fatal(err)
	default:
		fmt.Println(run.Feedback)
	}

	if run != nil && run.ActionLog != "" {
		fmt.Println("\nActions:")
		fmt.Println(run.ActionLog)
	}
}
