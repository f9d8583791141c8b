package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rmorelli/polyseek/internal/catalog"
	"github.com/rmorelli/polyseek/internal/config"
	"github.com/rmorelli/polyseek/internal/logger"
	"github.com/rmorelli/polyseek/internal/models"
	"github.com/rmorelli/polyseek/internal/polymarket"
	"github.com/rmorelli/polyseek/internal/search"
)

var configPath = flag.String("config", "", "Path to configuration file (built-in defaults when empty)")

func main() {
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: polyseek [-config path] <search query>")
		os.Exit(2)
	}

	// Load configuration
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	// Wire the pipeline: Gamma client -> catalog cache -> searcher
	client := polymarket.NewClient(cfg.API.BaseURL, cfg.API.Timeout, polymarket.ClientConfig{
		MaxRetries:     cfg.API.MaxRetries,
		RetryDelayBase: cfg.API.RetryDelayBase,
	})
	cache := catalog.New(client, cfg.Cache.TTL)
	searcher := search.NewSearcher(cache, search.Options{
		ScoreFloor:     cfg.Search.ScoreFloor,
		HighConfidence: cfg.Search.HighConfidence,
		MaxCandidates:  cfg.Search.MaxCandidates,
		MinQueryLength: cfg.Search.MinQueryLength,
	})

	result, err := searcher.Search(context.Background(), query)
	if err != nil {
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Invalid query: %v\n", verr)
			os.Exit(2)
		}
		logger.Fatal("Search failed: %v", err)
	}

	printResult(result)
}

func printResult(result models.Result) {
	switch result.Kind {
	case models.ResultSingle:
		printMarket(result.Matches[0])
	case models.ResultMultiple:
		fmt.Printf("%d markets match %q:\n\n", len(result.Matches), result.Query)
		for i, match := range result.Matches {
			fmt.Printf("%d. ", i+1)
			printMarket(match)
		}
	default:
		fmt.Printf("No markets match %q.\n", result.Query)
	}
}

func printMarket(match models.MatchCandidate) {
	record := match.Record
	fmt.Printf("%s (score %.0f)\n", record.Question, match.Score)
	fmt.Printf("   Yes %.0f%% / No %.0f%%, volume $%.0f\n",
		record.YesPrice*100, record.NoPrice*100, record.Volume)
	if !record.EndDate.IsZero() {
		fmt.Printf("   Closes %s\n", record.EndDate.Format("2006-01-02"))
	}
	if url := record.URL(); url != "" {
		fmt.Printf("   %s\n", url)
	}
	fmt.Println()
}
