/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/vectorstores"

	"ragsmith/src/config"
	"ragsmith/src/core/ragbot"
	"ragsmith/src/ingest"
	"ragsmith/src/langsmith"
	"ragsmith/src/log"
	"ragsmith/src/services"
	"ragsmith/src/sources"
	"ragsmith/src/vectorstore"
)

// askCmd answers a single question against the document catalog without
// touching the evaluation dataset.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the RAG bot a one-shot question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := strings.Join(args, " ")

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := log.Setup(cfg.LogMode); err != nil {
		return err
	}

	svc, err := services.NewWithoutTracking(cfg)
	if err != nil {
		return err
	}

	pipeline, err := ingest.NewPipeline(
		ingest.NewFetcher(nil),
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
	)
	if err != nil {
		return err
	}
	chunks, err := pipeline.Ingest(ctx, sources.Default())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	store := vectorstore.New(svc.Embedder)
	if _, err := store.AddDocuments(ctx, chunks); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	retriever := vectorstores.ToRetriever(store, cfg.Retriever.TopK)
	bot := ragbot.New(svc.ChatLLM, retriever, cfg.OpenAI.Temperature)

	start := time.Now().UTC()
	answer, err := bot.Answer(ctx, question)
	if err != nil {
		return err
	}
	end := time.Now().UTC()

	fmt.Println(answer.Text)

	if cfg.LangSmith.Tracing && cfg.LangSmith.APIKey != "" {
		client := langsmith.NewClient(cfg.LangSmith.Endpoint, cfg.LangSmith.APIKey, nil)
		run := langsmith.Run{
			ID:          uuid.NewString(),
			Name:        "RAG Bot",
			RunType:     "chain",
			Inputs:      map[string]any{"question": question},
			Outputs:     map[string]any{"answer": answer.Text},
			SessionName: cfg.LangSmith.Project,
			StartTime:   start,
			EndTime:     end,
		}
		if err := client.CreateRun(ctx, run); err != nil {
			log.Error(err, "failed to trace run")
		}
	}
	return nil
}
