/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ragsmith/src/config"
	"ragsmith/src/core/experiment"
	"ragsmith/src/log"
	"ragsmith/src/services"
)

var envFile string

// rootCmd runs the full evaluation pipeline: ingest, index, ensure the
// dataset, answer every example and report graded feedback.
var rootCmd = &cobra.Command{
	Use:   "ragsmith",
	Short: "Evaluate a RAG bot against a hosted dataset with LLM judges",
	Long: `ragsmith ingests a catalog of web documents into an in-memory vector
store, answers every example of a hosted evaluation dataset with a RAG bot,
grades each answer with four LLM judges and reports the verdicts as feedback
on the tracking service.`,
	RunE: runEvaluation,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an optional .env file")
}

func runEvaluation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := log.Setup(cfg.LogMode); err != nil {
		return err
	}

	svc, err := services.New(cfg)
	if err != nil {
		return err
	}

	summary, err := experiment.New(cfg, svc).Run(context.Background())
	if err != nil {
		log.Error(err, "evaluation run failed")
		return err
	}

	fmt.Printf("experiment: %s\n", summary.Experiment)
	for key, passed := range summary.Passes {
		fmt.Printf("%s: %d/%d\n", key, passed, len(summary.Results))
	}
	return nil
}
