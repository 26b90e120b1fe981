// Package experiment drives the full evaluation: ingestion, indexing, dataset
// setup, RAG answering, grading and reporting to the tracking service.
package experiment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"ragsmith/src/config"
	"ragsmith/src/core/dataset"
	"ragsmith/src/core/evaluators"
	"ragsmith/src/core/ragbot"
	"ragsmith/src/ingest"
	"ragsmith/src/langsmith"
	"ragsmith/src/log"
	"ragsmith/src/services"
	"ragsmith/src/sources"
	"ragsmith/src/vectorstore"
)

const runName = "RAG Bot"

// Result is the evaluation record for one dataset example.
type Result struct {
	ExampleID string
	Question  string
	Answer    string
	Verdicts  map[string]evaluators.Verdict
}

// Summary aggregates one evaluation run.
type Summary struct {
	Experiment string
	DatasetID  string
	Results    []Result
	Passes     map[string]int
}

// Runner sequences the pipeline. Single-threaded and blocking: the first
// error aborts the run.
type Runner struct {
	cfg        *config.Config
	svc        *services.Services
	catalog    []sources.Source
	httpClient *http.Client
	progress   bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithSources overrides the default source catalog.
func WithSources(srcs []sources.Source) Option {
	return func(r *Runner) {
		r.catalog = srcs
	}
}

// WithHTTPClient overrides the client used to fetch documents.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) {
		r.httpClient = c
	}
}

// WithProgress toggles progress bars.
func WithProgress(enabled bool) Option {
	return func(r *Runner) {
		r.progress = enabled
	}
}

func New(cfg *config.Config, svc *services.Services, opts ...Option) *Runner {
	r := &Runner{
		cfg:        cfg,
		svc:        svc,
		catalog:    sources.Default(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		progress:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the full pipeline and returns the evaluation summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	pipeline, err := ingest.NewPipeline(
		ingest.NewFetcher(r.httpClient),
		r.cfg.Ingest.ChunkSize,
		r.cfg.Ingest.ChunkOverlap,
		ingest.WithProgress(r.progress),
	)
	if err != nil {
		return nil, err
	}

	chunks, err := pipeline.Ingest(ctx, r.catalog)
	if err != nil {
		return nil, fmt.Errorf("ingestion failed: %w", err)
	}

	store := vectorstore.New(r.svc.Embedder)
	if _, err := store.AddDocuments(ctx, chunks); err != nil {
		return nil, fmt.Errorf("indexing failed: %w", err)
	}
	log.Info("indexed chunks", "count", store.Len())

	retriever := vectorstores.ToRetriever(store, r.cfg.Retriever.TopK)
	bot := ragbot.New(r.svc.ChatLLM, retriever, r.cfg.OpenAI.Temperature)

	state, err := dataset.Ensure(ctx, r.svc.LangSmith, r.cfg.Dataset.Name, dataset.SeedExamples)
	if err != nil {
		return nil, err
	}

	examples, err := r.svc.LangSmith.ListExamples(ctx, state.Dataset.ID)
	if err != nil {
		return nil, err
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("dataset %q has no examples", r.cfg.Dataset.Name)
	}

	experimentName := fmt.Sprintf("%s-%s", r.cfg.Dataset.ExperimentPrefix, uuid.NewString()[:8])
	session, err := r.svc.LangSmith.CreateSession(ctx, experimentName, state.Dataset.ID, map[string]any{
		"metadata": map[string]any{"version": r.cfg.Dataset.MetadataVersion},
	})
	if err != nil {
		return nil, err
	}
	log.Info("created experiment", "name", experimentName, "session", session.ID)

	graders := evaluators.All(r.svc.ChatLLM, r.cfg.OpenAI.Temperature)

	var bar *progressbar.ProgressBar
	if r.progress {
		bar = progressbar.Default(int64(len(examples)), "evaluating examples")
	}

	summary := &Summary{
		Experiment: experimentName,
		DatasetID:  state.Dataset.ID,
		Passes:     map[string]int{},
	}

	for _, example := range examples {
		result, err := r.evaluateExample(ctx, bot, graders, session, example)
		if err != nil {
			return nil, err
		}
		summary.Results = append(summary.Results, *result)
		for key, verdict := range result.Verdicts {
			if verdict.Score {
				summary.Passes[key]++
			}
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	for _, grader := range graders {
		log.Info("evaluator summary", "key", grader.Key(),
			"passed", summary.Passes[grader.Key()], "total", len(summary.Results))
	}
	return summary, nil
}

func (r *Runner) evaluateExample(ctx context.Context, bot *ragbot.Bot, graders []*evaluators.Evaluator, session *langsmith.Session, example langsmith.Example) (*Result, error) {
	question, ok := example.Inputs["question"].(string)
	if !ok || question == "" {
		return nil, fmt.Errorf("example %s has no question input", example.ID)
	}
	reference, _ := example.Outputs["answer"].(string)

	start := time.Now().UTC()
	answer, err := bot.Answer(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to answer example %s: %w", example.ID, err)
	}
	end := time.Now().UTC()

	runID := uuid.NewString()
	run := langsmith.Run{
		ID:                 runID,
		Name:               runName,
		RunType:            "chain",
		Inputs:             map[string]any{"question": question},
		Outputs:            map[string]any{"answer": answer.Text, "documents": documentContents(answer.Documents)},
		SessionID:          session.ID,
		ReferenceExampleID: example.ID,
		StartTime:          start,
		EndTime:            end,
	}
	if err := r.svc.LangSmith.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	sample := evaluators.Sample{
		Question:  question,
		Answer:    answer.Text,
		Documents: answer.Documents,
		Reference: reference,
	}

	result := &Result{
		ExampleID: example.ID,
		Question:  question,
		Answer:    answer.Text,
		Verdicts:  map[string]evaluators.Verdict{},
	}

	for _, grader := range graders {
		verdict, err := grader.Evaluate(ctx, sample)
		if err != nil {
			return nil, fmt.Errorf("%s evaluator failed on example %s: %w", grader.Key(), example.ID, err)
		}
		result.Verdicts[grader.Key()] = verdict

		feedback := langsmith.Feedback{
			RunID:   runID,
			Key:     grader.Key(),
			Score:   boolScore(verdict.Score),
			Comment: verdict.Rationale,
		}
		if err := r.svc.LangSmith.CreateFeedback(ctx, feedback); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func documentContents(docs []schema.Document) []string {
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.PageContent)
	}
	return contents
}

func boolScore(pass bool) float64 {
	if pass {
		return 1
	}
	return 0
}
