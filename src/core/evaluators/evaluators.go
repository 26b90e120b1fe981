// Package evaluators implements LLM-as-judge boolean graders for RAG answers.
// Each evaluator is a pure function of the sample: it formats a judge prompt,
// calls the chat model constrained to JSON output, and decodes an explicit
// tagged grade into a verdict.
package evaluators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// ErrMissingReference is returned when an evaluator that grades against a
// ground-truth answer is invoked without one.
var ErrMissingReference = errors.New("evaluator requires a reference answer")

// MalformedGradeError reports a judge response that could not be decoded into
// the expected grade schema.
type MalformedGradeError struct {
	Raw    string
	Reason string
}

func (e *MalformedGradeError) Error() string {
	return fmt.Sprintf("malformed grade response (%s): %s", e.Reason, e.Raw)
}

// Verdict is a boolean score with the judge's rationale.
type Verdict struct {
	Score     bool
	Rationale string
}

// Sample carries everything a grader may need about one evaluated answer.
type Sample struct {
	Question  string
	Answer    string
	Documents []schema.Document
	Reference string
}

// gradeSpec is the per-evaluator configuration: rubric, output schema hint,
// prompt assembly and grade decoding.
type gradeSpec struct {
	key              string
	instructions     string
	schemaHint       string
	requireReference bool
	buildPrompt      func(Sample) string
	decode           func([]byte) (Verdict, error)
}

// Evaluator grades samples with a chat model. It holds no state between
// invocations.
type Evaluator struct {
	llm         llms.Model
	temperature float64
	spec        gradeSpec
}

// Key is the feedback key the verdict is reported under.
func (e *Evaluator) Key() string {
	return e.spec.key
}

// Evaluate runs the judge model over one sample.
func (e *Evaluator) Evaluate(ctx context.Context, sample Sample) (Verdict, error) {
	if e.spec.requireReference && sample.Reference == "" {
		return Verdict{}, ErrMissingReference
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, e.spec.instructions+"\n\n"+e.spec.schemaHint),
		llms.TextParts(llms.ChatMessageTypeHuman, e.spec.buildPrompt(sample)),
	}

	resp, err := e.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(e.temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return Verdict{}, fmt.Errorf("%s judge call failed: %w", e.spec.key, err)
	}
	if len(resp.Choices) == 0 {
		return Verdict{}, &MalformedGradeError{Reason: "no completion choices"}
	}

	return e.spec.decode([]byte(resp.Choices[0].Content))
}

// All returns the four graders applied to every evaluation run: correctness,
// relevance, groundedness and retrieval relevance.
func All(llm llms.Model, temperature float64) []*Evaluator {
	return []*Evaluator{
		NewCorrectness(llm, temperature),
		NewRelevance(llm, temperature),
		NewGroundedness(llm, temperature),
		NewRetrievalRelevance(llm, temperature),
	}
}

func decodeGrade(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedGradeError{Raw: string(raw), Reason: err.Error()}
	}
	return nil
}

func missingField(raw []byte, field string) error {
	return &MalformedGradeError{Raw: string(raw), Reason: fmt.Sprintf("missing %q field", field)}
}

func joinDocuments(docs []schema.Document) string {
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.PageContent)
	}
	return strings.Join(contents, "\n\n")
}
