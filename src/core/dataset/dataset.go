// Package dataset manages the evaluation dataset on the tracking service:
// it guarantees the dataset exists and seeds it with reference examples when
// missing, never mutating examples that are already there.
package dataset

import (
	"context"
	"fmt"

	"ragsmith/src/langsmith"
	"ragsmith/src/log"
)

// Example is one question with its reference answer.
type Example struct {
	Question string
	Answer   string
}

// State describes the ensured dataset.
type State struct {
	Dataset      langsmith.Dataset
	Created      bool
	ExampleCount int
}

// Ensure checks whether the named dataset exists and creates it with the
// given examples if not. Running it twice yields exactly one dataset.
func Ensure(ctx context.Context, client *langsmith.Client, name string, examples []Example) (*State, error) {
	exists, err := client.HasDataset(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check dataset %q: %w", name, err)
	}

	if exists {
		ds, err := client.ReadDataset(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset %q: %w", name, err)
		}
		log.Info("dataset already exists", "name", name, "id", ds.ID)
		return &State{Dataset: *ds, Created: false, ExampleCount: 0}, nil
	}

	ds, err := client.CreateDataset(ctx, name, "Question/answer pairs over the LessWrong mechanistic interpretability posts")
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset %q: %w", name, err)
	}

	payload := make([]langsmith.ExamplePayload, 0, len(examples))
	for _, example := range examples {
		payload = append(payload, langsmith.ExamplePayload{
			DatasetID: ds.ID,
			Inputs:    map[string]any{"question": example.Question},
			Outputs:   map[string]any{"answer": example.Answer},
		})
	}

	created, err := client.CreateExamples(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to seed dataset %q: %w", name, err)
	}

	log.Info("created dataset", "name", name, "id", ds.ID, "examples", len(created))
	return &State{Dataset: *ds, Created: true, ExampleCount: len(created)}, nil
}
