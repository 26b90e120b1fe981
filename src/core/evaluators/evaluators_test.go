package evaluators_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"ragsmith/src/core/evaluators"
)

// fakeJudge returns a canned structured response and records the prompt it
// was given.
type fakeJudge struct {
	response     string
	err          error
	lastMessages []llms.MessageContent
}

func (f *fakeJudge) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.lastMessages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeJudge) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return f.response, f.err
}

func messageText(m llms.MessageContent) string {
	var out string
	for _, part := range m.Parts {
		if text, ok := part.(llms.TextContent); ok {
			out += text.Text
		}
	}
	return out
}

func sample() evaluators.Sample {
	return evaluators.Sample{
		Question:  "What is superposition?",
		Answer:    "Representing more features than dimensions.",
		Reference: "More features than dimensions; sparse features compress information.",
		Documents: []schema.Document{
			{PageContent: "Toy models show features in superposition."},
			{PageContent: "Sparsity trades interference for capacity."},
		},
	}
}

func TestCorrectnessVerdict(t *testing.T) {
	judge := &fakeJudge{response: `{"explanation":"matches the ground truth","correct":true}`}
	ev := evaluators.NewCorrectness(judge, 0.001)

	assert.Equal(t, "correctness", ev.Key())

	verdict, err := ev.Evaluate(context.Background(), sample())
	require.NoError(t, err)
	assert.True(t, verdict.Score)
	assert.Equal(t, "matches the ground truth", verdict.Rationale)

	user := messageText(judge.lastMessages[1])
	assert.Contains(t, user, "QUESTION: What is superposition?")
	assert.Contains(t, user, "GROUND TRUTH ANSWER: More features than dimensions")
	assert.Contains(t, user, "STUDENT ANSWER: Representing more features")
}

func TestCorrectnessRequiresReference(t *testing.T) {
	ev := evaluators.NewCorrectness(&fakeJudge{}, 0)

	s := sample()
	s.Reference = ""
	_, err := ev.Evaluate(context.Background(), s)
	assert.ErrorIs(t, err, evaluators.ErrMissingReference)
}

func TestEvaluateDeterministicForFixedResponse(t *testing.T) {
	judge := &fakeJudge{response: `{"explanation":"ok","relevant":false}`}
	ev := evaluators.NewRelevance(judge, 0.001)

	first, err := ev.Evaluate(context.Background(), sample())
	require.NoError(t, err)
	second, err := ev.Evaluate(context.Background(), sample())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, first.Score)
}

func TestGroundednessIncludesFacts(t *testing.T) {
	judge := &fakeJudge{response: `{"explanation":"grounded in the toy model facts","grounded":true}`}
	ev := evaluators.NewGroundedness(judge, 0.001)

	verdict, err := ev.Evaluate(context.Background(), sample())
	require.NoError(t, err)
	assert.True(t, verdict.Score)

	user := messageText(judge.lastMessages[1])
	assert.Contains(t, user, "FACTS: Toy models show features in superposition.")
	assert.Contains(t, user, "Sparsity trades interference for capacity.")
	assert.Contains(t, user, "STUDENT ANSWER:")
}

func TestRetrievalRelevancePrompt(t *testing.T) {
	judge := &fakeJudge{response: `{"explanation":"facts mention superposition","relevant":true}`}
	ev := evaluators.NewRetrievalRelevance(judge, 0.001)

	assert.Equal(t, "retrieval_relevance", ev.Key())

	verdict, err := ev.Evaluate(context.Background(), sample())
	require.NoError(t, err)
	assert.True(t, verdict.Score)

	user := messageText(judge.lastMessages[1])
	assert.Contains(t, user, "FACTS:")
	assert.Contains(t, user, "QUESTION: What is superposition?")
}

func TestMalformedGradeJSON(t *testing.T) {
	judge := &fakeJudge{response: `the answer looks correct to me`}
	ev := evaluators.NewCorrectness(judge, 0)

	_, err := ev.Evaluate(context.Background(), sample())
	require.Error(t, err)

	var malformed *evaluators.MalformedGradeError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Raw, "looks correct")
}

func TestMissingVerdictField(t *testing.T) {
	judge := &fakeJudge{response: `{"explanation":"reasoning without a verdict"}`}
	ev := evaluators.NewGroundedness(judge, 0)

	_, err := ev.Evaluate(context.Background(), sample())

	var malformed *evaluators.MalformedGradeError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, `"grounded"`)
}

func TestJudgeCallErrorPropagates(t *testing.T) {
	judge := &fakeJudge{err: errors.New("model refused")}
	ev := evaluators.NewRelevance(judge, 0)

	_, err := ev.Evaluate(context.Background(), sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model refused")
}

func TestAllWiresFourEvaluators(t *testing.T) {
	evs := evaluators.All(&fakeJudge{}, 0.001)

	keys := make([]string, 0, len(evs))
	for _, ev := range evs {
		keys = append(keys, ev.Key())
	}
	assert.Equal(t, []string{"correctness", "relevance", "groundedness", "retrieval_relevance"}, keys)
}
