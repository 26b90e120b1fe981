package ragbot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"ragsmith/src/core/ragbot"
)

type fakeRetriever struct {
	docs []schema.Document
	err  error
}

func (f *fakeRetriever) GetRelevantDocuments(_ context.Context, _ string) ([]schema.Document, error) {
	return f.docs, f.err
}

type fakeChatModel struct {
	response     string
	err          error
	lastMessages []llms.MessageContent
}

func (f *fakeChatModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.lastMessages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeChatModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
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

func TestAnswerIncludesRetrievedContext(t *testing.T) {
	retriever := &fakeRetriever{docs: []schema.Document{
		{PageContent: "Superposition stores more features than dimensions."},
		{PageContent: "Sparsity makes interference manageable."},
	}}
	llm := &fakeChatModel{response: "Superposition compresses features."}

	bot := ragbot.New(llm, retriever, 0.001)
	answer, err := bot.Answer(context.Background(), "What is superposition?")
	require.NoError(t, err)

	assert.Equal(t, "Superposition compresses features.", answer.Text)
	assert.Len(t, answer.Documents, 2)

	require.Len(t, llm.lastMessages, 2)
	system := messageText(llm.lastMessages[0])
	assert.Contains(t, system, "Superposition stores more features than dimensions.")
	assert.Contains(t, system, "Sparsity makes interference manageable.")
	assert.Contains(t, system, "three sentences maximum")
	assert.Equal(t, "What is superposition?", messageText(llm.lastMessages[1]))
}

func TestAnswerPropagatesRetrieverError(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("index unavailable")}
	bot := ragbot.New(&fakeChatModel{}, retriever, 0)

	_, err := bot.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index unavailable")
}

func TestAnswerPropagatesModelError(t *testing.T) {
	retriever := &fakeRetriever{docs: []schema.Document{{PageContent: "ctx"}}}
	bot := ragbot.New(&fakeChatModel{err: errors.New("rate limited")}, retriever, 0)

	_, err := bot.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
