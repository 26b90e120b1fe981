// Package ragbot answers questions by retrieving relevant chunks and
// conditioning a chat model on them.
package ragbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"ragsmith/src/log"
)

const instructionsTemplate = `You are a helpful assistant who is good at analyzing source information and answering questions.
       Use the following source documents to answer the user's questions.
       If you don't know the answer, just say that you don't know.
       Use three sentences maximum and keep the answer concise.

Documents:
%s`

// ErrEmptyCompletion is returned when the chat model produces no choices.
var ErrEmptyCompletion = errors.New("chat model returned no completion")

// Answer is the bot's response together with the chunks it was grounded on.
type Answer struct {
	Text      string
	Documents []schema.Document
}

// Bot wires a retriever and a chat model.
type Bot struct {
	llm         llms.Model
	retriever   schema.Retriever
	temperature float64
}

func New(llm llms.Model, retriever schema.Retriever, temperature float64) *Bot {
	return &Bot{
		llm:         llm,
		retriever:   retriever,
		temperature: temperature,
	}
}

// Answer retrieves context for the question and generates a grounded answer.
func (b *Bot) Answer(ctx context.Context, question string) (*Answer, error) {
	docs, err := b.retriever.GetRelevantDocuments(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve documents: %w", err)
	}

	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString(doc.PageContent)
	}
	instructions := fmt.Sprintf(instructionsTemplate, sb.String())

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, instructions),
		llms.TextParts(llms.ChatMessageTypeHuman, question),
	}

	resp, err := b.llm.GenerateContent(ctx, messages, llms.WithTemperature(b.temperature))
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	log.Debug("generated answer", "question", question, "documents", len(docs))
	return &Answer{
		Text:      resp.Choices[0].Content,
		Documents: docs,
	}, nil
}
