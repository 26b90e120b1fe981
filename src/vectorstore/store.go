// Package vectorstore provides an in-memory vector store implementing the
// langchaingo VectorStore interface. Chunks live for the duration of one run;
// nothing is persisted.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

var (
	// ErrEmbedderMismatch is returned when the number of vectors returned by
	// the embedder does not match the number of input documents.
	ErrEmbedderMismatch = errors.New("number of embeddings does not match number of documents")
	// ErrInvalidScoreThreshold is returned for thresholds outside [0, 1].
	ErrInvalidScoreThreshold = errors.New("score threshold must be between 0 and 1")
)

type entry struct {
	id     string
	doc    schema.Document
	vector []float32
}

// Store is a mutex-guarded in-memory index ranked by cosine similarity.
type Store struct {
	embedder embeddings.Embedder

	mu      sync.RWMutex
	entries []entry
}

var _ vectorstores.VectorStore = (*Store)(nil)

// New creates an empty store bound to the given embedder.
func New(embedder embeddings.Embedder) *Store {
	return &Store{embedder: embedder}
}

// AddDocuments embeds the documents and appends them to the index, returning
// the assigned ids.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	opts := applyOptions(options...)

	embedder := s.embedder
	if opts.Embedder != nil {
		embedder = opts.Embedder
	}

	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		texts = append(texts, doc.PageContent)
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, ErrEmbedderMismatch
	}

	ids := make([]string, len(docs))
	added := make([]entry, len(docs))
	for i, doc := range docs {
		ids[i] = uuid.NewString()
		added[i] = entry{id: ids[i], doc: doc, vector: vectors[i]}
	}

	s.mu.Lock()
	s.entries = append(s.entries, added...)
	s.mu.Unlock()

	return ids, nil
}

// SimilaritySearch embeds the query and returns up to numDocuments documents
// ordered by descending cosine similarity. Each returned document carries its
// similarity score.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := applyOptions(options...)
	if opts.ScoreThreshold < 0 || opts.ScoreThreshold > 1 {
		return nil, ErrInvalidScoreThreshold
	}

	embedder := s.embedder
	if opts.Embedder != nil {
		embedder = opts.Embedder
	}

	queryVector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	s.mu.RLock()
	scored := make([]schema.Document, 0, len(s.entries))
	for _, e := range s.entries {
		score := cosineSimilarity(queryVector, e.vector)
		if opts.ScoreThreshold > 0 && score < opts.ScoreThreshold {
			continue
		}
		doc := e.doc
		doc.Score = score
		scored = append(scored, doc)
	}
	s.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if numDocuments > 0 && len(scored) > numDocuments {
		scored = scored[:numDocuments]
	}
	return scored, nil
}

// Len reports the number of indexed documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func applyOptions(options ...vectorstores.Option) vectorstores.Options {
	opts := vectorstores.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
