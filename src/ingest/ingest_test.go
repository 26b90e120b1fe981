package ingest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"

	"ragsmith/src/ingest"
	"ragsmith/src/sources"
)

func newPipeline(t *testing.T, chunkSize, chunkOverlap int) *ingest.Pipeline {
	t.Helper()
	p, err := ingest.NewPipeline(ingest.NewFetcher(nil), chunkSize, chunkOverlap, ingest.WithProgress(false))
	require.NoError(t, err)
	return p
}

func TestFetchAttachesSourceMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Superposition packs many features into few dimensions.</p></body></html>"))
	}))
	defer srv.Close()

	src := sources.Source{ID: 3, Title: "Toy Models", URL: srv.URL}
	docs, err := ingest.NewFetcher(srv.Client()).Fetch(context.Background(), src)
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	for _, doc := range docs {
		assert.Contains(t, doc.PageContent, "Superposition")
		assert.Equal(t, "Toy Models", doc.Metadata[ingest.MetadataTitle])
		assert.Equal(t, srv.URL, doc.Metadata[ingest.MetadataURL])
		assert.Equal(t, int64(3), doc.Metadata[ingest.MetadataSourceID])
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := ingest.NewFetcher(srv.Client()).Fetch(context.Background(), sources.Source{ID: 1, URL: srv.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestLoadAbortsOnFirstFetchError(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("<html><body>fine</body></html>"))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	p, err := ingest.NewPipeline(ingest.NewFetcher(srv.Client()), 100, 0, ingest.WithProgress(false))
	require.NoError(t, err)

	srcs := []sources.Source{
		{ID: 1, URL: srv.URL + "/ok"},
		{ID: 2, URL: srv.URL + "/broken"},
		{ID: 3, URL: srv.URL + "/never-reached"},
	}

	docs, err := p.Load(context.Background(), srcs)
	require.Error(t, err)
	assert.Nil(t, docs)
	assert.Equal(t, 2, hits)
}

func TestChunkDeterministicBoundaries(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	docs := []schema.Document{{PageContent: text, Metadata: map[string]any{ingest.MetadataTitle: "t"}}}

	p := newPipeline(t, 120, 20)

	first, err := p.Chunk(docs)
	require.NoError(t, err)
	second, err := p.Chunk(docs)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	require.Greater(t, len(first), 1)
	for i := range first {
		assert.Equal(t, first[i].PageContent, second[i].PageContent)
	}
}

func TestChunkPropagatesMetadataAndAssignsIDs(t *testing.T) {
	docs := []schema.Document{{
		PageContent: strings.Repeat("alpha beta gamma delta. ", 30),
		Metadata: map[string]any{
			ingest.MetadataTitle:    "Quickstart",
			ingest.MetadataURL:      "https://example.com/post",
			ingest.MetadataSourceID: int64(1),
		},
	}}

	p := newPipeline(t, 80, 0)
	chunks, err := p.Chunk(docs)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	seen := map[int64]bool{}
	for _, chunk := range chunks {
		assert.Equal(t, "Quickstart", chunk.Metadata[ingest.MetadataTitle])
		assert.Equal(t, "https://example.com/post", chunk.Metadata[ingest.MetadataURL])

		id, ok := chunk.Metadata[ingest.MetadataChunkID].(int64)
		require.True(t, ok)
		assert.False(t, seen[id], "chunk ids must be unique")
		seen[id] = true
	}
}

func TestChunkEmptyInput(t *testing.T) {
	p := newPipeline(t, 100, 0)
	chunks, err := p.Chunk(nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
