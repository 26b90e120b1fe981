package sources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ragsmith/src/sources"
)

func TestDefaultCatalog(t *testing.T) {
	srcs := sources.Default()

	assert.Len(t, srcs, 5)
	for i, src := range srcs {
		assert.Equal(t, int64(i+1), src.ID)
		assert.NotEmpty(t, src.Title)
		assert.Contains(t, src.URL, "lesswrong.com")
		assert.Equal(t, sources.CollectionLessWrong, src.Collection)
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	first := sources.Default()
	first[0].Title = "mutated"

	second := sources.Default()
	assert.NotEqual(t, "mutated", second[0].Title)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		tags       []string
		wantIDs    []int64
	}{
		{
			name:    "no filters returns everything",
			wantIDs: []int64{1, 2, 3, 4, 5},
		},
		{
			name:       "collection match",
			collection: sources.CollectionLessWrong,
			wantIDs:    []int64{1, 2, 3, 4, 5},
		},
		{
			name:       "collection mismatch",
			collection: "arxiv",
			wantIDs:    nil,
		},
		{
			name:    "single tag",
			tags:    []string{"guide"},
			wantIDs: []int64{1, 2},
		},
		{
			name:    "all tags required",
			tags:    []string{"guide", "research"},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sources.Filter(tt.collection, tt.tags)
			var ids []int64
			for _, src := range got {
				ids = append(ids, src.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
