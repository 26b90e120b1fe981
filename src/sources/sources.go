// Package sources defines the catalog of documents fed into the ingestion
// pipeline.
package sources

// Source describes one remote document. Descriptors are immutable and defined
// at process start.
type Source struct {
	ID         int64
	Title      string
	URL        string
	Collection string
	Tags       []string
}

const CollectionLessWrong = "lesswrong"

// lesswrongPosts is the default catalog: five mechanistic-interpretability
// posts used as the retrieval corpus.
var lesswrongPosts = []Source{
	{
		ID:         1,
		Title:      "Mechanistic Interpretability Quickstart Guide — Neel Nanda",
		URL:        "https://www.lesswrong.com/posts/jLAvJt8wuSFySN975/mechanistic-interpretability-quickstart-guide",
		Collection: CollectionLessWrong,
		Tags:       []string{"mechanistic-interpretability", "guide"},
	},
	{
		ID:         2,
		Title:      "A Barebones Guide to Mechanistic Interpretability Prerequisites — Neel Nanda",
		URL:        "https://www.lesswrong.com/posts/AaABQpuoNC8gpHf2n/a-barebones-guide-to-mechanistic-interpretability",
		Collection: CollectionLessWrong,
		Tags:       []string{"mechanistic-interpretability", "guide"},
	},
	{
		ID:         3,
		Title:      "Toy Models of Superposition — Anthropic (crosspost)",
		URL:        "https://www.lesswrong.com/posts/CTh74TaWgvRiXnkS6/toy-models-of-superposition",
		Collection: CollectionLessWrong,
		Tags:       []string{"mechanistic-interpretability", "research"},
	},
	{
		ID:         4,
		Title:      "Some Lessons Learned from Studying Indirect Object Identification in GPT-2 small — Redwood Research",
		URL:        "https://www.lesswrong.com/posts/3ecs6duLmTfyra3Gp/some-lessons-learned-from-studying-indirect-object",
		Collection: CollectionLessWrong,
		Tags:       []string{"mechanistic-interpretability", "research"},
	},
	{
		ID:         5,
		Title:      "Explaining the Transformer Circuits Framework by Example",
		URL:        "https://www.lesswrong.com/posts/CJsxd8ofLjGFxkmAP/explaining-the-transformer-circuits-framework-by-example",
		Collection: CollectionLessWrong,
		Tags:       []string{"mechanistic-interpretability", "research"},
	},
}

// Default returns the full catalog in ingestion order.
func Default() []Source {
	out := make([]Source, len(lesswrongPosts))
	copy(out, lesswrongPosts)
	return out
}

// Filter selects sources by collection and tags. An empty collection matches
// every collection; a selected source must carry all requested tags.
func Filter(collection string, tags []string) []Source {
	var out []Source
	for _, src := range Default() {
		if collection != "" && src.Collection != collection {
			continue
		}
		if !hasAllTags(src, tags) {
			continue
		}
		out = append(out, src)
	}
	return out
}

func hasAllTags(src Source, tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range src.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
