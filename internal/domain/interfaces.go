package domain

import "context"

// Page is the extracted text of a single document page (1-based).
type Page struct {
	Number int
	Text   string
}

// Document represents a single file loaded into the system.
type Document struct {
	ID      string
	Path    string
	Content string
	Pages   []Page
}

// Chunk is a semantically meaningful part of a document used for indexing.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
	Page       int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// CorpusFitted is implemented by embedders whose vector space is rebuilt by
// Prepare. Vectors produced before a Prepare are not comparable with those
// produced after it.
type CorpusFitted interface {
	FitsCorpus() bool
}

// FitsCorpus reports whether e rebuilds its vector space on every Prepare.
func FitsCorpus(e Embedder) bool {
	f, ok := e.(CorpusFitted)
	return ok && f.FitsCorpus()
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// VectorStore persists vectors and supports similarity search.
type VectorStore interface {
	Name() string
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Clear(ctx context.Context) error
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Prompt is a single-turn generation request.
type Prompt struct {
	System string
	User   string
}

// Generator produces text from a prompt using a language model.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) (string, error)
}
