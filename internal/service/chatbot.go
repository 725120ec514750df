package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"docchat/internal/domain"
)

const systemPrompt = `Use the following pieces of information to answer the user's question.
If you don't know the answer, just say that you don't know, don't try to make up an answer.`

// ChatbotOptions configures retrieval for the chatbot manager.
type ChatbotOptions struct {
	TopK        int
	ShowSources bool
}

// ChatbotManager answers questions about the indexed document.
type ChatbotManager struct {
	backend   *Backend
	generator domain.Generator
	opts      ChatbotOptions
}

func NewChatbotManager(backend *Backend, generator domain.Generator, opts ChatbotOptions) *ChatbotManager {
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	return &ChatbotManager{backend: backend, generator: generator, opts: opts}
}

// GetResponse retrieves the passages closest to text and asks the generator
// to answer from them.
func (m *ChatbotManager) GetResponse(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}
	results, err := m.retrieve(ctx, text)
	if err != nil {
		return "", err
	}
	m.backend.logger().Debug("retrieved passages",
		zap.Int("count", len(results)),
		zap.String("generator", m.generator.Name()))

	answer, err := m.generator.Generate(ctx, BuildPrompt(text, results))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	if m.opts.ShowSources {
		if pages := sourcePages(results); pages != "" {
			answer += "\n\nSources: " + pages
		}
	}
	return answer, nil
}

func (m *ChatbotManager) retrieve(ctx context.Context, query string) ([]domain.SearchResult, error) {
	b := m.backend
	vec, err := b.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	// Zero vector: no query token is in the vocabulary
	if isZero(vec) {
		return m.lexicalSearch(query), nil
	}
	res, err := b.Store.Search(ctx, vec, m.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", b.Store.Name(), err)
	}
	for _, r := range res {
		if r.Score > 1e-9 {
			return res, nil
		}
	}
	return m.lexicalSearch(query), nil
}

// BuildPrompt renders the retrieval prompt for question over results.
func BuildPrompt(question string, results []domain.SearchResult) domain.Prompt {
	var sb strings.Builder
	sb.WriteString("Context:\n")
	if len(results) == 0 {
		sb.WriteString("(no relevant passages found)\n")
	}
	for i, r := range results {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, strings.TrimSpace(r.Chunk.Text))
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nOnly return the helpful answer below and nothing else.\nHelpful answer:")
	return domain.Prompt{System: systemPrompt, User: sb.String()}
}

func sourcePages(results []domain.SearchResult) string {
	seen := map[int]struct{}{}
	var pages []int
	for _, r := range results {
		p := r.Chunk.Page
		if p <= 0 {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pages = append(pages, p)
	}
	sort.Ints(pages)
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = "p. " + strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

var unicodeWordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// lexicalSearch ranks the indexed chunks by token overlap with query and
// drops chunks sharing no token with it.
func (m *ChatbotManager) lexicalSearch(query string) []domain.SearchResult {
	chunks := m.backend.indexedChunks()
	qset := toTokenSet(query)
	out := make([]domain.SearchResult, 0, len(chunks))
	for _, ch := range chunks {
		if score := overlapOchiai(qset, ch.Text); score > 0 {
			out = append(out, domain.SearchResult{Chunk: ch, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > m.opts.TopK {
		out = out[:m.opts.TopK]
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai is |A∩B| / sqrt(|A||B|) over the token sets.
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	seen := toTokenSet(text)
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	inter := 0
	for t := range seen {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(seen)))
}
