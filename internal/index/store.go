// Package index holds the passage store: an embedding-backed
// nearest-passage retriever with JSON persistence.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/finreg-tools/corepqa/internal/document"
)

// Retriever is the pipeline's view of the passage store.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]document.Passage, error)
}

// Store keeps passages and their vectors in memory and answers top-k
// cosine-similarity queries. Read-only after Build/Load, so concurrent
// queries need no locking beyond the embed cache.
type Store struct {
	mu       sync.RWMutex
	passages []document.Passage
	vectors  [][]float32

	embedder Embedder
	qcache   *gocache.Cache // query text -> []float32
}

// NewStore creates an empty store backed by the given embedder. Query
// embeddings are memoized for queryTTL (no memoization when <= 0).
func NewStore(embedder Embedder, queryTTL time.Duration) *Store {
	s := &Store{embedder: embedder}
	if queryTTL > 0 {
		s.qcache = gocache.New(queryTTL, 2*queryTTL)
	}
	return s
}

// Len reports the number of indexed passages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages)
}

// Build embeds and indexes the passages, replacing any existing content.
func (s *Store) Build(ctx context.Context, passages []document.Passage) error {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed passages: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.passages = append([]document.Passage(nil), passages...)
	s.vectors = vectors
	return nil
}

// Retrieve returns the k most similar passages in descending similarity
// order. An empty store yields an empty result, not an error: empty
// context is a legal, if degenerate, retrieval.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]document.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.passages) == 0 || k <= 0 {
		return nil, nil
	}

	qvec, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(s.vectors))
	for i, v := range s.vectors {
		scores[i] = scored{idx: i, score: cosine(qvec, v)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if k > len(scores) {
		k = len(scores)
	}
	result := make([]document.Passage, 0, k)
	for _, sc := range scores[:k] {
		result = append(result, s.passages[sc.idx])
	}
	return result, nil
}

func (s *Store) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.qcache != nil {
		if v, ok := s.qcache.Get(query); ok {
			return v.([]float32), nil
		}
	}
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(vectors))
	}
	if s.qcache != nil {
		s.qcache.SetDefault(query, vectors[0])
	}
	return vectors[0], nil
}

func cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// indexFile is the on-disk snapshot format.
type indexFile struct {
	Passages []document.Passage `json:"passages"`
	Vectors  [][]float32        `json:"vectors"`
}

// Save writes the index snapshot to path.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	snap := indexFile{Passages: s.passages, Vectors: s.vectors}
	s.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}

// Load replaces the store's content with the snapshot at path.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}
	var snap indexFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}
	if len(snap.Passages) != len(snap.Vectors) {
		return fmt.Errorf("index corrupt: %d passages, %d vectors", len(snap.Passages), len(snap.Vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.passages = snap.Passages
	s.vectors = snap.Vectors
	return nil
}
