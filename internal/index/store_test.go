package index

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/finreg-tools/corepqa/internal/document"
)

// fakeEmbedder maps exact texts to fixed vectors and counts calls.
type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

func testPassages() []document.Passage {
	return []document.Passage{
		{Text: "cet1 capital instruments", Source: "annex.pdf", Page: 1, Chunk: 0},
		{Text: "tier two subordinated loans", Source: "annex.pdf", Page: 2, Chunk: 1},
		{Text: "general reporting instructions", Source: "annex.pdf", Page: 3, Chunk: 2},
	}
}

func testEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		"cet1 capital instruments":       {1, 0, 0},
		"tier two subordinated loans":    {0, 1, 0},
		"general reporting instructions": {0.7, 0.7, 0},
		"what is cet1":                   {0.9, 0.1, 0},
	}}
}

func TestStore_RetrieveRanksBySimilarity(t *testing.T) {
	store := NewStore(testEmbedder(), 0)
	if err := store.Build(context.Background(), testPassages()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Retrieve(context.Background(), "what is cet1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	if got[0].Text != "cet1 capital instruments" {
		t.Errorf("expected closest passage first, got %q", got[0].Text)
	}
	if got[1].Text != "general reporting instructions" {
		t.Errorf("expected second closest, got %q", got[1].Text)
	}
}

func TestStore_RetrieveKLargerThanStore(t *testing.T) {
	store := NewStore(testEmbedder(), 0)
	if err := store.Build(context.Background(), testPassages()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Retrieve(context.Background(), "what is cet1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected all 3 passages, got %d", len(got))
	}
}

func TestStore_EmptyStoreReturnsNothing(t *testing.T) {
	store := NewStore(testEmbedder(), 0)

	got, err := store.Retrieve(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no passages from empty store, got %d", len(got))
	}
}

func TestStore_EmbedErrorPropagates(t *testing.T) {
	emb := testEmbedder()
	store := NewStore(emb, 0)
	if err := store.Build(context.Background(), testPassages()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	emb.err = errors.New("embedding service down")

	if _, err := store.Retrieve(context.Background(), "what is cet1", 2); err == nil {
		t.Fatal("expected error from failing embedder")
	}
}

func TestStore_QueryEmbeddingCached(t *testing.T) {
	emb := testEmbedder()
	store := NewStore(emb, time.Minute)
	if err := store.Build(context.Background(), testPassages()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buildCalls := emb.calls

	for i := 0; i < 3; i++ {
		if _, err := store.Retrieve(context.Background(), "what is cet1", 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := emb.calls - buildCalls; got != 1 {
		t.Errorf("expected 1 embed call for repeated query, got %d", got)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	emb := testEmbedder()
	store := NewStore(emb, 0)
	if err := store.Build(context.Background(), testPassages()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "index.json")
	if err := store.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := NewStore(emb, 0)
	if err := loaded.Load(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("expected 3 passages after load, got %d", loaded.Len())
	}

	got, err := loaded.Retrieve(context.Background(), "what is cet1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Text != "cet1 capital instruments" {
		t.Errorf("expected same ranking after reload, got %v", got)
	}
	if got[0].Page != 1 || got[0].Chunk != 0 {
		t.Errorf("expected provenance preserved, got %+v", got[0])
	}
}

func TestStore_LoadMissingFileFails(t *testing.T) {
	store := NewStore(testEmbedder(), 0)

	if err := store.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing index file")
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosine(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
