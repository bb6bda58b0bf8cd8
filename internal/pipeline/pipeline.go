// Package pipeline runs one question through retrieval, extraction, and
// validation. Each request builds its own rule lookup and record; the only
// shared state is the read-only passage index and the answer cache.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/finreg-tools/corepqa/internal/corep"
	"github.com/finreg-tools/corepqa/internal/extract"
	"github.com/finreg-tools/corepqa/internal/index"
	"github.com/finreg-tools/corepqa/internal/rules"
)

// Result is the validated outcome of one question.
type Result struct {
	Record  corep.Record
	RuleIDs []string // Rule ids of the retrieved set, in retrieval order
	Context string   // Assembled context handed to the model
}

// Pipeline wires the passage retriever and the completion client into the
// fixed extraction chain: retrieve, bind, prompt, complete, parse,
// normalize, enrich, validate.
type Pipeline struct {
	retriever index.Retriever
	completer extract.Completer
	k         int
	log       *slog.Logger
	cache     *gocache.Cache // question -> Result
}

// New builds a pipeline. Validated results are memoized per question for
// cacheTTL; a TTL <= 0 disables caching.
func New(retriever index.Retriever, completer extract.Completer, k int, cacheTTL time.Duration, log *slog.Logger) *Pipeline {
	if k <= 0 {
		k = 5
	}
	p := &Pipeline{
		retriever: retriever,
		completer: completer,
		k:         k,
		log:       log,
	}
	if cacheTTL > 0 {
		p.cache = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return p
}

// Run answers one question. Retrieval and completion failures are returned
// as errors; everything after the completion call degrades in place and
// always yields a validated record.
func (p *Pipeline) Run(ctx context.Context, question string) (Result, error) {
	if p.cache != nil {
		if v, ok := p.cache.Get(question); ok {
			return v.(Result), nil
		}
	}

	passages, err := p.retriever.Retrieve(ctx, question, p.k)
	if err != nil {
		return Result{}, fmt.Errorf("retrieve passages: %w", err)
	}

	lookup, ruleIDs, contextBlob := rules.Bind(passages)
	prompt := extract.BuildPrompt(contextBlob, question)

	start := time.Now()
	raw, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("complete extraction: %w", err)
	}

	rec := extract.ParseResponse(raw)
	rec = corep.Normalize(rec, question)
	rec = corep.Enrich(rec, lookup)
	rec = corep.Validate(rec, ruleIDs)

	result := Result{
		Record:  rec,
		RuleIDs: ruleIDs,
		Context: contextBlob,
	}
	if p.cache != nil {
		p.cache.SetDefault(question, result)
	}

	p.log.Info("question answered",
		"passages", len(passages),
		"warnings", len(rec.Warnings),
		"conceptual", rec.Conceptual(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
