// Package align scores candidate statements against a target description
// backed by a corpus of supporting evidence in a vector index.
//
// The engine combines four signals per candidate — semantic similarity to
// the target, lexical overlap with the target text, presence of supporting
// evidence in the corpus, and externally supplied profile alignment — into
// a weighted score, and buckets each candidate into KEEP, REWRITE or
// DE_EMPHASIZE.
package align

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/alignvec/distance"
	"github.com/hupe1980/alignvec/index"
	"github.com/hupe1980/alignvec/lexical"
)

// Signal weights for the classification combined score.
const (
	weightSimilarity = 0.40
	weightLexical    = 0.25
	weightEvidence   = 0.20
	weightAlignment  = 0.15
)

// Evidence contributes a fixed high or low value depending on presence,
// rather than its actual scores.
const (
	evidencePresent = 0.8
	evidenceAbsent  = 0.2
)

// Options contains configuration options for the engine.
type Options struct {
	// SimilarityThreshold gates which corpus entries count as evidence.
	SimilarityThreshold float64

	// RewriteThreshold is the minimum combined score to avoid
	// DE_EMPHASIZE.
	RewriteThreshold float64

	// KeepThreshold is the minimum combined score and minimum description
	// similarity to qualify for KEEP.
	KeepThreshold float64

	// EvidencePool is the top-k pool size for evidence lookups. Evidence
	// filtering is bounded by this pool, not a full corpus scan.
	EvidencePool int

	// Parallelism caps concurrent classifications in ClassifyAll.
	// Defaults to GOMAXPROCS.
	Parallelism int
}

// DefaultOptions contains the default configuration options for the engine.
var DefaultOptions = Options{
	SimilarityThreshold: 0.6,
	RewriteThreshold:    0.4,
	KeepThreshold:       0.75,
	EvidencePool:        5,
	Parallelism:         0,
}

// maxEvidenceReturned bounds the evidence entries attached to an Analysis.
const maxEvidenceReturned = 3

// Engine classifies candidates against one target description.
//
// Multiple engines with independent targets may share the same index; the
// engine only reads it. SetTarget is not safe concurrently with Classify.
type Engine struct {
	idx  *index.Index
	opts Options

	targetText string
	targetVec  []float32
}

// New creates a new engine reading evidence from idx.
func New(idx *index.Index, optFns ...func(o *Options)) (*Engine, error) {
	if idx == nil {
		return nil, errors.New("align: index is nil")
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.EvidencePool <= 0 {
		opts.EvidencePool = DefaultOptions.EvidencePool
	}

	return &Engine{idx: idx, opts: opts}, nil
}

// SetTarget replaces the target description. Both the raw text (for the
// lexical signal) and its embedding (for the similarity signal) are
// stored; previous targets are fully discarded. Until a target is set,
// description similarity and lexical overlap are 0 for every candidate.
func (e *Engine) SetTarget(text string, vector []float32) {
	e.targetText = text
	if normalized, ok := distance.NormalizeL2Copy(vector); ok {
		e.targetVec = normalized
	} else {
		e.targetVec = nil
	}
}

// Classify evaluates one candidate. Missing optional inputs (no target,
// no hints, no evidence) degrade to their zero signals and still produce
// a well-formed Analysis; the only error is a malformed candidate vector.
func (e *Engine) Classify(candidate Candidate, hints *Hints) (*Analysis, error) {
	var signals Signals

	queryVec := candidate.Vector
	if normalized, ok := distance.NormalizeL2Copy(candidate.Vector); ok {
		queryVec = normalized
	}

	if e.targetVec != nil {
		if len(queryVec) != len(e.targetVec) {
			return nil, &index.ErrDimensionMismatch{Expected: len(e.targetVec), Actual: len(queryVec)}
		}
		signals.DescriptionSimilarity = distance.Cosine(e.targetVec, queryVec)
	}

	evidence, err := e.idx.SearchAboveThreshold(queryVec, e.opts.SimilarityThreshold, e.opts.EvidencePool)
	if err != nil {
		return nil, err
	}
	signals.HasEvidence = len(evidence) > 0
	if len(evidence) > maxEvidenceReturned {
		evidence = evidence[:maxEvidenceReturned]
	}

	signals.LexicalOverlap = lexical.Overlap(candidate.Text, e.targetText)

	e.applyHints(&signals, candidate.Text, hints)

	evidenceValue := evidenceAbsent
	if signals.HasEvidence {
		evidenceValue = evidencePresent
	}
	combined := weightSimilarity*signals.DescriptionSimilarity +
		weightLexical*signals.LexicalOverlap +
		weightEvidence*evidenceValue +
		weightAlignment*signals.ProfileAlignment

	decision := e.decide(signals, combined)

	return &Analysis{
		Candidate: candidate,
		Signals:   signals,
		Combined:  combined,
		Decision:  decision,
		Evidence:  evidence,
		Reasoning: reasoning(signals, decision),
	}, nil
}

// applyHints folds external match analysis into the signal bundle.
//
// Matched skills are scanned in their given order and the first name found
// in the candidate text wins outright. Only when no skill matches do
// recommendations apply.
func (e *Engine) applyHints(signals *Signals, text string, hints *Hints) {
	if hints == nil {
		return
	}

	for _, skill := range hints.MatchedSkills {
		if lexical.ContainsFold(text, skill.Name) {
			signals.ProfileAlignment = 0.8
			signals.ShouldEmphasize = true
			return
		}
	}

	for _, rec := range hints.Recommendations {
		if !lexical.ContainsFold(text, rec.Topic) {
			continue
		}
		switch rec.Action {
		case ActionEmphasize:
			signals.ShouldEmphasize = true
			signals.ProfileAlignment = math.Max(signals.ProfileAlignment, 0.7)
		case ActionAdd:
			signals.ShouldAdd = true
		}
	}
}

// decide applies the decision policy in strict priority order.
func (e *Engine) decide(signals Signals, combined float64) Decision {
	// Profile strengths with corpus backing take priority over the plain
	// combined-score buckets.
	if signals.ShouldEmphasize && signals.HasEvidence {
		if signals.DescriptionSimilarity >= e.opts.KeepThreshold*0.9 {
			return DecisionKeep
		}
		return DecisionRewrite
	}

	if combined >= e.opts.KeepThreshold && signals.DescriptionSimilarity >= e.opts.KeepThreshold {
		return DecisionKeep
	}
	if combined >= e.opts.RewriteThreshold {
		return DecisionRewrite
	}
	return DecisionDeEmphasize
}

func reasoning(signals Signals, decision Decision) string {
	var reasons []string

	switch sim := signals.DescriptionSimilarity; {
	case sim >= 0.7:
		reasons = append(reasons, fmt.Sprintf("High target similarity (%.2f)", sim))
	case sim >= 0.5:
		reasons = append(reasons, fmt.Sprintf("Moderate target similarity (%.2f)", sim))
	default:
		reasons = append(reasons, fmt.Sprintf("Low target similarity (%.2f)", sim))
	}

	if signals.HasEvidence {
		reasons = append(reasons, "Has supporting evidence in corpus")
	} else {
		reasons = append(reasons, "Limited evidence in corpus")
	}

	if signals.LexicalOverlap >= 0.3 {
		reasons = append(reasons, fmt.Sprintf("Good keyword overlap (%.2f)", signals.LexicalOverlap))
	}
	if signals.ProfileAlignment >= 0.7 {
		reasons = append(reasons, fmt.Sprintf("Strong profile alignment (%.2f)", signals.ProfileAlignment))
	}

	return fmt.Sprintf("Decision: %s because %s", decision, strings.Join(reasons, "; "))
}

// ClassifyAll classifies every candidate independently and returns results
// in input order. Candidates share no mutable state, so classification
// fans out across a bounded worker group.
func (e *Engine) ClassifyAll(ctx context.Context, candidates []Candidate, hints *Hints) ([]*Analysis, error) {
	results := make([]*Analysis, len(candidates))

	g, _ := errgroup.WithContext(ctx)
	limit := e.opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, candidate := range candidates {
		g.Go(func() error {
			analysis, err := e.Classify(candidate, hints)
			if err != nil {
				return err
			}
			results[i] = analysis
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Aggregation weights each analysis by its decision and uses its own
// per-item score formula. The aggregation formula deliberately differs
// from the classification combined score (different weights, no profile
// alignment term); the two have always been separate and are kept so.
const (
	aggWeightSimilarity = 0.5
	aggWeightLexical    = 0.3
	aggWeightEvidence   = 0.2
)

func decisionWeight(d Decision) float64 {
	switch d {
	case DecisionKeep:
		return 1.0
	case DecisionRewrite:
		return 0.6
	case DecisionDeEmphasize:
		return 0.2
	default:
		return 0.5
	}
}

// AggregateScore summarizes how well a set of classified candidates
// collectively matches the target, as a 0-100 figure rounded to two
// decimal places. An empty input yields exactly 0.
func (e *Engine) AggregateScore(analyses []*Analysis) float64 {
	if len(analyses) == 0 {
		return 0.0
	}

	var totalScore, totalWeight float64
	for _, a := range analyses {
		evidenceValue := evidenceAbsent
		if a.Signals.HasEvidence {
			evidenceValue = evidencePresent
		}
		score := aggWeightSimilarity*a.Signals.DescriptionSimilarity +
			aggWeightLexical*a.Signals.LexicalOverlap +
			aggWeightEvidence*evidenceValue

		weight := decisionWeight(a.Decision)
		totalScore += score * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.0
	}
	return math.Round(totalScore/totalWeight*100*100) / 100
}
