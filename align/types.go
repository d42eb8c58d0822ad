package align

import (
	"fmt"

	"github.com/hupe1980/alignvec/index"
)

// Decision is the action the engine assigns to a candidate.
type Decision int

const (
	// DecisionKeep means the candidate already fits the target well.
	DecisionKeep Decision = iota
	// DecisionRewrite means the candidate is relevant but should be
	// reworded toward the target.
	DecisionRewrite
	// DecisionDeEmphasize means the candidate contributes little to the
	// target.
	DecisionDeEmphasize
)

func (d Decision) String() string {
	switch d {
	case DecisionKeep:
		return "KEEP"
	case DecisionRewrite:
		return "REWRITE"
	case DecisionDeEmphasize:
		return "DE_EMPHASIZE"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// Action tags an external recommendation.
//
// ActionAdd never becomes a Decision here: it flags a topic missing from
// the corpus entirely, which is handled outside the per-candidate
// classifier (the signal surfaces as Signals.ShouldAdd).
type Action int

const (
	ActionEmphasize Action = iota
	ActionAdd
	ActionRewrite
)

func (a Action) String() string {
	switch a {
	case ActionEmphasize:
		return "EMPHASIZE"
	case ActionAdd:
		return "ADD"
	case ActionRewrite:
		return "REWRITE"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// Candidate is the text item being evaluated: its content, an optional
// section tag and its embedding. It is a stateless input; the engine never
// retains it.
type Candidate struct {
	Text    string
	Section string
	Vector  []float32
}

// SkillMatch is an externally matched skill with its supporting evidence.
type SkillMatch struct {
	Name     string
	Evidence []string
}

// Recommendation is an externally produced suggestion about a topic.
type Recommendation struct {
	Action Action
	Topic  string
	Reason string
}

// Hints carries optional external match analysis. The matched-skill scan
// honors slice order: the first skill found in the candidate text wins.
type Hints struct {
	MatchedSkills   []SkillMatch
	Recommendations []Recommendation
}

// Signals is the per-candidate intermediate computation. Transient;
// recomputed on every Classify call and never persisted.
type Signals struct {
	// DescriptionSimilarity is the cosine similarity between candidate
	// and target vectors, clamped to [0,1]. 0 when no target is set.
	DescriptionSimilarity float64

	// LexicalOverlap is the share of the target's word set present in the
	// candidate, in [0,1].
	LexicalOverlap float64

	// HasEvidence reports whether the corpus holds at least one entry
	// similar to the candidate above the similarity threshold.
	HasEvidence bool

	// ProfileAlignment is derived from external hints, in [0,1].
	ProfileAlignment float64

	// ShouldEmphasize is set when hints mark the candidate as touching a
	// profile strength.
	ShouldEmphasize bool

	// ShouldAdd is informational only; it never changes the Decision.
	ShouldAdd bool
}

// Analysis is the result of classifying one candidate.
type Analysis struct {
	Candidate Candidate
	Signals   Signals
	Combined  float64
	Decision  Decision

	// Evidence holds the top supporting corpus entries (at most three).
	Evidence []index.Result

	Reasoning string
}
