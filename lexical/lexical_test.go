package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"built", "go", "services"}, Tokenize("Built Go  services"))
	assert.Empty(t, Tokenize("   "))
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		target    string
		want      float64
	}{
		{"Full", "go kubernetes grpc", "Go Kubernetes gRPC", 1.0},
		{"Half", "shipped go services", "go rust sql terraform", 0.25},
		{"None", "painted the office", "go rust", 0.0},
		{"EmptyTarget", "anything", "", 0.0},
		{"EmptyCandidate", "", "go rust", 0.0},
		{"DuplicatesCollapse", "go go go", "go rust", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Overlap(tt.candidate, tt.target), 1e-9)
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Led Kubernetes migration", "kubernetes"))
	assert.True(t, ContainsFold("used gRPC heavily", "GRPC"))
	assert.False(t, ContainsFold("plain text", "rust"))
	assert.False(t, ContainsFold("anything", ""))
}
