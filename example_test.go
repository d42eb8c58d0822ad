package alignvec_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/alignvec"
	"github.com/hupe1980/alignvec/align"
	"github.com/hupe1980/alignvec/blobstore"
	"github.com/hupe1980/alignvec/metadata"
)

// Example_classify demonstrates classifying a candidate statement against
// a target description and a supporting corpus.
func Example_classify() {
	ctx := context.Background()

	av, err := alignvec.New(3)
	if err != nil {
		log.Fatal(err)
	}

	// Corpus of supporting material. Vectors come from an embedding
	// model in real use; unit vectors keep the example self-contained.
	err = av.Add(ctx,
		[][]float32{{0.95, 0.3122499, 0}},
		[]metadata.Metadata{{metadata.TextKey: "Designed Go microservices on Kubernetes"}},
	)
	if err != nil {
		log.Fatal(err)
	}

	av.SetTarget("Designed Go microservices on Kubernetes", []float32{1, 0, 0})

	analysis, err := av.Classify(ctx, align.Candidate{
		Text:   "Designed Go microservices on Kubernetes",
		Vector: []float32{0.95, 0.3122499, 0},
	}, nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(analysis.Decision)
	// Output: KEEP
}

// Example_search demonstrates nearest-neighbor search over the corpus.
func Example_search() {
	ctx := context.Background()

	av, _ := alignvec.New(3)
	_ = av.Add(ctx,
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0.7, 0.7, 0}},
		[]metadata.Metadata{
			{metadata.TextKey: "doc-1"},
			{metadata.TextKey: "doc-2"},
			{metadata.TextKey: "doc-3"},
		},
	)

	results, err := av.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		fmt.Println(r.Entry.Meta.Text())
	}
	// Output:
	// doc-1
	// doc-3
}

// Example_saveAndOpen demonstrates snapshot persistence through a BlobStore.
func Example_saveAndOpen() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	av, _ := alignvec.New(3)
	_ = av.Add(ctx,
		[][]float32{{1, 0, 0}},
		[]metadata.Metadata{{metadata.TextKey: "doc-1"}},
	)

	if err := av.Save(ctx, store, "corpus"); err != nil {
		log.Fatal(err)
	}

	reopened, err := alignvec.Open(ctx, store, "corpus")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("reopened %d entries, dimension %d\n", reopened.Len(), reopened.Dimension())
	// Output: reopened 1 entries, dimension 3
}
