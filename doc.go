// Package alignvec provides an embedded retrieval-augmented decision
// engine for Go.
//
// Alignvec pairs an exact cosine-similarity vector index with an
// alignment classifier: candidate statements are scored against a
// target description and a corpus of supporting material, then sorted
// into keep / rewrite / de-emphasize buckets.
//
// # Quick Start
//
//	ctx := context.Background()
//	av, _ := alignvec.New(384)
//
//	_ = av.Add(ctx, vectors, metas)
//	av.SetTarget("target description", targetVec)
//
//	analysis, _ := av.Classify(ctx, align.Candidate{
//	    Text:   "Built streaming pipelines with Kafka",
//	    Vector: candidateVec,
//	}, nil)
//	fmt.Println(analysis.Decision, analysis.Reasoning)
//
// Batch classification and an aggregate fit score:
//
//	analyses, _ := av.ClassifyAll(ctx, candidates, hints)
//	score := av.AggregateScore(analyses)
//
// # Persistence
//
// Snapshots are written through a BlobStore, so the same code persists
// to local disk, memory, S3 or MinIO:
//
//	store := blobstore.NewLocalStore("./data")
//	_ = av.Save(ctx, store, "corpus")
//	av, _ = alignvec.Open(ctx, store, "corpus")
//
// # Key Features
//
//   - Exact cosine nearest-neighbor search over L2-normalized vectors
//   - Weighted multi-signal classification with explainable reasoning
//   - Section filtering backed by Roaring Bitmaps
//   - Pluggable snapshot codecs and compression (zstd, lz4)
//   - Cloud-native storage (S3/MinIO via BlobStore) with versioned commits
package alignvec
