// Package storage holds helpers shared by the vector index backends in its
// subpackages. It must not import them.
package storage

import (
	"math"
	"sort"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. Vectors of different length or zero norm score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// RankByCosine scores entries against the query and returns the k best,
// most similar first. Ties keep the entries' input order.
func RankByCosine(query []float32, entries []domain.IndexEntry, k int) []driven.VectorHit {
	if k <= 0 || len(entries) == 0 {
		return []driven.VectorHit{}
	}

	hits := make([]driven.VectorHit, 0, len(entries))
	for _, e := range entries {
		score := CosineSimilarity(query, e.Embedding)
		if math.IsNaN(score) {
			continue
		}
		hits = append(hits, driven.VectorHit{Entry: e, Similarity: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
