package corpus

import (
	"math"
	"sort"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
// Returns 0 if either vector has zero magnitude or lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, magA, magB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(magA) * math.Sqrt(magB))
}

// StoredVector holds an embedding vector with the row id of the item it
// belongs to. Row ids are autoincremented, so ascending id equals
// insertion order.
type StoredVector struct {
	rowID     int64
	embedding []float64
}

// NewStoredVector creates a new StoredVector.
func NewStoredVector(rowID int64, embedding []float64) StoredVector {
	vec := make([]float64, len(embedding))
	copy(vec, embedding)
	return StoredVector{rowID: rowID, embedding: vec}
}

// RowID returns the item row id.
func (v StoredVector) RowID() int64 { return v.rowID }

// SimilarityMatch holds a row id and its similarity score.
type SimilarityMatch struct {
	rowID      int64
	similarity float64
}

// RowID returns the matched item row id.
func (m SimilarityMatch) RowID() int64 { return m.rowID }

// Similarity returns the similarity score.
func (m SimilarityMatch) Similarity() float64 { return m.similarity }

// TopKSimilar finds the top-k most similar vectors to the query, ranked
// descending by similarity. Ties are broken by ascending row id, i.e.
// insertion order, which keeps retrieval deterministic.
func TopKSimilar(query []float64, vectors []StoredVector, k int) []SimilarityMatch {
	if len(vectors) == 0 || k <= 0 {
		return []SimilarityMatch{}
	}

	matches := make([]SimilarityMatch, 0, len(vectors))
	for _, v := range vectors {
		matches = append(matches, SimilarityMatch{
			rowID:      v.rowID,
			similarity: CosineSimilarity(query, v.embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].similarity != matches[j].similarity {
			return matches[i].similarity > matches[j].similarity
		}
		return matches[i].rowID < matches[j].rowID
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
