package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// embeddingDims must match the vector column width in the meal_plans table.
const embeddingDims = 3

// GenerateEmbedding returns a small deterministic embedding for the given text.
// Words are hashed into embeddingDims buckets and the result is L2-normalised,
// so texts sharing meal names land close together.
func GenerateEmbedding(text string) pgvector.Vector {
	vec := make([]float32, embeddingDims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%embeddingDims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm == 0 {
		// A zero vector has no direction; keep a fixed point so the column is never empty.
		vec[0] = 1
		return pgvector.NewVector(vec)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return pgvector.NewVector(vec)
}
