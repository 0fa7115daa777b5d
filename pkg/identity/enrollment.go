// Package identity verifies the session user against enrolled face
// embeddings using hysteresis-confirmed distance matching.
package identity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Saurabh-Shisode/proctoring-v0/pkg/storage"
)

// Embedding is a fixed-length face descriptor vector, compared by
// Euclidean distance against enrolled references.
type Embedding []float64

// ErrInconsistentLengths is returned when enrolled vectors do not all
// share one length.
var ErrInconsistentLengths = errors.New("enrolled embeddings have inconsistent lengths")

// LoadEnrollment reads the enrolled embedding set from a store. The data
// is a JSON array of numeric vectors. An absent or empty store yields an
// empty set and no error; the verifier is simply inert without
// enrollment. Malformed JSON is an error for the caller to log.
func LoadEnrollment(store storage.Store) ([]Embedding, error) {
	data, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var vectors []Embedding
	if err := json.Unmarshal(data, &vectors); err != nil {
		return nil, fmt.Errorf("parse enrollment: %w", err)
	}

	for _, v := range vectors {
		if len(v) != len(vectors[0]) {
			return nil, ErrInconsistentLengths
		}
	}

	return vectors, nil
}
