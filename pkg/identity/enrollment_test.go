package identity

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Saurabh-Shisode/proctoring-v0/pkg/storage"
)

func writeEnrollment(t *testing.T, content string) storage.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enrolled_faces.json")
	store := storage.NewJSONStore(path)
	if err := store.Save([]byte(content)); err != nil {
		t.Fatalf("save enrollment: %v", err)
	}
	return store
}

func TestLoadEnrollment(t *testing.T) {
	store := writeEnrollment(t, `[[0.1, 0.2, 0.3], [0.4, 0.5, 0.6]]`)

	vectors, err := LoadEnrollment(store)
	if err != nil {
		t.Fatalf("LoadEnrollment: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("vectors: got %d, want 2", len(vectors))
	}
	if vectors[0][1] != 0.2 {
		t.Errorf("vectors[0][1]: got %v, want 0.2", vectors[0][1])
	}
}

func TestLoadEnrollment_AbsentFileIsEmpty(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))

	vectors, err := LoadEnrollment(store)
	if err != nil {
		t.Fatalf("absent file must not error: %v", err)
	}
	if vectors != nil {
		t.Errorf("vectors: got %v, want nil", vectors)
	}
}

func TestLoadEnrollment_MalformedJSON(t *testing.T) {
	store := writeEnrollment(t, `{"not": "an array"`)

	if _, err := LoadEnrollment(store); err == nil {
		t.Fatal("malformed JSON must error")
	}
}

func TestLoadEnrollment_InconsistentLengths(t *testing.T) {
	store := writeEnrollment(t, `[[0.1, 0.2], [0.3]]`)

	_, err := LoadEnrollment(store)
	if !errors.Is(err, ErrInconsistentLengths) {
		t.Fatalf("got %v, want ErrInconsistentLengths", err)
	}
}
