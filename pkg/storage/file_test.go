package storage

import (
	"os"
	"path/filepath"
	"testing"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	in := payload{Name: "ledger", Count: 3}
	if err := store.Save("betmate:predictions", in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out payload
	ok, err := store.Load("betmate:predictions", &out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Load reported key absent after Save")
	}
	if out != in {
		t.Errorf("Load = %+v, want %+v", out, in)
	}
}

func TestFileStoreAbsentKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	var out payload
	ok, err := store.Load("missing", &out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("Load reported a value for an absent key")
	}
}

func TestFileStoreCorruptPayload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out payload
	if _, err := store.Load("bad", &out); err == nil {
		t.Error("Load of corrupt payload returned no error")
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := store.Save("k", payload{Name: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var out payload
	if ok, _ := store.Load("k", &out); ok {
		t.Error("key still present after Delete")
	}

	// Deleting an absent key is a no-op.
	if err := store.Delete("k"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()

	if err := store.Save("k", payload{Name: "a", Count: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var out payload
	ok, err := store.Load("k", &out)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if out.Name != "a" || out.Count != 1 {
		t.Errorf("Load = %+v", out)
	}
}
