// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/arXiv/arxiv-references/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Path: filepath.Join(t.TempDir(), "db", "references.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func result(document string, titles ...string) types.MergeResult {
	r := types.MergeResult{Document: document, Score: 0.75}
	for i, title := range titles {
		r.References = append(r.References, types.ArbitratedRecord{
			Reference: types.Reference{
				Title:   types.Str(title),
				Year:    types.Str("2011"),
				Authors: []types.Author{{GivenNames: "A", Surname: "Smith", FullName: "A Smith"}},
				Extra:   map[string]string{"foo": "bar"},
			},
			Score: 0.5 + float64(i)/10,
		})
	}
	return r
}

// --- tests ---

func TestSaveAndLatest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, result("1704.01689", "First", "Second"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("id %q is not a uuid: %v", id, err)
	}

	ext, err := s.Latest(ctx, "1704.01689")
	if err != nil {
		t.Fatal(err)
	}
	if ext.ID != id || ext.Version != 1 || ext.Document != "1704.01689" {
		t.Errorf("got extraction %s v%d for %s", ext.ID, ext.Version, ext.Document)
	}
	if ext.Created.IsZero() {
		t.Error("created time not set")
	}
	if ext.Result.Score != 0.75 {
		t.Errorf("score = %v, want 0.75", ext.Result.Score)
	}
	refs := ext.Result.References
	if len(refs) != 2 {
		t.Fatalf("got %d references, want 2", len(refs))
	}
	if *refs[0].Reference.Title != "First" || *refs[1].Reference.Title != "Second" {
		t.Errorf("references out of order: %q, %q", *refs[0].Reference.Title, *refs[1].Reference.Title)
	}
	if refs[1].Score != 0.6 {
		t.Errorf("reference score = %v, want 0.6", refs[1].Score)
	}
	if refs[0].Reference.Extra["foo"] != "bar" {
		t.Errorf("extra field lost: %v", refs[0].Reference.Extra)
	}
	if len(refs[0].Reference.Authors) != 1 || refs[0].Reference.Authors[0].Surname != "Smith" {
		t.Errorf("authors = %+v", refs[0].Reference.Authors)
	}
}

func TestSaveCreatesNewVersion(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, result("doc", "Old")); err != nil {
		t.Fatal(err)
	}
	id, err := s.Save(ctx, result("doc", "New"))
	if err != nil {
		t.Fatal(err)
	}

	ext, err := s.Latest(ctx, "doc")
	if err != nil {
		t.Fatal(err)
	}
	if ext.ID != id || ext.Version != 2 {
		t.Errorf("latest = %s v%d, want %s v2", ext.ID, ext.Version, id)
	}
	if *ext.Result.References[0].Reference.Title != "New" {
		t.Errorf("latest title = %q", *ext.Result.References[0].Reference.Title)
	}
}

func TestSaveEmptyResult(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, types.MergeResult{Document: "empty"}); err != nil {
		t.Fatal(err)
	}
	ext, err := s.Latest(ctx, "empty")
	if err != nil {
		t.Fatal(err)
	}
	if len(ext.Result.References) != 0 {
		t.Errorf("got %d references, want 0", len(ext.Result.References))
	}

	if _, err := s.Save(ctx, types.MergeResult{}); err == nil {
		t.Error("expected error saving a result without a document")
	}
}

func TestLatestNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.Latest(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDocuments(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, doc := range []string{"b", "a", "b"} {
		if _, err := s.Save(ctx, result(doc, "x")); err != nil {
			t.Fatal(err)
		}
	}
	docs, err := s.Documents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0] != "a" || docs[1] != "b" {
		t.Errorf("documents = %v, want [a b]", docs)
	}
}

func TestStoreImplementsSink(t *testing.T) {
	var _ interface {
		Save(context.Context, types.MergeResult) (string, error)
	} = testStore(t)
}
