package registry

import (
	"context"
	"strings"
	"testing"
)

func TestInstructions_FullDocumentWhenNoVersion(t *testing.T) {
	dir := t.TempDir()
	writeExpert(t, dir, "py.md", "# Role\nYou are a Python expert.\n")
	writeExpert(t, dir, "sql.md", "# Role\nYou write window functions.\n")

	r := testRegistry(t, dir)
	doc, err := r.Instructions(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(doc, "**py**: You are a Python expert.") {
		t.Fatalf("missing py listing:\n%s", doc)
	}
	if !strings.Contains(doc, "**sql**: You write window functions.") {
		t.Fatalf("missing sql listing:\n%s", doc)
	}

	v, err := r.Version(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc, "Instructions version: "+v.Fingerprint) {
		t.Fatalf("missing embedded fingerprint:\n%s", doc)
	}
}

func TestInstructions_UpToDateNotice(t *testing.T) {
	dir := t.TempDir()
	writeExpert(t, dir, "py.md", "# Role\nYou are a Python expert.\n")

	r := testRegistry(t, dir)
	v, err := r.Version(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	doc, err := r.Instructions(context.Background(), v.Fingerprint)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc, "up to date") {
		t.Fatalf("expected up-to-date notice:\n%s", doc)
	}
	if strings.Contains(doc, "**py**") {
		t.Fatalf("notice must not contain the per-expert listing:\n%s", doc)
	}
}

func TestInstructions_StaleVersionGetsFullDocument(t *testing.T) {
	dir := t.TempDir()
	writeExpert(t, dir, "py.md", "# Role\nYou are a Python expert.\n")

	r := testRegistry(t, dir)
	doc, err := r.Instructions(context.Background(), "oldhash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc, "stale") {
		t.Fatalf("expected staleness flag:\n%s", doc)
	}
	if !strings.Contains(doc, "**py**: You are a Python expert.") {
		t.Fatalf("stale caller must get the full listing:\n%s", doc)
	}
}

func TestInstructions_EmptyCollection(t *testing.T) {
	r := testRegistry(t, t.TempDir())
	doc, err := r.Instructions(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc, "No experts are currently loaded") {
		t.Fatalf("expected empty-collection notice:\n%s", doc)
	}
}

func TestInstructions_Pure(t *testing.T) {
	dir := t.TempDir()
	writeExpert(t, dir, "py.md", "# Role\nYou are a Python expert.\n")

	r := testRegistry(t, dir)
	first, err := r.Instructions(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Instructions(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("identical inputs must render identical documents")
	}
}
