//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

package circuitfile

import (
	"errors"
	"testing"

	"github.com/twoparty/yaogc/yaoerr"
)

func TestLoadSeedCircuits(t *testing.T) {
	doc, err := Load("testdata/seeds.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Name != "seed circuits" {
		t.Fatalf("doc.Name = %q", doc.Name)
	}
	want := []string{"and", "xor", "not", "eq2", "full-adder"}
	for _, id := range want {
		c, err := doc.Find(id)
		if err != nil {
			t.Fatalf("Find(%q): %v", id, err)
		}
		if c.ID != id {
			t.Fatalf("circuit ID = %q, want %q", c.ID, id)
		}
	}
}

func TestLoadUnknownCircuit(t *testing.T) {
	doc, err := Load("testdata/seeds.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := doc.Find("nonexistent"); err == nil {
		t.Fatal("expected error for unknown circuit id")
	}
}

func TestLoadMalformedRejected(t *testing.T) {
	_, err := Load("testdata/malformed.json")
	if err == nil {
		t.Fatal("expected MalformedCircuit error")
	}
	if !errors.Is(err, yaoerr.MalformedCircuit) {
		t.Fatalf("got %v, want wrapping yaoerr.MalformedCircuit", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
