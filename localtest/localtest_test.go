//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

package localtest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/twoparty/yaogc/yao"
)

func andCircuit() *yao.Circuit {
	return &yao.Circuit{
		ID:    "and",
		Alice: []int{1},
		Bob:   []int{2},
		Out:   []int{3},
		Gates: []yao.Gate{{ID: 3, Type: yao.AND, In: []int{1, 2}}},
	}
}

func TestPrintTruthTableAND(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTruthTable(andCircuit(), &buf); err != nil {
		t.Fatalf("PrintTruthTable: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "a1") || !strings.Contains(out, "out3") {
		t.Fatalf("truth table output missing expected headers:\n%s", out)
	}
}

func TestPrintTablesAND(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTables(andCircuit(), &buf); err != nil {
		t.Fatalf("PrintTables: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "gate 3") || !strings.Contains(out, "row 0") {
		t.Fatalf("table dump missing expected content:\n%s", out)
	}
}

func TestEvalOnceMatchesPlain(t *testing.T) {
	c := andCircuit()
	for a := 0; a <= 1; a++ {
		for b := 0; b <= 1; b++ {
			assignment := map[int]int{1: a, 2: b}
			got, err := evalOnce(c, assignment)
			if err != nil {
				t.Fatalf("evalOnce: %v", err)
			}
			ref, err := c.EvalPlain(assignment)
			if err != nil {
				t.Fatalf("EvalPlain: %v", err)
			}
			if got[3] != ref[3] {
				t.Errorf("AND(%d,%d): garbled=%d plain=%d", a, b, got[3], ref[3])
			}
		}
	}
}
