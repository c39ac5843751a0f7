//
// Copyright (c) 2019-2024 Markku Rossi
//
// All rights reserved.
//

// Package circuitfile loads the JSON circuit-description format of
// §6 into yao.Circuit values (component H). It plays the role the
// teacher's circuit.Parse dispatch plays for its native formats, but
// targets encoding/json since the wire format here is mandated JSON
// (see DESIGN.md for why no third-party circuit-description reader in
// the retrieved corpus fits).
package circuitfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/twoparty/yaogc/yao"
	"github.com/twoparty/yaogc/yaoerr"
)

// Document is the top-level JSON document: a named bundle of one or
// more circuits.
type Document struct {
	Name     string    `json:"name"`
	Circuits []Circuit `json:"circuits"`
}

// Circuit is the JSON form of one yao.Circuit.
type Circuit struct {
	ID    string `json:"id"`
	Alice []int  `json:"alice"`
	Bob   []int  `json:"bob"`
	Out   []int  `json:"out"`
	Gates []Gate `json:"gates"`
}

// Gate is the JSON form of one yao.Gate.
type Gate struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	In   []int  `json:"in"`
}

// Load reads and parses the circuit file at path, validating every
// circuit it contains.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", yaoerr.MalformedCircuit, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a circuit document from r and validates every circuit it
// contains, per §7's MalformedCircuit error kind.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", yaoerr.MalformedCircuit, err)
	}
	if len(doc.Circuits) == 0 {
		return nil, fmt.Errorf("%w: document %q has no circuits",
			yaoerr.MalformedCircuit, doc.Name)
	}
	for i := range doc.Circuits {
		if _, err := doc.Circuits[i].Circuit(); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// Circuit converts the JSON representation into a validated
// yao.Circuit.
func (c Circuit) Circuit() (*yao.Circuit, error) {
	gates := make([]yao.Gate, len(c.Gates))
	for i, g := range c.Gates {
		gates[i] = yao.Gate{ID: g.ID, Type: yao.GateType(g.Type), In: g.In}
	}
	circ := &yao.Circuit{
		ID:    c.ID,
		Alice: c.Alice,
		Bob:   c.Bob,
		Out:   c.Out,
		Gates: gates,
	}
	if err := circ.Validate(); err != nil {
		return nil, err
	}
	return circ, nil
}

// Find returns the named circuit from the document, converted and
// validated.
func (d *Document) Find(id string) (*yao.Circuit, error) {
	for _, c := range d.Circuits {
		if c.ID == id {
			return c.Circuit()
		}
	}
	return nil, fmt.Errorf("%w: no circuit named %q in document %q",
		yaoerr.MalformedCircuit, id, d.Name)
}
