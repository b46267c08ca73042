// Package abi describes the contract's public surface: the JSON
// interface and the 4-byte call selectors the dispatcher matches on.
package abi

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/crest-lang/crest/compiler/analyze"
	"github.com/crest-lang/crest/compiler/ice"
	"github.com/crest-lang/crest/compiler/tp"
)

type (
	Entry struct {
		Type   string  `json:"type"`
		Name   string  `json:"name"`
		Inputs []Param `json:"inputs"`
	}

	Param struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
)

// Build collects the public functions of an analyzed contract.
func Build(n *analyze.Info) []Entry {
	var es []Entry

	for _, fn := range n.Contract.Funcs {
		if !fn.Pub {
			continue
		}

		e := Entry{
			Type:   "function",
			Name:   fn.Name,
			Inputs: []Param{},
		}

		for _, p := range n.Params[fn] {
			e.Inputs = append(e.Inputs, Param{
				Name: p.Name,
				Type: TypeName(p.Type),
			})
		}

		es = append(es, e)
	}

	return es
}

func JSON(n *analyze.Info) ([]byte, error) {
	return json.MarshalIndent(Build(n), "", "  ")
}

// Signature is the canonical signature the selector is derived from,
// e.g. "transfer(address,uint256)".
func Signature(name string, params []analyze.Param) string {
	var b strings.Builder

	b.WriteString(name)
	b.WriteByte('(')

	for i, p := range params {
		if i != 0 {
			b.WriteByte(',')
		}

		b.WriteString(TypeName(p.Type))
	}

	b.WriteByte(')')

	return b.String()
}

// Selector is the first four bytes of keccak256 of the signature,
// as a hex literal.
func Selector(name string, params []analyze.Param) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(Signature(name, params)))

	sum := h.Sum(nil)

	return fmt.Sprintf("0x%02x%02x%02x%02x", sum[0], sum[1], sum[2], sum[3])
}

// TypeName maps a source type to its external ABI name.
func TypeName(t tp.Type) string {
	b, ok := t.(tp.Base)
	if !ok {
		ice.Bug("no abi name for %v", t)
	}

	switch b.Name {
	case "bool", "address":
		return b.Name
	default:
		return fmt.Sprintf("uint%d", b.Bytes*8)
	}
}
