package abi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crest-lang/crest/compiler/analyze"
	"github.com/crest-lang/crest/compiler/ast"
	"github.com/crest-lang/crest/compiler/tp"
)

func TestSignature(t *testing.T) {
	assert.Equal(t, "set(uint256)", Signature("set", []analyze.Param{
		{Name: "x", Type: tp.U256},
	}))

	assert.Equal(t, "transfer(address,uint256)", Signature("transfer", []analyze.Param{
		{Name: "to", Type: tp.Address},
		{Name: "amount", Type: tp.U256},
	}))

	assert.Equal(t, "get()", Signature("get", nil))
}

// Known selectors, cross-checked against solc output.
func TestSelector(t *testing.T) {
	assert.Equal(t, "0x60fe47b1", Selector("set", []analyze.Param{
		{Name: "x", Type: tp.U256},
	}))

	assert.Equal(t, "0xa9059cbb", Selector("transfer", []analyze.Param{
		{Name: "to", Type: tp.Address},
		{Name: "amount", Type: tp.U256},
	}))

	assert.Equal(t, "0x6d4ce63c", Selector("get", nil))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "uint256", TypeName(tp.U256))
	assert.Equal(t, "uint8", TypeName(tp.U8))
	assert.Equal(t, "bool", TypeName(tp.Bool))
	assert.Equal(t, "address", TypeName(tp.Address))

	assert.Panics(t, func() {
		TypeName(&tp.Struct{Name: "Pair"})
	}, "aggregates have no external name")
}

func TestBuild(t *testing.T) {
	set := &ast.Func{Name: "set", Pub: true}
	helper := &ast.Func{Name: "helper"}

	n := analyze.NewInfo()
	n.Contract = &ast.Contract{
		Name:  "Counter",
		Funcs: []*ast.Func{set, helper},
	}
	n.Params[set] = []analyze.Param{{Name: "x", Type: tp.U256}}

	es := Build(n)
	require.Len(t, es, 1, "private functions are not part of the interface")

	assert.Equal(t, Entry{
		Type: "function",
		Name: "set",
		Inputs: []Param{
			{Name: "x", Type: "uint256"},
		},
	}, es[0])

	data, err := JSON(n)
	require.NoError(t, err)

	var back []Entry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, es, back)
}
