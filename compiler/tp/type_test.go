package tp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizes(t *testing.T) {
	assert.Equal(t, 32, U256.Size())
	assert.Equal(t, 20, Address.Size())
	assert.Equal(t, 1, Bool.Size())

	pair := &Struct{Name: "Pair", Fields: []StructField{
		{Name: "a", Type: U256},
		{Name: "b", Type: Address},
	}}

	assert.Equal(t, 64, pair.Size(), "every field pads to a full word")

	assert.Equal(t, 320, Array{Elem: U8, Len: 10}.Size(), "elements pad to a full word")
	assert.Equal(t, WordSize, Map{Key: Address, Value: U256}.Size(), "a map occupies its root slot only")
}

func TestWordsPadded(t *testing.T) {
	assert.Equal(t, 1, Words(Address))
	assert.Equal(t, 32, Padded(Address))

	assert.Equal(t, 1, Words(U256))

	tri := &Struct{Name: "Triple", Fields: []StructField{
		{Name: "a", Type: U256},
		{Name: "b", Type: U256},
		{Name: "c", Type: U256},
	}}

	assert.Equal(t, 3, Words(tri))
	assert.Equal(t, 96, Padded(tri))
}

func TestScalar(t *testing.T) {
	assert.True(t, Scalar(U64))
	assert.True(t, Scalar(Address))

	assert.False(t, Scalar(&Struct{Name: "S"}))
	assert.False(t, Scalar(Array{Elem: U256, Len: 2}))
	assert.False(t, Scalar(Map{Key: U256, Value: U256}))
}

func TestField(t *testing.T) {
	pair := &Struct{Name: "Pair", Fields: []StructField{
		{Name: "a", Type: U256},
		{Name: "b", Type: U256},
	}}

	i, f, ok := pair.Field("b")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, "b", f.Name)

	_, _, ok = pair.Field("c")
	assert.False(t, ok)
}

func TestSame(t *testing.T) {
	assert.True(t, Same(U256, U256))
	assert.False(t, Same(U256, U128))

	a := &Struct{Name: "Pair", Fields: []StructField{{Name: "a", Type: U256}}}
	b := &Struct{Name: "Pair", Fields: []StructField{{Name: "a", Type: U256}}}

	assert.True(t, Same(a, a))
	assert.False(t, Same(a, b), "structs compare by identity")

	assert.True(t, Same(Array{Elem: U256, Len: 2}, Array{Elem: U256, Len: 2}))
	assert.False(t, Same(Array{Elem: U256, Len: 2}, Array{Elem: U256, Len: 3}))

	assert.True(t, Same(Map{Key: Address, Value: U256}, Map{Key: Address, Value: U256}))
}

func TestString(t *testing.T) {
	assert.Equal(t, "u256", U256.String())
	assert.Equal(t, "u8[4]", Array{Elem: U8, Len: 4}.String())
	assert.Equal(t, "map[address]u256", Map{Key: Address, Value: U256}.String())
}
