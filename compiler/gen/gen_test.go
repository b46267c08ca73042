package gen

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crest-lang/crest/compiler/analyze"
	"github.com/crest-lang/crest/compiler/front"
)

func TestLetLowering(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		want string
	}{
		{"ScalarZero", "let y: u256 = 0", "let y := 0"},
		{"ScalarDefault", "let y: u256", "let y := 0"},
		{"ScalarCopy", "let y: u256 = x", "let y := x"},
		{"MemoryAlloc", "let m: Pair", "let m := alloc(64)"},
		{"ArrayAlloc", "let a: u256[4]", "let a := alloc(128)"},
		{"FromStorage", "let y: u256 = total", "let y := sloadn(0, 32)"},
		{"AggregateFromStorage", "let p: Pair = info", "let p := scopym(2, 64)"},
		{"FromMemory", "let m: Pair\nlet n: Pair = m", "let n := m"},
		{"ScalarFromMemory", "let a: u256[2]\nlet y: u256 = a[1]", "let y := mloadn(add(a, mul(1, 32)), 32)"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lowerLast(t, tc.body))
		})
	}
}

func TestStructAccessors(t *testing.T) {
	_, info := analyzeContract(t, "let m: Pair\nm.a = x")

	pair := info.Structs["Pair"]
	require.NotNil(t, pair)

	defs := structAccessors(pair)
	require.Len(t, defs, 4, "a read and a raw form per field")

	assert.Equal(t, "function struct_Pair_get_a(ptr) -> v {\n\tv := mloadn(ptr, 32)\n}\n",
		defs[0].String())
	assert.Equal(t, "function struct_Pair_get_a_raw(ptr) -> v {\n\tv := ptr\n}\n",
		defs[1].String())
	assert.Equal(t, "function struct_Pair_get_b(ptr) -> v {\n\tv := mloadn(add(ptr, 32), 32)\n}\n",
		defs[2].String())
	assert.Equal(t, "function struct_Pair_get_b_raw(ptr) -> v {\n\tv := add(ptr, 32)\n}\n",
		defs[3].String())
}

func analyzeContract(t *testing.T, body string) (*Gen, *analyze.Info) {
	t.Helper()

	ctx := context.Background()

	st := front.New()
	st.AddFile(ctx, "test.crs", []byte(fmt.Sprintf(contractSrc, body)))

	f, err := st.Parse(ctx)
	require.NoError(t, err)

	info, err := analyze.Analyze(ctx, f)
	require.NoError(t, err)

	return New(info), info
}

func TestObject(t *testing.T) {
	ctx := context.Background()

	st := front.New()
	st.AddFile(ctx, "counter.crs", []byte(`
contract Counter {
	storage {
		total: u256
	}

	pub fn set(x: u256) {
		total = x
	}
}
`))

	f, err := st.Parse(ctx)
	require.NoError(t, err)

	info, err := analyze.Analyze(ctx, f)
	require.NoError(t, err)

	b, err := New(info).Object(ctx, nil)
	require.NoError(t, err)

	text := string(b)

	assert.Contains(t, text, `object "Counter" {`)
	assert.Contains(t, text, `object "runtime" {`)
	assert.Contains(t, text, "switch shr(224, calldataload(0))")
	assert.Contains(t, text, "case 0x60fe47b1 {")
	assert.Contains(t, text, "fn_set(calldataload(4))")
	assert.Contains(t, text, "function fn_set(x) {")
	assert.Contains(t, text, "sstoren(0, 32, x)")
	assert.Contains(t, text, "function sstoren(s, n, v) {")
	assert.Contains(t, text, "function map_value_ptr(s, k) -> p {")
	assert.Contains(t, text, "revert(0, 0)")
}

func TestDispatchPrivateExcluded(t *testing.T) {
	ctx := context.Background()

	st := front.New()
	st.AddFile(ctx, "c.crs", []byte(`
contract C {
	storage {
		total: u256
	}

	pub fn set(x: u256) {
		total = x
	}

	fn internal_reset() {
		total = 0
	}
}
`))

	f, err := st.Parse(ctx)
	require.NoError(t, err)

	info, err := analyze.Analyze(ctx, f)
	require.NoError(t, err)

	g := New(info)

	sw := fmt.Sprintf("%v", g.dispatch())

	assert.Contains(t, sw, "fn_set")
	assert.NotContains(t, sw, "fn_internal_reset", "private functions are unreachable from calldata")
}
