package gen

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crest-lang/crest/compiler/analyze"
	"github.com/crest-lang/crest/compiler/ast"
	"github.com/crest-lang/crest/compiler/front"
	"github.com/crest-lang/crest/compiler/ice"
	"github.com/crest-lang/crest/compiler/tp"
	"github.com/crest-lang/crest/compiler/yul"
)

// Storage layout: total=0, owner=1, info=2..3, info2=4..5, balances=6, big=7..9.
const contractSrc = `
contract Test {
	storage {
		total: u256
		owner: address
		info: Pair
		info2: Pair
		balances: map[address]u256
		big: Triple
	}

	struct Pair {
		a: u256
		b: u256
	}

	struct Holder {
		p: Pair
		n: u256
	}

	struct Triple {
		a: u256
		b: u256
		c: u256
	}

	fn f(x: u256, o: address) {
%v
	}
}
`

func lowerBody(t *testing.T, body string) []yul.Statement {
	t.Helper()

	ctx := context.Background()

	st := front.New()
	st.AddFile(ctx, "test.crs", []byte(fmt.Sprintf(contractSrc, body)))

	f, err := st.Parse(ctx)
	require.NoError(t, err)

	info, err := analyze.Analyze(ctx, f)
	require.NoError(t, err)

	g := New(info)

	var out []yul.Statement

	for _, s := range f.Contract.Funcs[0].Body {
		out = append(out, g.Stmt(s)...)
	}

	return out
}

// lowerLast lowers the body and renders its last statement.
func lowerLast(t *testing.T, body string) string {
	t.Helper()

	ss := lowerBody(t, body)
	require.NotEmpty(t, ss)

	return fmt.Sprintf("%v", ss[len(ss)-1])
}

func requireICE(t *testing.T, substr string, f func()) {
	t.Helper()

	defer func() {
		t.Helper()

		p := recover()
		require.NotNil(t, p, "expected an internal compiler error")

		e, ok := p.(*ice.Error)
		require.True(t, ok, "panic value is %T, not *ice.Error", p)
		require.Contains(t, e.Error(), substr)
	}()

	f()
}

// One case per reachable cell of the location dispatch. The ninth pair,
// storage value into memory target, is covered by TestAssignRawStorageToMemory.
func TestAssignDispatch(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		want string
	}{
		{"ValueToValue", "let y: u256 = 0\ny = x", "y := x"},
		{"ValueToMemory", "let a: u256[4]\na[0] = x", "mstoren(add(a, mul(0, 32)), 32, x)"},
		{"ValueToStorage", "total = x", "sstoren(0, 32, x)"},
		{"MemoryToValue", "let a: u256[4]\nlet y: u256 = 0\ny = a[1]", "y := mloadn(add(a, mul(1, 32)), 32)"},
		{"MemoryToMemory", "let m: Pair\nlet m2: Pair\nm2 = m", "m2 := m"},
		{"MemoryToStorage", "let m: Pair\ninfo = m", "mcopys(m, 2, 64)"},
		{"StorageToValue", "let y: u256 = 0\ny = total", "y := sloadn(0, 32)"},
		{"StorageToStorage", "info2 = info", "scopys(2, 4, 64)"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lowerLast(t, tc.body))
		})
	}
}

// Scenario: scalar to scalar lowers to a bare rebinding, no primitive.
func TestAssignValueRoundTrip(t *testing.T) {
	got := lowerLast(t, "let y: u256 = 0\ny = x")

	assert.Equal(t, "y := x", got)
	assert.NotContains(t, got, "loadn")
	assert.NotContains(t, got, "storen")
}

// Scenario: a 32 byte scalar stored into a memory location carries its
// own width, not anything derived from context.
func TestAssignScalarStoreWidth(t *testing.T) {
	got := lowerLast(t, "let a: u256[4]\na[2] = x")

	assert.Equal(t, "mstoren(add(a, mul(2, 32)), 32, x)", got)
}

// Scenario: aggregate copy between storage slots is a single block copy
// sized by the aggregate footprint, no per-field statements.
func TestAssignStorageAggregateCopy(t *testing.T) {
	got := lowerLast(t, "info2 = info")

	assert.Equal(t, "scopys(2, 4, 64)", got)
}

// Scenario: writing through a field of a memory struct goes to the raw
// field address, not to the value the read accessor would load.
func TestAssignStructFieldAliasing(t *testing.T) {
	got := lowerLast(t, "let h: Holder\nlet m: Pair\nh.p = m")

	assert.Equal(t, "mstoren(struct_Holder_get_p_raw(h), 32, m)", got)
	assert.NotContains(t, got, "mloadn")
}

// Scenario: a raw storage value assigned into memory must have been
// resolved by analysis; the engine refuses to guess.
func TestAssignRawStorageToMemory(t *testing.T) {
	n := analyze.NewInfo()

	target := &ast.Name{Ident: "m"}
	value := &ast.Name{Ident: "s"}

	n.Bind(target, &analyze.Attributes{
		Type: tp.U256,
		Loc:  analyze.Location{Kind: analyze.Memory, Slot: analyze.NoSlot},
	})
	n.Bind(value, &analyze.Attributes{
		Type: tp.U256,
		Loc:  analyze.Location{Kind: analyze.Storage, Slot: 0},
	})

	g := New(n)

	requireICE(t, "raw storage to memory assign", func() {
		g.Assign(&ast.Assign{Target: target, Value: value})
	})
}

func TestAssignZeroCopyIdentity(t *testing.T) {
	// Plain identifier target: the value's address is reused untouched.
	got := lowerLast(t, "let m: Pair\nlet m2: Pair\nm2 = m")
	assert.Equal(t, "m2 := m", got)

	// Field target under the same location pair: still no load, but the
	// accessor is the raw form, not the read form.
	got = lowerLast(t, "let h: Holder\nlet m: Pair\nh.p = m")
	assert.NotContains(t, got, "mloadn")
	assert.Contains(t, got, "struct_Holder_get_p_raw(")
	assert.NotContains(t, strings.ReplaceAll(got, "get_p_raw", ""), "struct_Holder_get_p(")
}

// The primitive carries the footprint of the assigned type, not of some
// other type that happens to be around.
func TestAssignSizingFidelity(t *testing.T) {
	assert.Equal(t, "mcopys(m, 2, 64)", lowerLast(t, "let m: Pair\ninfo = m"))
	assert.Equal(t, "mcopys(m3, 7, 96)", lowerLast(t, "let m3: Triple\nbig = m3"))
	assert.Equal(t, "sstoren(1, 20, o)", lowerLast(t, "owner = o"),
		"address is stored with its own 20 byte width")
}

func TestAssignStorageStructField(t *testing.T) {
	assert.Equal(t, "sstoren(2, 32, x)", lowerLast(t, "info.a = x"))
	assert.Equal(t, "sstoren(3, 32, x)", lowerLast(t, "info.b = x"))
}

func TestAssignMemoryFieldRead(t *testing.T) {
	// The read accessor dereferences on its own: no explicit load and
	// a plain value-to-value rebinding.
	got := lowerLast(t, "let m: Pair\nlet y: u256 = 0\ny = m.a")

	assert.Equal(t, "y := struct_Pair_get_a(m)", got)
}

func TestAssignMemoryFieldWrite(t *testing.T) {
	got := lowerLast(t, "let m: Pair\nm.a = x")

	assert.Equal(t, "mstoren(struct_Pair_get_a_raw(m), 32, x)", got)
}

func TestAssignMapValue(t *testing.T) {
	assert.Equal(t, "sstoren(map_value_ptr(6, o), 32, 5)",
		lowerLast(t, "balances[o] = 5"))

	// A storage resident key is loaded where it stands.
	assert.Equal(t, "sstoren(map_value_ptr(6, sloadn(1, 20)), 32, 1)",
		lowerLast(t, "balances[owner] = 1"))
}

// A storage aggregate bound to a memory local is copied out by the
// expression lowering; the engine then sees memory on both sides.
func TestAssignStorageMovedToMemory(t *testing.T) {
	got := lowerLast(t, "let m: Pair\nm = info")

	assert.Equal(t, "m := scopym(2, 64)", got)
}

// A storage scalar headed for a memory target is loaded where it
// stands; the store receives the value, never a pointer to a copy.
func TestAssignStorageScalarToMemory(t *testing.T) {
	assert.Equal(t, "mstoren(add(a, mul(0, 32)), 32, sloadn(0, 32))",
		lowerLast(t, "let a: u256[4]\na[0] = total"))

	assert.Equal(t, "mstoren(struct_Pair_get_a_raw(m), 32, sloadn(0, 32))",
		lowerLast(t, "let m: Pair\nm.a = total"))
}

func TestRawAccessorShape(t *testing.T) {
	requireICE(t, "not an accessor call", func() {
		rawAccessor(yul.Ident{Name: "x"})
	})
}

func TestMissingAttributes(t *testing.T) {
	g := New(analyze.NewInfo())

	requireICE(t, "no attributes", func() {
		g.Assign(&ast.Assign{
			Target: &ast.Name{Ident: "a"},
			Value:  &ast.Name{Ident: "b"},
		})
	})
}
