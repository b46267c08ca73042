package gen

import (
	"github.com/crest-lang/crest/compiler/tp"
	"github.com/crest-lang/crest/compiler/yul"
)

// Sized data movement between the three spaces. Every runtime call
// carries the static byte footprint of the moved type; how the bytes are
// packed within a space is the runtime's business, not the caller's.

// mload loads a scalar of type t from memory.
func mload(t tp.FixedSize, ptr yul.Expression) yul.Expression {
	return call("mloadn", ptr, size(t))
}

// sload loads a scalar of type t from storage.
func sload(t tp.FixedSize, slot yul.Expression) yul.Expression {
	return call("sloadn", slot, size(t))
}

// mstore stores a scalar value of type t into memory.
func mstore(t tp.FixedSize, ptr, val yul.Expression) yul.Statement {
	return yul.ExprStmt{X: call("mstoren", ptr, size(t), val)}
}

// sstore stores a scalar value of type t into storage.
func sstore(t tp.FixedSize, slot, val yul.Expression) yul.Statement {
	return yul.ExprStmt{X: call("sstoren", slot, size(t), val)}
}

// mcopys block-copies a value of type t from memory into storage.
func mcopys(t tp.FixedSize, slot, ptr yul.Expression) yul.Statement {
	return yul.ExprStmt{X: call("mcopys", ptr, slot, size(t))}
}

// scopys block-copies a value of type t between storage locations.
func scopys(t tp.FixedSize, dst, src yul.Expression) yul.Statement {
	return yul.ExprStmt{X: call("scopys", src, dst, size(t))}
}

// scopym copies a value of type t out of storage into fresh memory and
// yields the new pointer.
func scopym(t tp.FixedSize, slot yul.Expression) yul.Expression {
	return call("scopym", slot, size(t))
}

// alloc reserves n bytes of memory and yields the pointer.
func alloc(n int) yul.Expression {
	return call("alloc", yul.Int(n))
}

func size(t tp.FixedSize) yul.Expression {
	return yul.Int(t.Size())
}

func call(name string, args ...yul.Expression) yul.Call {
	return yul.Call{
		Func: yul.Ident{Name: name},
		Args: args,
	}
}
