package gen

import "strings"

// runtimeYul is the data movement runtime every object carries. The
// layout pads values to whole words, so the sized load/store forms are
// word granular and the byte count only drives block copy extents.
const runtimeYul = `function alloc(n) -> p {
	p := mload(0x40)
	if iszero(p) { p := 0x60 }
	mstore(0x40, add(p, n))
}
function mloadn(p, n) -> v {
	v := mload(p)
}
function mstoren(p, n, v) {
	mstore(p, v)
}
function sloadn(s, n) -> v {
	v := sload(s)
}
function sstoren(s, n, v) {
	sstore(s, v)
}
function mcopys(p, s, n) {
	let w := shr(5, add(n, 31))
	for { let i := 0 } lt(i, w) { i := add(i, 1) } {
		sstore(add(s, i), mload(add(p, shl(5, i))))
	}
}
function scopys(s1, s2, n) {
	let w := shr(5, add(n, 31))
	for { let i := 0 } lt(i, w) { i := add(i, 1) } {
		sstore(add(s2, i), sload(add(s1, i)))
	}
}
function scopym(s, n) -> p {
	p := alloc(n)
	let w := shr(5, add(n, 31))
	for { let i := 0 } lt(i, w) { i := add(i, 1) } {
		mstore(add(p, shl(5, i)), sload(add(s, i)))
	}
}
function map_value_ptr(s, k) -> p {
	mstore(0x00, k)
	mstore(0x20, s)
	p := keccak256(0x00, 0x40)
}
`

// appendRuntime writes the runtime library d tabs deep.
func appendRuntime(b []byte, d int) []byte {
	const tabs = "\t\t\t\t\t\t\t\t"

	for _, line := range strings.Split(runtimeYul, "\n") {
		if line == "" {
			continue
		}

		b = append(b, tabs[:d]...)
		b = append(b, line...)
		b = append(b, '\n')
	}

	return b
}
