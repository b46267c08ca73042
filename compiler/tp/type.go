package tp

import "fmt"

// WordSize is the width of both a storage slot and a padded memory word.
const WordSize = 32

type (
	Type interface {
		Size() int
	}

	// FixedSize is a type with a statically known footprint.
	// Everything but maps is fixed size.
	FixedSize interface {
		Type
		fixed()
	}

	Base struct {
		Name  string
		Bytes int
	}

	Struct struct {
		Name   string
		Fields []StructField
	}

	StructField struct {
		Name string
		Type FixedSize
	}

	Array struct {
		Elem FixedSize
		Len  int
	}

	// Map lives in storage only. Size is the footprint of its root slot,
	// values are reached through derived slots.
	Map struct {
		Key   FixedSize
		Value FixedSize
	}
)

var (
	U256    = Base{Name: "u256", Bytes: 32}
	U128    = Base{Name: "u128", Bytes: 16}
	U64     = Base{Name: "u64", Bytes: 8}
	U32     = Base{Name: "u32", Bytes: 4}
	U8      = Base{Name: "u8", Bytes: 1}
	Bool    = Base{Name: "bool", Bytes: 1}
	Address = Base{Name: "address", Bytes: 20}
)

func (x Base) Size() int { return x.Bytes }
func (x Base) fixed()    {}

// Size of a struct in its own space. Every field is padded to a full word.
func (x *Struct) Size() int { return WordSize * len(x.Fields) }
func (x *Struct) fixed()    {}

func (x Array) Size() int { return Padded(x.Elem) * x.Len }
func (x Array) fixed()    {}

func (x Map) Size() int { return WordSize }

// Words is the number of whole words a fixed size type occupies.
func Words(x FixedSize) int {
	return (x.Size() + WordSize - 1) / WordSize
}

// Padded is the word-aligned footprint of x.
func Padded(x FixedSize) int {
	return Words(x) * WordSize
}

// Scalar reports whether x fits in a single word and is moved by plain
// load/store rather than block copy.
func Scalar(x Type) bool {
	_, ok := x.(Base)
	return ok
}

// Field finds a struct field by name. The bool is false if there is no
// such field.
func (x *Struct) Field(name string) (int, StructField, bool) {
	for i, f := range x.Fields {
		if f.Name == name {
			return i, f, true
		}
	}

	return 0, StructField{}, false
}

// Same reports whether two types are the same type.
// Structs are compared by identity, not structure.
func Same(a, b Type) bool {
	switch a := a.(type) {
	case Base:
		b, ok := b.(Base)
		return ok && a == b
	case *Struct:
		return a == b
	case Array:
		b, ok := b.(Array)
		return ok && a.Len == b.Len && Same(a.Elem, b.Elem)
	case Map:
		b, ok := b.(Map)
		return ok && Same(a.Key, b.Key) && Same(a.Value, b.Value)
	default:
		return false
	}
}

func (x Base) String() string    { return x.Name }
func (x *Struct) String() string { return x.Name }
func (x Array) String() string   { return fmt.Sprintf("%v[%d]", x.Elem, x.Len) }
func (x Map) String() string     { return fmt.Sprintf("map[%v]%v", x.Key, x.Value) }
