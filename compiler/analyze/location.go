package analyze

import (
	"fmt"

	"github.com/crest-lang/crest/compiler/ast"
	"github.com/crest-lang/crest/compiler/ice"
	"github.com/crest-lang/crest/compiler/tp"
)

type (
	// Kind is the address space a value lives in after evaluation.
	Kind int

	// Location is where an expression result resides. Slot is the static
	// storage slot for Kind == Storage, or NoSlot when the slot is derived
	// at runtime (map values).
	Location struct {
		Kind Kind
		Slot int
	}

	// Attributes is the per-expression metadata the analyzer leaves for
	// the code generator. Loc is the declared location of the evaluated
	// expression. Move, when set, is the space the value is moved to by
	// the expression lowering before anything else sees it; FinalLocation
	// is what every lowering decision is made on.
	//
	// Attributes are written during analysis only. The generator treats
	// them as read-only.
	Attributes struct {
		Type tp.Type
		Loc  Location
		Move *Location
	}
)

const (
	Value Kind = iota
	Memory
	Storage
)

const NoSlot = -1

func (k Kind) String() string {
	switch k {
	case Value:
		return "value"
	case Memory:
		return "memory"
	case Storage:
		return "storage"
	default:
		return fmt.Sprintf("kind%d", int(k))
	}
}

func (l Location) String() string {
	if l.Kind == Storage && l.Slot != NoSlot {
		return fmt.Sprintf("storage{%d}", l.Slot)
	}

	return l.Kind.String()
}

func (a *Attributes) FinalLocation() Location {
	if a.Move != nil {
		return *a.Move
	}

	return a.Loc
}

// Attributes returns the attributes of an expression node. Every node
// reachable from an assignment has them; a miss is a defect in analysis.
func (n *Info) Attributes(x ast.Node) *Attributes {
	a, ok := n.attrs[x]
	if !ok {
		ice.Bug("no attributes for %T node", x)
	}

	return a
}

// Bind records attributes for a node. It is the analyzer's own write
// path and is exported for tests that build attribute tables by hand.
func (n *Info) Bind(x ast.Node, a *Attributes) {
	n.attrs[x] = a
}
