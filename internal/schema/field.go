// Package schema builds offset-annotated field trees from type metadata and
// orders their composite nodes for emission.
package schema

import (
	"fmt"
	"strings"
)

type Category int

const (
	CategoryPrimitive Category = iota
	CategoryComposite
	CategoryListOf
)

func (c Category) String() string {
	switch c {
	case CategoryComposite:
		return "composite"
	case CategoryListOf:
		return "list"
	default:
		return "primitive"
	}
}

// Field is one node of a schema tree. SubFields is nil for terminal nodes and
// never an empty slice. Trees are not modified after Build returns.
type Field struct {
	Name   string
	Offset int64

	Category     Category
	ElemCategory Category // category of the element for CategoryListOf nodes
	Kind         PrimitiveKind

	TypeName     string // declared type, the container for list-like nodes
	ElemTypeName string // element type of list-like nodes

	SubFields []*Field
}

func (f *Field) IsListLike() bool { return f.Category == CategoryListOf }

func (f *Field) Terminal() bool { return f.SubFields == nil }

// DeclName is the class name a composite node is declared under: the element
// type for list-like nodes, the declared type otherwise.
func (f *Field) DeclName() string {
	if f.IsListLike() {
		return f.ElemTypeName
	}
	return f.TypeName
}

// String renders the tree one node per line, children indented by two spaces.
func (f *Field) String() string {
	var b strings.Builder
	f.dump(&b, 0)
	return b.String()
}

func (f *Field) dump(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	name := f.Name
	if name == "" {
		name = "<root>"
	}
	fmt.Fprintf(b, "%s @0x%X %s", name, f.Offset, f.TypeName)
	if f.IsListLike() {
		fmt.Fprintf(b, " of %s", f.ElemTypeName)
	}
	if f.Kind != KindOther {
		fmt.Fprintf(b, " (%s)", f.Kind)
	}
	b.WriteByte('\n')
	for _, c := range f.SubFields {
		c.dump(b, depth+1)
	}
}
