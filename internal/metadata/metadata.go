// Package metadata describes the type information the schema builder consumes.
//
// Loaders (C# declarations, manifests, Go sources) fill a Registry; everything
// downstream only sees the Provider interface.
package metadata

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrTypeNotFound       = errors.New("type not found")
	ErrOffsetMissing      = errors.New("offset annotation missing")
	ErrUnsupportedFormat  = errors.New("unsupported metadata format")
	ErrAnnotationNotFound = errors.New("offset annotation type not found")
)

// Kind is the declaration kind of a resolved type.
type Kind int

const (
	KindClass Kind = iota
	KindStruct
	KindInterface
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	default:
		return "class"
	}
}

// ParseKind maps a declaration keyword to a Kind. Unknown keywords are classes.
func ParseKind(s string) Kind {
	switch strings.ToLower(s) {
	case "struct", "valuetype":
		return KindStruct
	case "interface":
		return KindInterface
	case "enum":
		return KindEnum
	default:
		return KindClass
	}
}

// TypeRef is a type as written at a use site (field declaration, base list).
type TypeRef struct {
	Name     string    // possibly qualified name without generic arguments, e.g. "System.Int32", "List"
	Args     []TypeRef // generic type arguments
	Elem     *TypeRef  // element type of arrays and pointers
	Rank     int       // array rank, 0 for non-arrays
	Pointer  bool
	Nullable bool
}

func Named(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

func ArrayOf(elem TypeRef, rank int) TypeRef {
	return TypeRef{Elem: &elem, Rank: rank}
}

func (t TypeRef) IsArray() bool { return t.Rank > 0 && t.Elem != nil }

func (t TypeRef) IsGeneric() bool { return len(t.Args) > 0 }

// SimpleName is the last segment of Name, or the element's simple name for
// arrays and pointers.
func (t TypeRef) SimpleName() string {
	if t.Elem != nil {
		return t.Elem.SimpleName()
	}
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// String renders the reference with simple names, e.g. "Int32[]", "List<Item>", "Single[,]".
func (t TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeRef) write(b *strings.Builder) {
	switch {
	case t.IsArray():
		t.Elem.write(b)
		b.WriteByte('[')
		for i := 1; i < t.Rank; i++ {
			b.WriteByte(',')
		}
		b.WriteByte(']')
		return
	case t.Pointer && t.Elem != nil:
		t.Elem.write(b)
		b.WriteByte('*')
		return
	}
	b.WriteString(t.SimpleName())
	if len(t.Args) > 0 {
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteByte('>')
	}
	if t.Nullable {
		b.WriteByte('?')
	}
}

// AttributeArg is one argument of an attribute usage. Name is empty for
// positional arguments.
type AttributeArg struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// Attribute is an attribute usage on a field, e.g. [FieldOffset(Offset = "0x10")].
type Attribute struct {
	Name string
	Args []AttributeArg
}

// Matches reports whether the usage refers to the attribute type typeName.
// The "Attribute" suffix and namespace qualification are optional at use sites.
func (a Attribute) Matches(typeName string) bool {
	name := a.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(typeName, '.'); i >= 0 {
		typeName = typeName[i+1:]
	}
	return name == typeName ||
		name+"Attribute" == typeName ||
		name == typeName+"Attribute"
}

// Arg returns the named argument, falling back to the first positional one.
func (a Attribute) Arg(name string) (string, bool) {
	for _, arg := range a.Args {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	for _, arg := range a.Args {
		if arg.Name == "" {
			return arg.Value, true
		}
	}
	return "", false
}

// Field is one declared field of a type.
type Field struct {
	Name       string
	Type       TypeRef
	Public     bool
	Static     bool
	Attributes []Attribute
	RawOffset  string // offset given directly by the source, used when no attribute matches
}

// TypeDescriptor is a resolved type with its fields in declaration order.
type TypeDescriptor struct {
	Name      string // simple name, nested types use "Outer.Inner"
	Namespace string
	Kind      Kind
	Base      *TypeRef
	Fields    []Field
}

// FullName is Namespace.Name, or Name when there is no namespace.
func (d *TypeDescriptor) FullName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// SimpleName is the innermost name segment.
func (d *TypeDescriptor) SimpleName() string {
	if i := strings.LastIndexByte(d.Name, '.'); i >= 0 {
		return d.Name[i+1:]
	}
	return d.Name
}

// Provider resolves type names to descriptors. Implementations must be safe
// for concurrent use once loaded.
type Provider interface {
	Resolve(name string) (*TypeDescriptor, error)
}
