package schema

import (
	"sync"

	"github.com/Alia5/dummystub/internal/metadata"
)

// Policy controls which generic containers are treated as lists or maps and
// whether interface-typed fields are expanded.
type Policy struct {
	ListContainers    []string `json:"listContainers" yaml:"listContainers" toml:"listContainers"`
	MapContainers     []string `json:"mapContainers" yaml:"mapContainers" toml:"mapContainers"`
	RecurseInterfaces bool     `json:"recurseInterfaces" yaml:"recurseInterfaces" toml:"recurseInterfaces"`
}

func DefaultPolicy() Policy {
	return Policy{
		ListContainers: []string{
			"List", "IList", "ICollection", "IReadOnlyList", "IReadOnlyCollection", "IEnumerable",
			"Collection", "ReadOnlyCollection", "ObservableCollection", "LinkedList",
			"Queue", "Stack", "HashSet", "ArrayList",
		},
		MapContainers: []string{
			"Dictionary", "IDictionary", "IReadOnlyDictionary", "SortedDictionary", "SortedList",
			"ConcurrentDictionary", "ReadOnlyDictionary", "Hashtable", "map",
		},
		RecurseInterfaces: true,
	}
}

// Class is the outcome of classifying a declared field type.
type Class struct {
	Skip string // reason the field is dropped from its parent, empty otherwise

	Category     Category
	ElemCategory Category
	Kind         PrimitiveKind
	TypeName     string
	ElemTypeName string

	Target  metadata.TypeRef // type whose fields become the node's children
	Recurse bool
}

// Classifier categorizes declared types. Kinds are cached per type name; it is
// safe for concurrent use.
type Classifier struct {
	provider metadata.Provider
	lists    map[string]bool
	maps     map[string]bool

	mu    sync.Mutex
	kinds map[string]PrimitiveKind
}

func NewClassifier(provider metadata.Provider, policy Policy) *Classifier {
	c := &Classifier{
		provider: provider,
		lists:    make(map[string]bool, len(policy.ListContainers)),
		maps:     make(map[string]bool, len(policy.MapContainers)),
		kinds:    make(map[string]PrimitiveKind),
	}
	for _, n := range policy.ListContainers {
		c.lists[n] = true
	}
	for _, n := range policy.MapContainers {
		c.maps[n] = true
	}
	return c
}

// Kind returns the primitive kind of ref. Types the provider declares as
// enumerations are KindEnum.
func (c *Classifier) Kind(ref metadata.TypeRef) PrimitiveKind {
	ref = deref(ref)
	if ref.IsArray() || ref.IsGeneric() {
		return KindOther
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if k, ok := c.kinds[ref.Name]; ok {
		return k
	}
	k := builtinKind(ref.Name)
	if k == KindOther && c.provider != nil {
		if d, err := c.provider.Resolve(ref.Name); err == nil && d.Kind == metadata.KindEnum {
			k = KindEnum
		}
	}
	c.kinds[ref.Name] = k
	return k
}

func (c *Classifier) isList(ref metadata.TypeRef) bool {
	return !ref.IsArray() && c.lists[ref.SimpleName()]
}

func (c *Classifier) isMap(ref metadata.TypeRef) bool {
	return !ref.IsArray() && c.maps[ref.SimpleName()]
}

// Classify decides how a field of type ref is recorded.
func (c *Classifier) Classify(ref metadata.TypeRef) Class {
	ref = deref(ref)

	switch {
	case ref.IsArray():
		elem := deref(*ref.Elem)
		switch {
		case ref.Rank != 1:
			return Class{Skip: "multi-dimensional array"}
		case elem.IsArray():
			return Class{Skip: "jagged array"}
		case c.isList(elem):
			return Class{Skip: "array of list"}
		}
		return c.listOf(ref, elem)

	case c.isMap(ref):
		return Class{Skip: "map container"}

	case c.isList(ref):
		if len(ref.Args) != 1 {
			return Class{Category: CategoryPrimitive, TypeName: ref.String()}
		}
		elem := deref(ref.Args[0])
		if elem.IsArray() || c.isList(elem) {
			return Class{Skip: "nested container"}
		}
		return c.listOf(ref, elem)
	}

	k := c.Kind(ref)
	if k != KindOther {
		return Class{Category: CategoryPrimitive, Kind: k, TypeName: ref.SimpleName()}
	}
	return Class{
		Category: CategoryComposite,
		TypeName: ref.SimpleName(),
		Target:   ref,
		Recurse:  true,
	}
}

func (c *Classifier) listOf(container, elem metadata.TypeRef) Class {
	cl := Class{
		Category:     CategoryListOf,
		TypeName:     container.String(),
		ElemTypeName: elem.SimpleName(),
		Target:       elem,
	}
	if c.isMap(elem) {
		cl.ElemCategory = CategoryPrimitive
		return cl
	}
	cl.Kind = c.Kind(elem)
	if cl.Kind != KindOther {
		cl.ElemCategory = CategoryPrimitive
		return cl
	}
	cl.ElemCategory = CategoryComposite
	cl.Recurse = true
	return cl
}

func deref(ref metadata.TypeRef) metadata.TypeRef {
	for ref.Pointer && ref.Elem != nil {
		ref = *ref.Elem
	}
	return ref
}
