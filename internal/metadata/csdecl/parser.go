// Package csdecl loads type metadata from C# declaration sources, as produced
// by decompiling dummy assemblies.
package csdecl

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Alia5/dummystub/internal/metadata"
	"github.com/cockroachdb/errors"
)

// Load parses a single .cs file, or every .cs file below a directory in
// lexical path order, into a new registry.
func Load(path string) (*metadata.Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat declaration source")
	}
	files := []string{path}
	if info.IsDir() {
		files = files[:0]
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".cs") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", path)
		}
		sort.Strings(files)
		if len(files) == 0 {
			return nil, errors.Newf("no .cs files in %s", path)
		}
	}

	reg := metadata.NewRegistry()
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", f)
		}
		if err := Parse(f, src, reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Parse adds every type declared in src to reg.
func Parse(filename string, src []byte, reg *metadata.Registry) error {
	ast, err := fileParser.ParseBytes(filename, src)
	if err != nil {
		return errors.Wrapf(err, "parse %s", filename)
	}
	w := &walker{reg: reg}
	w.entries("", ast.Entries)
	return nil
}

// ParseTypeRef parses a C# type expression such as "List<Item>", "int[]" or
// "System.Single[,]".
func ParseTypeRef(s string) (metadata.TypeRef, error) {
	ref, err := typeRefParser.ParseString("", s)
	if err != nil {
		return metadata.TypeRef{}, errors.Wrapf(err, "parse type %q", s)
	}
	return convertRef(ref), nil
}

type walker struct {
	reg *metadata.Registry
}

func (w *walker) entries(ns string, entries []*entry) {
	for _, e := range entries {
		switch {
		case e.Namespace != nil:
			name := joinNamespace(ns, strings.Join(e.Namespace.Name, "."))
			if e.Namespace.FileScoped {
				// applies to every following entry of this scope
				ns = name
				continue
			}
			w.entries(name, e.Namespace.Entries)
		case e.Member != nil:
			w.member(ns, "", e.Member)
		}
	}
}

func (w *walker) member(ns, outer string, m *member) {
	switch {
	case m.Type != nil:
		w.typeDecl(ns, outer, m.Type)
	case m.Enum != nil:
		w.reg.Add(&metadata.TypeDescriptor{
			Name:      qualify(outer, m.Enum.Name),
			Namespace: ns,
			Kind:      metadata.KindEnum,
		})
	}
}

func (w *walker) typeDecl(ns, outer string, t *typeDecl) {
	desc := &metadata.TypeDescriptor{
		Name:      qualify(outer, t.Name),
		Namespace: ns,
		Kind:      metadata.ParseKind(t.Kind),
	}
	if desc.Kind == metadata.KindClass && len(t.Bases) > 0 {
		base := convertRef(t.Bases[0])
		desc.Base = &base
	}
	// outer types are registered ahead of their nested types
	w.reg.Add(desc)

	for _, m := range t.Members {
		if m.Type != nil || m.Enum != nil {
			w.member(ns, desc.Name, m)
			continue
		}
		if m.Decl == nil || m.Decl.Tail == nil || m.Decl.Tail.Field == nil || m.has("event") {
			continue
		}
		desc.Fields = append(desc.Fields, fields(desc.Kind, m)...)
	}
}

func fields(kind metadata.Kind, m *member) []metadata.Field {
	d := m.Decl
	if d.Ident == "" || strings.Contains(d.Ident, ".") {
		return nil
	}
	typ := convertRef(d.Type)
	if len(d.Tail.Field.FixedSize) > 0 {
		typ = metadata.ArrayOf(typ, 1)
	}
	attrs := attributes(m.Attributes)
	proto := metadata.Field{
		Type:       typ,
		Public:     m.has("public") || kind == metadata.KindInterface,
		Static:     m.has("static") || m.has("const"),
		Attributes: attrs,
	}

	names := []string{strings.TrimPrefix(d.Ident, "@")}
	for _, more := range d.Tail.Field.More {
		names = append(names, strings.TrimPrefix(more.Name, "@"))
	}
	out := make([]metadata.Field, 0, len(names))
	for _, n := range names {
		f := proto
		f.Name = n
		out = append(out, f)
	}
	return out
}

func attributes(sections []*attributeSection) []metadata.Attribute {
	var out []metadata.Attribute
	for _, s := range sections {
		if s.Target != "" && s.Target != "field" {
			continue
		}
		for _, a := range s.Items {
			attr := metadata.Attribute{Name: strings.Join(a.Name, ".")}
			for _, arg := range a.Args {
				attr.Args = append(attr.Args, metadata.AttributeArg{
					Name:  arg.Name,
					Value: renderTokens(arg.Value),
				})
			}
			out = append(out, attr)
		}
	}
	return out
}

func renderTokens(tokens []*attrToken) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Group != nil {
			renderParens(&b, t.Group)
			continue
		}
		b.WriteString(t.Token)
	}
	return b.String()
}

func renderParens(b *strings.Builder, p *parens) {
	b.WriteByte('(')
	for _, it := range p.Items {
		if it.Group != nil {
			renderParens(b, it.Group)
			continue
		}
		b.WriteString(it.Token)
	}
	b.WriteByte(')')
}

func convertRef(r *typeRef) metadata.TypeRef {
	names := make([]string, len(r.Parts))
	for i, p := range r.Parts {
		names[i] = strings.TrimPrefix(p.Name, "@")
	}
	t := metadata.TypeRef{
		Name:     strings.Join(names, "."),
		Nullable: r.Nullable,
	}
	if last := r.Parts[len(r.Parts)-1]; len(last.Args) > 0 {
		t.Args = make([]metadata.TypeRef, len(last.Args))
		for i, a := range last.Args {
			t.Args[i] = convertRef(a)
		}
	}
	for range r.Pointers {
		elem := t
		t = metadata.TypeRef{Elem: &elem, Pointer: true}
	}
	// int[][,] is a one-dimensional array of two-dimensional arrays
	for i := len(r.Ranks) - 1; i >= 0; i-- {
		t = metadata.ArrayOf(t, len(r.Ranks[i].Commas)+1)
	}
	return t
}

func qualify(outer, name string) string {
	name = strings.TrimPrefix(name, "@")
	if outer == "" {
		return name
	}
	return outer + "." + name
}

func joinNamespace(outer, name string) string {
	if outer == "" {
		return name
	}
	return outer + "." + name
}
