package schema

// Flatten returns every distinct composite node reachable from roots, nested
// types before the types referencing them. Each root's subtree is walked in
// post-order, the roots themselves come last. Nodes are identified by
// DeclName and the first occurrence wins.
func Flatten(roots ...*Field) []*Field {
	var out []*Field
	seen := make(map[string]bool)
	add := func(f *Field) {
		if f.Terminal() || seen[f.DeclName()] {
			return
		}
		seen[f.DeclName()] = true
		out = append(out, f)
	}

	var visit func(f *Field)
	visit = func(f *Field) {
		for _, c := range f.SubFields {
			visit(c)
			add(c)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	for _, r := range roots {
		add(r)
	}
	return out
}
