package schema

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Alia5/dummystub/internal/log"
	"github.com/Alia5/dummystub/internal/metadata"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidOffset = errors.New("invalid offset")

// OffsetReader returns the raw offset annotation value of a field.
type OffsetReader interface {
	Raw(f metadata.Field) (string, error)
}

// Builder constructs field trees. A Builder holds no per-build state and can
// build several roots concurrently.
type Builder struct {
	provider   metadata.Provider
	offsets    OffsetReader
	classifier *Classifier
	policy     Policy
	logger     *slog.Logger
}

func NewBuilder(provider metadata.Provider, offsets OffsetReader, policy Policy, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		provider:   provider,
		offsets:    offsets,
		classifier: NewClassifier(provider, policy),
		policy:     policy,
		logger:     logger,
	}
}

// Classifier exposes the classifier used by the builder.
func (b *Builder) Classifier() *Classifier { return b.classifier }

// BuildRoot resolves name and builds its tree. The root node is named after
// the type.
func (b *Builder) BuildRoot(name string) (*Field, error) {
	desc, err := b.provider.Resolve(name)
	if err != nil {
		return nil, errors.WithHintf(errors.Wrap(err, "resolve root type"),
			"check --type and that %s is declared in the assembly input", name)
	}
	root, err := b.Build(desc, 0)
	if err != nil {
		return nil, err
	}
	root.Name = desc.SimpleName()
	return root, nil
}

// Build builds the tree of desc placed at offset. The returned node has no name.
func (b *Builder) Build(desc *metadata.TypeDescriptor, offset int64) (*Field, error) {
	node := &Field{
		Offset:   offset,
		Category: CategoryComposite,
		TypeName: desc.SimpleName(),
	}
	if desc.Kind == metadata.KindEnum {
		node.Category = CategoryPrimitive
		node.Kind = KindEnum
		return node, nil
	}
	subs, err := b.fields(desc, []*metadata.TypeDescriptor{desc}, desc.SimpleName())
	if err != nil {
		return nil, err
	}
	node.SubFields = subs
	return node, nil
}

// BuildAll builds the named roots, at most parallel at a time. Results keep the
// order of names.
func (b *Builder) BuildAll(names []string, parallel int) ([]*Field, error) {
	roots := make([]*Field, len(names))
	if parallel <= 1 {
		for i, n := range names {
			r, err := b.BuildRoot(n)
			if err != nil {
				return nil, err
			}
			roots[i] = r
		}
		return roots, nil
	}

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, n := range names {
		g.Go(func() error {
			r, err := b.BuildRoot(n)
			if err != nil {
				return err
			}
			roots[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return roots, nil
}

func (b *Builder) fields(desc *metadata.TypeDescriptor, stack []*metadata.TypeDescriptor, path string) ([]*Field, error) {
	var out []*Field
	for _, f := range b.declaredFields(desc) {
		if !f.Public || f.Static {
			continue
		}
		fieldPath := path + "." + f.Name

		cl := b.classifier.Classify(f.Type)
		if cl.Skip != "" {
			b.logger.Debug("Skipping field", "field", fieldPath, "type", f.Type.String(), "reason", cl.Skip)
			continue
		}

		raw, err := b.offsets.Raw(f)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", fieldPath)
		}
		offset, err := ParseOffset(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", fieldPath)
		}

		child := &Field{
			Name:         f.Name,
			Offset:       offset,
			Category:     cl.Category,
			ElemCategory: cl.ElemCategory,
			Kind:         cl.Kind,
			TypeName:     cl.TypeName,
			ElemTypeName: cl.ElemTypeName,
		}
		if cl.Recurse {
			subs, err := b.recurse(cl.Target, stack, fieldPath)
			if err != nil {
				return nil, err
			}
			child.SubFields = subs
		}
		b.logger.Log(context.Background(), log.LevelTrace, "Field", "field", fieldPath, "offset", offset, "type", child.TypeName)
		out = append(out, child)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (b *Builder) recurse(target metadata.TypeRef, stack []*metadata.TypeDescriptor, path string) ([]*Field, error) {
	desc, err := b.provider.Resolve(target.Name)
	if err != nil {
		if errors.Is(err, metadata.ErrTypeNotFound) {
			b.logger.Debug("Unresolved field type, recording as leaf", "field", path, "type", target.String())
			return nil, nil
		}
		return nil, errors.Wrapf(err, "field %s", path)
	}
	if desc.Kind == metadata.KindInterface && !b.policy.RecurseInterfaces {
		return nil, nil
	}
	for _, s := range stack {
		if s == desc {
			b.logger.Warn("Recursive type reference, recording as leaf", "field", path, "type", desc.FullName())
			return nil, nil
		}
	}
	return b.fields(desc, append(stack[:len(stack):len(stack)], desc), path)
}

// declaredFields returns own fields followed by those of resolvable base types.
func (b *Builder) declaredFields(desc *metadata.TypeDescriptor) []metadata.Field {
	fields := desc.Fields
	seen := map[*metadata.TypeDescriptor]bool{desc: true}
	for d := desc; d.Base != nil; {
		base, err := b.provider.Resolve(d.Base.Name)
		if err != nil || seen[base] {
			break
		}
		seen[base] = true
		if len(base.Fields) > 0 {
			fields = append(fields[:len(fields):len(fields)], base.Fields...)
		}
		d = base
	}
	return fields
}

// ParseOffset parses a hexadecimal offset annotation value. The 0x prefix is
// optional.
func ParseOffset(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, errors.Wrapf(ErrInvalidOffset, "%q", raw)
	}
	v, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidOffset, "%q", raw)
	}
	return v, nil
}
