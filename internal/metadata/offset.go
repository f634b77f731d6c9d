package metadata

import (
	"github.com/cockroachdb/errors"
)

const (
	DefaultOffsetAttribute = "FieldOffsetAttribute"
	DefaultOffsetField     = "Offset"
)

// OffsetLocator reads the raw offset annotation value of a field.
type OffsetLocator struct {
	attribute string
	field     string
}

// NewOffsetLocator validates that the annotation-defining provider declares the
// attribute type and its value field, and returns a locator for it.
func NewOffsetLocator(annotations Provider, attribute, field string) (*OffsetLocator, error) {
	desc, err := annotations.Resolve(attribute)
	if err != nil {
		return nil, errors.WithHintf(
			errors.Mark(errors.Wrapf(err, "resolve offset annotation type %s", attribute), ErrAnnotationNotFound),
			"the annotation input must declare %s (see --offset-attribute)", attribute)
	}
	for _, f := range desc.Fields {
		if f.Name == field {
			return &OffsetLocator{attribute: desc.Name, field: field}, nil
		}
	}
	return nil, errors.WithHintf(
		errors.Mark(errors.Newf("offset annotation type %s has no field %s", desc.Name, field), ErrAnnotationNotFound),
		"see --offset-field")
}

// Raw returns the offset annotation value of f. Fields without a matching
// attribute fall back to their RawOffset.
func (l *OffsetLocator) Raw(f Field) (string, error) {
	for _, a := range f.Attributes {
		if !a.Matches(l.attribute) {
			continue
		}
		if v, ok := a.Arg(l.field); ok {
			return v, nil
		}
	}
	if f.RawOffset != "" {
		return f.RawOffset, nil
	}
	return "", errors.Wrapf(ErrOffsetMissing, "field %s has no %s", f.Name, l.attribute)
}

// Attribute is the resolved annotation type name.
func (l *OffsetLocator) Attribute() string { return l.attribute }
