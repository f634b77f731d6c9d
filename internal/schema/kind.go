package schema

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// PrimitiveKind is the classification of a terminal type, computed once per
// type name.
type PrimitiveKind int

const (
	KindOther PrimitiveKind = iota
	KindBool
	KindByte
	KindSByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindFloat
	KindDouble
	KindDecimal
	KindChar
	KindString
	KindEnum
)

var kindNames = [...]string{
	KindOther:   "Other",
	KindBool:    "Bool",
	KindByte:    "Byte",
	KindSByte:   "SByte",
	KindInt16:   "Int16",
	KindUInt16:  "UInt16",
	KindInt32:   "Int32",
	KindUInt32:  "UInt32",
	KindInt64:   "Int64",
	KindUInt64:  "UInt64",
	KindFloat:   "Float",
	KindDouble:  "Double",
	KindDecimal: "Decimal",
	KindChar:    "Char",
	KindString:  "String",
	KindEnum:    "Enum",
}

func (k PrimitiveKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Other"
	}
	return kindNames[k]
}

// ParsePrimitiveKind parses a kind name as printed by String, case-insensitively.
func ParsePrimitiveKind(s string) (PrimitiveKind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return PrimitiveKind(k), nil
		}
	}
	return KindOther, errors.Newf("unknown primitive kind %q", s)
}

// primitiveAliases maps lower-cased C# keywords, CLR names and Go names.
var primitiveAliases = map[string]PrimitiveKind{
	"bool":    KindBool,
	"boolean": KindBool,
	"byte":    KindByte,
	"uint8":   KindByte,
	"sbyte":   KindSByte,
	"int8":    KindSByte,
	"short":   KindInt16,
	"int16":   KindInt16,
	"ushort":  KindUInt16,
	"uint16":  KindUInt16,
	"int":     KindInt32,
	"int32":   KindInt32,
	"rune":    KindInt32,
	"uint":    KindUInt32,
	"uint32":  KindUInt32,
	"long":    KindInt64,
	"int64":   KindInt64,
	"ulong":   KindUInt64,
	"uint64":  KindUInt64,
	"float":   KindFloat,
	"single":  KindFloat,
	"float32": KindFloat,
	"double":  KindDouble,
	"float64": KindDouble,
	"decimal": KindDecimal,
	"char":    KindChar,
	"string":  KindString,
}

func builtinKind(name string) PrimitiveKind {
	name = strings.ToLower(strings.TrimPrefix(name, "global::"))
	name = strings.TrimPrefix(name, "system.")
	if k, ok := primitiveAliases[name]; ok {
		return k
	}
	return KindOther
}
