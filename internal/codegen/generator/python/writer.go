package python

import (
	"bytes"
	"strings"
)

// ClassWriter appends Python class stubs to an owned buffer.
type ClassWriter struct {
	buf bytes.Buffer
}

func NewClassWriter() *ClassWriter {
	return &ClassWriter{}
}

// WriteComment writes each line of text as a "# " comment.
func (w *ClassWriter) WriteComment(text string, indent int) {
	for _, line := range strings.Split(text, "\n") {
		w.writeIndent(indent)
		w.buf.WriteString("# ")
		w.buf.WriteString(line)
		w.buf.WriteByte('\n')
	}
}

func (w *ClassWriter) WriteClassDeclaration(name string, indent int, comment string) {
	w.writeIndent(indent)
	w.buf.WriteString("class ")
	w.buf.WriteString(name)
	w.buf.WriteByte(':')
	w.writeTrailer(comment)
}

func (w *ClassWriter) WriteField(name, typ string, indent int, comment string) {
	w.writeIndent(indent)
	w.buf.WriteString(name)
	w.buf.WriteString(": ")
	w.buf.WriteString(typ)
	w.writeTrailer(comment)
}

// WriteFieldWithArrayType writes a field annotated as arrayType[elem].
func (w *ClassWriter) WriteFieldWithArrayType(name, elem, arrayType string, indent int, comment string) {
	w.WriteField(name, arrayType+"["+elem+"]", indent, comment)
}

func (w *ClassWriter) Bytes() []byte { return w.buf.Bytes() }

func (w *ClassWriter) writeIndent(n int) {
	for i := 0; i < n; i++ {
		w.buf.WriteByte('\t')
	}
}

func (w *ClassWriter) writeTrailer(comment string) {
	if comment != "" {
		w.buf.WriteString(" # ")
		w.buf.WriteString(comment)
	}
	w.buf.WriteByte('\n')
}
