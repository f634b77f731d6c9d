package csdecl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammar covers the declaration surface of decompiled dummy assemblies:
// namespaces, types, enums, fields with attributes. Method and property bodies
// are skipped as balanced token groups.

var csLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "Preprocessor", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `'(\\.|[^'\\])+'`},
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F]+[uUlL]*|[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?[fFdDmMuUlL]*`},
	{Name: "Ident", Pattern: `@?[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Arrow", Pattern: `=>`},
	{Name: "Punct", Pattern: "[-{}()\\[\\]<>,;:=.?*&!~+/%^|`$]"},
	{Name: "Whitespace", Pattern: `\s+`},
})

func options() []participle.Option {
	return []participle.Option{
		participle.Lexer(csLexer),
		participle.Elide("Whitespace", "Comment", "Preprocessor"),
		participle.Unquote("String"),
		participle.UseLookahead(256),
	}
}

var (
	fileParser    = participle.MustBuild[file](options()...)
	typeRefParser = participle.MustBuild[typeRef](options()...)
)

type file struct {
	Entries []*entry `parser:"@@*"`
}

type entry struct {
	Using     *using            `parser:"  @@"`
	Namespace *namespace        `parser:"| @@"`
	Member    *member           `parser:"| @@"`
	Assembly  *attributeSection `parser:"| @@"`
}

type using struct {
	Static bool     `parser:"'using' @'static'?"`
	Alias  string   `parser:"( @Ident '=' )?"`
	Name   *typeRef `parser:"@@ ';'"`
}

type namespace struct {
	Name       []string `parser:"'namespace' @Ident ( '.' @Ident )*"`
	FileScoped bool     `parser:"(   @';'"`
	Entries    []*entry `parser:"  | '{' @@* '}' )"`
}

type member struct {
	Attributes []*attributeSection `parser:"@@*"`
	Modifiers  []string            `parser:"@( 'public' | 'private' | 'protected' | 'internal' | 'static' | 'readonly' | 'const' | 'volatile' | 'sealed' | 'abstract' | 'partial' | 'virtual' | 'override' | 'extern' | 'unsafe' | 'new' | 'event' | 'fixed' | 'async' | 'implicit' | 'explicit' | 'required' | 'ref' )*"`
	Type       *typeDecl           `parser:"(   @@"`
	Enum       *enumDecl           `parser:"  | @@"`
	Delegate   *delegateDecl       `parser:"  | @@"`
	Decl       *memberDecl         `parser:"  | @@ )"`
}

func (m *member) has(modifier string) bool {
	for _, mod := range m.Modifiers {
		if mod == modifier {
			return true
		}
	}
	return false
}

type typeDecl struct {
	Kind        string     `parser:"@( 'class' | 'struct' | 'interface' )"`
	Name        string     `parser:"@Ident"`
	TypeParams  []string   `parser:"( '<' ( 'in' | 'out' )? @Ident ( ',' ( 'in' | 'out' )? @Ident )* '>' )?"`
	Bases       []*typeRef `parser:"( ':' @@ ( ',' @@ )* )?"`
	Constraints []string   `parser:"( 'where' @( !'{' )+ )?"`
	Members     []*member  `parser:"'{' @@* '}' ';'?"`
}

type enumDecl struct {
	Name       string       `parser:"'enum' @Ident"`
	Underlying *typeRef     `parser:"( ':' @@ )?"`
	Values     []*enumValue `parser:"'{' ( @@ ( ',' @@ )* )? ','? '}' ';'?"`
}

type enumValue struct {
	Attributes []*attributeSection `parser:"@@*"`
	Name       string              `parser:"@Ident"`
	Value      []string            `parser:"( '=' @( !( ',' | '}' ) )+ )?"`
}

type delegateDecl struct {
	Return      *typeRef `parser:"'delegate' @@"`
	Name        string   `parser:"@Ident"`
	TypeParams  []string `parser:"( '<' ( 'in' | 'out' )? @Ident ( ',' ( 'in' | 'out' )? @Ident )* '>' )?"`
	Params      *parens  `parser:"@@"`
	Constraints []string `parser:"( 'where' @( !';' )+ )? ';'"`
}

type memberDecl struct {
	Type       *typeRef    `parser:"@@"`
	Name       string      `parser:"(   'operator' @( !'(' )+"`
	Ident      string      `parser:"  | @'.'? @Ident ( @'.' @Ident )* )?"`
	TypeParams []string    `parser:"( '<' @Ident ( ',' @Ident )* '>' )?"`
	Tail       *memberTail `parser:"@@"`
}

type memberTail struct {
	Field    *fieldTail    `parser:"  @@"`
	Method   *methodTail   `parser:"| @@"`
	Property *propertyTail `parser:"| @@"`
	Indexer  *indexerTail  `parser:"| @@"`
}

type fieldTail struct {
	FixedSize []string      `parser:"( '[' @( !']' )+ ']' )?"`
	Init      []string      `parser:"( '=' @( !( ';' | ',' ) )+ )?"`
	More      []*declarator `parser:"( ',' @@ )* ';'"`
}

type declarator struct {
	Name string   `parser:"@Ident"`
	Init []string `parser:"( '=' @( !( ';' | ',' ) )+ )?"`
}

type methodTail struct {
	Params      *parens  `parser:"@@"`
	Chain       *parens  `parser:"( ':' ( 'base' | 'this' ) @@ )?"`
	Constraints []string `parser:"( 'where' @( !( '{' | ';' | '=>' ) )+ )?"`
	Body        *block   `parser:"(   @@"`
	Expr        []string `parser:"  | '=>' @( !';' )* ';'"`
	Semi        bool     `parser:"  | @';' )"`
}

type propertyTail struct {
	Body *block   `parser:"(   @@"`
	Init []string `parser:"    ( '=' @( !';' )* ';' )?"`
	Expr []string `parser:"  | '=>' @( !';' )* ';' )"`
}

type indexerTail struct {
	Params []string `parser:"'[' @( !']' )* ']'"`
	Body   *block   `parser:"(   @@"`
	Expr   []string `parser:"  | '=>' @( !';' )* ';' )"`
}

type parens struct {
	Items []*parenItem `parser:"'(' @@* ')'"`
}

type parenItem struct {
	Group *parens `parser:"  @@"`
	Token string  `parser:"| @!( '(' | ')' )"`
}

type block struct {
	Items []*blockItem `parser:"'{' @@* '}'"`
}

type blockItem struct {
	Group *block `parser:"  @@"`
	Token string `parser:"| @!( '{' | '}' )"`
}

type attributeSection struct {
	Target string       `parser:"'[' ( @Ident ':' )?"`
	Items  []*attribute `parser:"@@ ( ',' @@ )* ']'"`
}

type attribute struct {
	Name []string   `parser:"@Ident ( '.' @Ident )*"`
	Args []*attrArg `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

type attrArg struct {
	Name  string       `parser:"( @Ident ( '=' | ':' ) )?"`
	Value []*attrToken `parser:"@@+"`
}

type attrToken struct {
	Group *parens `parser:"  @@"`
	Token string  `parser:"| @!( ',' | ')' | '(' )"`
}

type typeRef struct {
	Global   bool        `parser:"( @'global' ':' ':' )?"`
	Parts    []*namePart `parser:"@@ ( '.' @@ )*"`
	Nullable bool        `parser:"@'?'?"`
	Pointers []string    `parser:"@'*'*"`
	Ranks    []*rank     `parser:"@@*"`
}

type namePart struct {
	Name string     `parser:"@Ident"`
	Args []*typeRef `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
}

type rank struct {
	Commas []string `parser:"'[' @','* ']'"`
}
