package orlib

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type number struct {
	Pos   lexer.Position
	Value float64 `@Number`
}

// matrixFile is the common shape of OR-Library and Rail files: the
// matrix dimension followed by count-prefixed lists.
type matrixFile struct {
	Rows    int       `@Number`
	Columns int       `@Number`
	Values  []*number `@@*`
}

type xuFile struct {
	Rows    int      `"p" "set" @Number`
	Columns int      `@Number`
	Sets    []*xuSet `@@*`
}

type xuSet struct {
	Pos     lexer.Position
	Indices []int `"s" @Number*`
}

var instanceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `(?:#|c\b)[^\n]*`},
	{Name: "Number", Pattern: `[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	matrixParser = participle.MustBuild[matrixFile](
		participle.Lexer(instanceLexer),
		participle.Elide("Comment", "Whitespace"))
	xuParser = participle.MustBuild[xuFile](
		participle.Lexer(instanceLexer),
		participle.Elide("Comment", "Whitespace"))
)
