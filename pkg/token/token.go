// Package token defines the token kinds produced by the PHP lexer and the
// index-addressable stream the lint sniffs walk.
//
// Kinds mirror the classification a sniff needs: doc comment parts, plain
// comments, whitespace, declaration modifiers and the declaration keywords
// themselves. Everything else collapses into a handful of generic kinds.
package token

import (
	"fmt"
	"strings"
)

// Kind represents the type of a lexical token.
type Kind int32

//nolint:revive // kind names follow the PHP tokenizer vocabulary
const (
	// Special tokens
	EOF Kind = iota
	ILLEGAL

	// Source framing
	InlineHTML // text outside <?php ... ?>
	OpenTag    // <?php or <?=
	CloseTag   // ?>
	Whitespace

	// Comments
	Comment              // //, # and /* */ comments
	DocCommentOpen       // /**
	DocCommentClose      // */
	DocCommentStar       // leading * on a doc comment line
	DocCommentWhitespace // whitespace inside a doc comment
	DocCommentTag        // @since
	DocCommentString     // free text inside a doc comment

	// Literals
	String         // bare identifier, including qualified names
	Variable       // $name
	ConstantString // '...' or "..." or heredoc
	Number
	Attribute // #[...]

	// Punctuation
	OpenCurly
	CloseCurly
	OpenParen
	CloseParen
	Semicolon
	Comma
	DoubleColon    // ::
	ObjectOperator // -> or ?->
	Operator       // any other punctuation

	// Keywords (alphabetical)
	Abstract
	AnonClass // class keyword of "new class"
	Class
	Const
	Enum
	Extends
	Final
	Function
	Implements
	Interface
	Namespace
	New
	Private
	Protected
	Public
	Readonly
	Static
	Trait
	Use
	Var
)

// String returns a human-readable representation of the token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", k)
}

var kindNames = map[Kind]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	InlineHTML: "INLINE_HTML",
	OpenTag:    "OPEN_TAG",
	CloseTag:   "CLOSE_TAG",
	Whitespace: "WHITESPACE",

	Comment:              "COMMENT",
	DocCommentOpen:       "DOC_COMMENT_OPEN_TAG",
	DocCommentClose:      "DOC_COMMENT_CLOSE_TAG",
	DocCommentStar:       "DOC_COMMENT_STAR",
	DocCommentWhitespace: "DOC_COMMENT_WHITESPACE",
	DocCommentTag:        "DOC_COMMENT_TAG",
	DocCommentString:     "DOC_COMMENT_STRING",

	String:         "STRING",
	Variable:       "VARIABLE",
	ConstantString: "CONSTANT_ENCAPSED_STRING",
	Number:         "NUMBER",
	Attribute:      "ATTRIBUTE",

	OpenCurly:      "{",
	CloseCurly:     "}",
	OpenParen:      "(",
	CloseParen:     ")",
	Semicolon:      ";",
	Comma:          ",",
	DoubleColon:    "::",
	ObjectOperator: "->",
	Operator:       "OPERATOR",

	Abstract:   "ABSTRACT",
	AnonClass:  "ANON_CLASS",
	Class:      "CLASS",
	Const:      "CONST",
	Enum:       "ENUM",
	Extends:    "EXTENDS",
	Final:      "FINAL",
	Function:   "FUNCTION",
	Implements: "IMPLEMENTS",
	Interface:  "INTERFACE",
	Namespace:  "NAMESPACE",
	New:        "NEW",
	Private:    "PRIVATE",
	Protected:  "PROTECTED",
	Public:     "PUBLIC",
	Readonly:   "READONLY",
	Static:     "STATIC",
	Trait:      "TRAIT",
	Use:        "USE",
	Var:        "VAR",
}

// keywords maps lowercase PHP keywords to their kinds.
// AnonClass is never looked up; the lexer derives it from context.
var keywords = map[string]Kind{
	"abstract":   Abstract,
	"class":      Class,
	"const":      Const,
	"enum":       Enum,
	"extends":    Extends,
	"final":      Final,
	"function":   Function,
	"implements": Implements,
	"interface":  Interface,
	"namespace":  Namespace,
	"new":        New,
	"private":    Private,
	"protected":  Protected,
	"public":     Public,
	"readonly":   Readonly,
	"static":     Static,
	"trait":      Trait,
	"use":        Use,
	"var":        Var,
}

// LookupIdent returns the kind for the given identifier.
// PHP keywords are case-insensitive; anything else is a String.
func LookupIdent(ident string) Kind {
	if k, ok := keywords[strings.ToLower(ident)]; ok {
		return k
	}
	return String
}

// IsKeyword returns true if the kind is a keyword.
func IsKeyword(k Kind) bool {
	return k >= Abstract && k <= Var
}

// IsDocComment returns true for every token that lives inside a doc comment.
func IsDocComment(k Kind) bool {
	return k >= DocCommentOpen && k <= DocCommentString
}

// Token is an immutable lexical token with position information.
type Token struct {
	Kind    Kind
	Content string
	Pos     Position
}
