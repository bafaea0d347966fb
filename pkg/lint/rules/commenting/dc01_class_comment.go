package commenting

import (
	"github.com/leapstack-labs/docsniff/pkg/lint"
	"github.com/leapstack-labs/docsniff/pkg/lint/doccomment"
	"github.com/leapstack-labs/docsniff/pkg/token"
)

func init() {
	lint.Register(ClassComment)
}

// ClassComment requires a doc comment on every class, interface and trait.
var ClassComment = lint.SniffDef{
	ID:          "DC01",
	Name:        "commenting.class_comment",
	Group:       "commenting",
	Description: "Classes, interfaces and traits need a doc comment with tags in canonical order.",
	Severity:    lint.SeverityError,
	Tokens:      token.ClassLikes.Kinds(),
	ConfigKeys:  doccomment.OptionKeys,
	Setup:       setupClassComment,
	Rationale: `A doc comment is where readers and tools look for what a type is for and since when it exists.
Keeping tags in one order makes comments scannable across a codebase.`,
	BadExample: `// Handles invoices.
class Invoice {}`,
	GoodExample: `/**
 * Handles invoices.
 *
 * @package Billing
 * @since   1.4.0
 */
class Invoice {}`,
	Fix: `Use a /** */ comment, add @since, and drop @version; the release belongs in the file comment.`,
}

func setupClassComment(opts map[string]any) (lint.ProcessFunc, error) {
	policy, err := doccomment.PolicyFromOptions(doccomment.ClassPolicy(), opts)
	if err != nil {
		return nil, err
	}
	v := doccomment.NewValidator(policy)
	return v.CheckDeclaration, nil
}
