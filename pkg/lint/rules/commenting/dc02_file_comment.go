package commenting

import (
	"github.com/leapstack-labs/docsniff/pkg/lint"
	"github.com/leapstack-labs/docsniff/pkg/lint/doccomment"
	"github.com/leapstack-labs/docsniff/pkg/token"
)

func init() {
	lint.Register(FileComment)
}

// FileComment requires a doc comment at the top of every PHP file.
var FileComment = lint.SniffDef{
	ID:          "DC02",
	Name:        "commenting.file_comment",
	Group:       "commenting",
	Description: "Files need a leading doc comment with tags in canonical order.",
	Severity:    lint.SeverityError,
	Tokens:      []token.Kind{token.OpenTag},
	ConfigKeys:  doccomment.OptionKeys,
	Setup:       setupFileComment,
	Rationale: `The file comment carries package, license and authorship information for everything in the file.`,
	BadExample: `<?php
namespace Acme\Billing;`,
	GoodExample: `<?php
/**
 * Invoice handling.
 *
 * @package   Billing
 * @author    Jane Doe <jane@example.com>
 * @copyright 2024 Acme Inc.
 * @license   MIT
 * @version   Release: 1.4.0
 */

namespace Acme\Billing;`,
}

// FileMetric is recorded once per file.
const FileMetric = "File has doc comment"

// commentedDeclarations start a declaration that owns a doc comment placed
// directly before it.
var commentedDeclarations = token.ClassLikes.With(token.Enum, token.Function, token.Abstract, token.Final, token.Readonly, token.Attribute)

var blank = token.NewKindSet(token.Whitespace)

func setupFileComment(opts map[string]any) (lint.ProcessFunc, error) {
	policy, err := doccomment.PolicyFromOptions(doccomment.FilePolicy(), opts)
	if err != nil {
		return nil, err
	}
	v := doccomment.NewValidator(policy)

	return func(f *lint.File, index int) {
		s := f.Stream()
		// Only the first open tag carries the file comment.
		for i := 0; i < index; i++ {
			if s.Kind(i) == token.OpenTag {
				return
			}
		}

		next := s.Next(index, blank)
		switch s.Kind(next) {
		case token.Comment:
			f.RecordMetric(index, FileMetric, "yes")
			f.AddError(`You must use "/**" style comments for a file comment`, next, "WrongStyle")
			return
		case token.DocCommentOpen:
		default:
			f.AddError("Missing file doc comment", index, "Missing")
			f.RecordMetric(index, FileMetric, "no")
			return
		}

		closer, ok := s.CommentCloser(next)
		if !ok {
			f.AddError("Missing file doc comment", index, "Missing")
			f.RecordMetric(index, FileMetric, "no")
			return
		}
		if after := s.Next(closer, blank); commentedDeclarations.Has(s.Kind(after)) {
			// The comment documents the declaration, not the file.
			f.AddError("Missing file doc comment", index, "Missing")
			f.RecordMetric(index, FileMetric, "no")
			return
		}

		f.RecordMetric(index, FileMetric, "yes")
		v.CheckBlock(f, "file", next, closer)
	}, nil
}
