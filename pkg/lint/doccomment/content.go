package doccomment

import (
	"regexp"
	"strconv"
	"strings"
)

// ContentProblem is a content-shape finding on an otherwise well-formed tag.
// Message is a format string filled from Data.
type ContentProblem struct {
	Code    string
	Message string
	Data    []any
}

// ContentCheck validates the content of one tag occurrence and returns nil
// when it is acceptable.
type ContentCheck func(content string) *ContentProblem

// CheckVersion requires the content to mention "Release:".
func CheckVersion(content string) *ContentProblem {
	if strings.Contains(content, "Release:") {
		return nil
	}
	return &ContentProblem{
		Code:    "InvalidVersion",
		Message: `Invalid version "%s" in doc comment; consider "Release: <package_version>" instead`,
		Data:    []any{content},
	}
}

var authorRe = regexp.MustCompile(`^[^<>]*\S\s+<[^<>\s@]+@[^<>\s@]+\.[^<>\s@]+>$`)

// CheckAuthor requires "Display Name <user@example.com>".
func CheckAuthor(content string) *ContentProblem {
	if authorRe.MatchString(content) {
		return nil
	}
	return &ContentProblem{
		Code:    "InvalidAuthors",
		Message: `Content of the @author tag must be in the form "Display Name <username@example.com>"`,
	}
}

var copyrightRe = regexp.MustCompile(`(?i)^(?:copyright\s+(?:\(c\)\s+|©\s+)?)?(\d{4})(?:\s*-\s*(\d{4}))?,?\s+(\S.*)$`)

// CheckCopyright requires a year or year range followed by the holder,
// optionally prefixed with "Copyright (C)".
func CheckCopyright(content string) *ContentProblem {
	m := copyrightRe.FindStringSubmatch(content)
	if m == nil {
		return &ContentProblem{
			Code:    "IncompleteCopyright",
			Message: "@copyright tag must contain a year and the name of the copyright holder",
		}
	}
	if m[2] == "" {
		return nil
	}
	from, _ := strconv.Atoi(m[1])
	to, _ := strconv.Atoi(m[2])
	if to < from {
		return &ContentProblem{
			Code:    "InvalidCopyright",
			Message: `Invalid year span "%s-%s" found; consider "%s-%s" instead`,
			Data:    []any{m[1], m[2], m[2], m[1]},
		}
	}
	return nil
}

var licenseURLRe = regexp.MustCompile(`^https?://\S+$`)

// CheckLicense requires a license name, optionally preceded by a URL.
func CheckLicense(content string) *ContentProblem {
	if !licenseURLRe.MatchString(strings.TrimSpace(content)) {
		return nil
	}
	return &ContentProblem{
		Code:    "IncompleteLicense",
		Message: "@license tag must contain a license name after the URL",
	}
}
