package doccomment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/docsniff/pkg/lexer"
	"github.com/leapstack-labs/docsniff/pkg/lint"
	"github.com/leapstack-labs/docsniff/pkg/token"
)

func TestNewPolicy(t *testing.T) {
	_, err := NewPolicy([]TagRule{{Name: "@see"}, {Name: "see"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "@see")

	_, err = NewPolicy([]TagRule{{Name: " "}})
	require.Error(t, err)

	_, err = NewPolicy([]TagRule{{Name: "@since", Required: true}}, WithBlacklist("@since"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both required and blacklisted")

	p, err := NewPolicy([]TagRule{{Name: "package"}, {Name: "@since", Required: true}})
	require.NoError(t, err)
	r, ok := p.Rule("@package")
	require.True(t, ok)
	assert.False(t, r.Required)
	assert.Equal(t, lint.SeverityError, p.BlacklistSeverity())
}

func TestPolicy_Derive(t *testing.T) {
	base := ClassPolicy()

	p, err := base.Derive(
		WithRequiredTags("@package", "@custom"),
		WithMultipleTags("@since"),
		WithoutBlacklist(),
	)
	require.NoError(t, err)

	r, _ := p.Rule("@package")
	assert.True(t, r.Required)
	r, _ = p.Rule("@since")
	assert.True(t, r.AllowMultiple)
	assert.False(t, p.IsBlacklisted("@version"))

	rules := p.Rules()
	assert.Equal(t, "@custom", rules[len(rules)-1].Name)
	assert.True(t, rules[len(rules)-1].Required)

	// base is untouched
	r, _ = base.Rule("@package")
	assert.False(t, r.Required)
	_, ok := base.Rule("@custom")
	assert.False(t, ok)
	assert.True(t, base.IsBlacklisted("@version"))
}

func TestPolicy_CanonicalOrder(t *testing.T) {
	p := ClassPolicy()
	assert.Equal(t, "@package, @author, @since", p.CanonicalOrder([]string{"@since", "@api", "@author", "@package"}))
	assert.Equal(t, "", p.CanonicalOrder(nil))
}

func TestPolicy_Replace(t *testing.T) {
	p, err := ClassPolicy().Replace([]TagRule{{Name: "@since"}, {Name: "@package"}})
	require.NoError(t, err)
	assert.True(t, p.IsBlacklisted("@version"))
	_, ok := p.ContentCheck("@version")
	assert.True(t, ok)
	assert.Equal(t, "@since, @package", p.CanonicalOrder([]string{"@package", "@since"}))

	_, err = ClassPolicy().Replace([]TagRule{{Name: "@version", Required: true}})
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	class := ClassPolicy()
	r, ok := class.Rule("@since")
	require.True(t, ok)
	assert.True(t, r.Required)
	_, ok = class.Rule("@version")
	assert.False(t, ok)
	assert.Equal(t, []string{"@version"}, class.Blacklist())

	file := FilePolicy()
	_, ok = file.Rule("@version")
	assert.True(t, ok)
	assert.Empty(t, file.Blacklist())
	for _, tag := range []string{"@version", "@author", "@copyright", "@license"} {
		_, ok := file.ContentCheck(tag)
		assert.True(t, ok, tag)
	}
}

func TestExtractTags(t *testing.T) {
	src := "<?php\n/**\n * Summary with @inline mention.\n *\n * @see Foo::bar()\n * @since\n *   continued text\n * @author  Jane <jane@example.com>\n */\nclass Foo {}\n"
	s := lexer.Tokenize([]byte(src))

	opener := -1
	for i, tok := range s.Tokens() {
		if tok.Kind == token.DocCommentOpen {
			opener = i
			break
		}
	}
	require.GreaterOrEqual(t, opener, 0)
	closer, ok := s.CommentCloser(opener)
	require.True(t, ok)

	tags := ExtractTags(s, opener, closer)
	require.Len(t, tags, 3)

	assert.Equal(t, "@see", tags[0].Name)
	require.NotNil(t, tags[0].Content)
	assert.Equal(t, "Foo::bar()", tags[0].Content.Content)

	assert.Equal(t, "@since", tags[1].Name)
	assert.Nil(t, tags[1].Content, "text on the next line is not tag content")

	assert.Equal(t, "@author", tags[2].Name)
	require.NotNil(t, tags[2].Content)
	assert.Equal(t, "Jane <jane@example.com>", tags[2].Content.Content)
}

func TestContentChecks(t *testing.T) {
	tests := []struct {
		name    string
		check   ContentCheck
		content string
		code    string
	}{
		{"version ok", CheckVersion, "Release: 1.0", ""},
		{"version bad", CheckVersion, "1.0", "InvalidVersion"},
		{"author ok", CheckAuthor, "Jane Doe <jane@example.com>", ""},
		{"author no email", CheckAuthor, "Jane Doe", "InvalidAuthors"},
		{"author bad email", CheckAuthor, "Jane <jane>", "InvalidAuthors"},
		{"copyright year", CheckCopyright, "2024 Acme Inc.", ""},
		{"copyright range", CheckCopyright, "2018-2020 Acme Inc.", ""},
		{"copyright prefixed", CheckCopyright, "Copyright (C) 2018 - 2020 Dazzle Software, LLC. All rights reserved.", ""},
		{"copyright no year", CheckCopyright, "Acme Inc.", "IncompleteCopyright"},
		{"copyright no holder", CheckCopyright, "2024", "IncompleteCopyright"},
		{"copyright reversed", CheckCopyright, "2020-2018 Acme", "InvalidCopyright"},
		{"license name", CheckLicense, "MIT", ""},
		{"license url and name", CheckLicense, "https://opensource.org/licenses/MIT MIT License", ""},
		{"license url only", CheckLicense, "https://opensource.org/licenses/MIT", "IncompleteLicense"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prob := tt.check(tt.content)
			if tt.code == "" {
				assert.Nil(t, prob)
				return
			}
			require.NotNil(t, prob)
			assert.Equal(t, tt.code, prob.Code)
		})
	}

	prob := CheckCopyright("2020-2018 Acme")
	require.NotNil(t, prob)
	assert.Equal(t, []any{"2020", "2018", "2018", "2020"}, prob.Data)
}

func TestPolicyFromOptions(t *testing.T) {
	t.Run("no options returns base", func(t *testing.T) {
		base := ClassPolicy()
		p, err := PolicyFromOptions(base, nil)
		require.NoError(t, err)
		assert.Same(t, base, p)
	})

	t.Run("options", func(t *testing.T) {
		p, err := PolicyFromOptions(ClassPolicy(), map[string]any{
			"blacklist":          []any{"deprecated"},
			"required":           []any{"package"},
			"allow_multiple":     "since",
			"blacklist_severity": "warning",
		})
		require.NoError(t, err)
		assert.True(t, p.IsBlacklisted("@deprecated"))
		assert.False(t, p.IsBlacklisted("@version"))
		r, _ := p.Rule("@package")
		assert.True(t, r.Required)
		r, _ = p.Rule("@since")
		assert.True(t, r.AllowMultiple)
		assert.Equal(t, lint.SeverityWarning, p.BlacklistSeverity())
	})

	t.Run("empty blacklist clears it", func(t *testing.T) {
		p, err := PolicyFromOptions(ClassPolicy(), map[string]any{"blacklist": []any{}})
		require.NoError(t, err)
		assert.Empty(t, p.Blacklist())
	})

	t.Run("errors", func(t *testing.T) {
		_, err := PolicyFromOptions(ClassPolicy(), map[string]any{"bogus": 1})
		assert.Error(t, err)

		_, err = PolicyFromOptions(ClassPolicy(), map[string]any{"blacklist_severity": "fatal"})
		assert.Error(t, err)

		_, err = PolicyFromOptions(ClassPolicy(), map[string]any{"required": []any{"@version"}})
		assert.Error(t, err)

		_, err = PolicyFromOptions(ClassPolicy(), map[string]any{"policy_file": filepath.Join(t.TempDir(), "missing.yaml")})
		assert.Error(t, err)
	})

	t.Run("policy file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
tags:
  "@since": {required: true}
  "@package":
  "@author": {allow_multiple: true}
blacklist: []
`), 0o644))

		p, err := PolicyFromOptions(ClassPolicy(), map[string]any{"policy_file": path})
		require.NoError(t, err)

		names := make([]string, 0, 3)
		for _, r := range p.Rules() {
			names = append(names, r.Name)
		}
		assert.Equal(t, []string{"@since", "@package", "@author"}, names)
		assert.Empty(t, p.Blacklist())

		// An explicit option still wins over the file.
		p, err = PolicyFromOptions(ClassPolicy(), map[string]any{"policy_file": path, "blacklist": []any{"@package"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"@package"}, p.Blacklist())
	})
}

func TestParsePolicy(t *testing.T) {
	pf, err := ParsePolicy([]byte("tags:\n  package: {}\n  '@see': {allow_multiple: true}\n"))
	require.NoError(t, err)
	assert.Nil(t, pf.Blacklist)
	assert.Equal(t, []TagRule{{Name: "@package"}, {Name: "@see", AllowMultiple: true}}, pf.Rules)

	for name, src := range map[string]string{
		"not a mapping": "- a\n- b\n",
		"unknown key":   "tags:\n  '@see': {}\nextra: 1\n",
		"no tags":       "blacklist: ['@version']\n",
		"bad tags":      "tags: [a, b]\n",
		"bad rule":      "tags:\n  '@see': {required: maybe}\n",
		"misspelled":    "tags:\n  '@see': {requried: true}\n",
		"scalar rule":   "tags:\n  '@see': true\n",
		"empty":         "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(src))
			assert.Error(t, err)
		})
	}
}
