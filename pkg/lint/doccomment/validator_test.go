package doccomment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/docsniff/pkg/lexer"
	"github.com/leapstack-labs/docsniff/pkg/lint"
	"github.com/leapstack-labs/docsniff/pkg/token"
)

// run validates every class-like declaration in src.
func run(t *testing.T, p *Policy, src string) ([]lint.Diagnostic, *lint.Metrics) {
	t.Helper()
	s := lexer.Tokenize([]byte(src))
	c := &lint.Collector{}
	m := lint.NewMetrics()
	f := lint.NewFile("test.php", s, c, m)

	v := NewValidator(p)
	for i, tok := range s.Tokens() {
		if token.ClassLikes.Has(tok.Kind) {
			v.CheckDeclaration(f, i)
		}
	}
	return c.Diagnostics(), m
}

func codes(diags []lint.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func docBlock(lines ...string) string {
	s := "/**\n * Summary.\n *\n"
	for _, l := range lines {
		s += " * " + l + "\n"
	}
	return s + " */\n"
}

func TestValidator_Presence(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   []string
		metric string
	}{
		{
			name:   "no comment",
			src:    "<?php\nclass Foo {}\n",
			want:   []string{"Missing"},
			metric: "no",
		},
		{
			name:   "code before declaration",
			src:    "<?php\n/**\n * @since 1.0\n */\nuse Bar;\nclass Foo {}\n",
			want:   []string{"Missing"},
			metric: "no",
		},
		{
			name:   "line comment",
			src:    "<?php\n// Foo does things.\nclass Foo {}\n",
			want:   []string{"WrongStyle"},
			metric: "yes",
		},
		{
			name:   "block comment",
			src:    "<?php\n/* Foo does things.\n * @since 1.0\n */\nclass Foo {}\n",
			want:   []string{"WrongStyle"},
			metric: "yes",
		},
		{
			name:   "hash comment",
			src:    "<?php\n# Foo\nclass Foo {}\n",
			want:   []string{"WrongStyle"},
			metric: "yes",
		},
		{
			name:   "doc comment past modifiers",
			src:    "<?php\n" + docBlock("@since 1.0") + "final abstract class Foo {}\n",
			want:   []string{},
			metric: "yes",
		},
		{
			name:   "doc comment past attribute",
			src:    "<?php\n" + docBlock("@since 1.0") + "#[Entity(table: 'foo')]\nreadonly class Foo {}\n",
			want:   []string{},
			metric: "yes",
		},
		{
			name:   "single line doc comment",
			src:    "<?php\n/** @since 1.0 */\nclass Foo {}\n",
			want:   []string{},
			metric: "yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, m := run(t, ClassPolicy(), tt.src)
			assert.Equal(t, tt.want, codes(diags))
			assert.Equal(t, 1, m.Count(DefaultMetric, tt.metric))
		})
	}
}

func TestValidator_Messages(t *testing.T) {
	diags, _ := run(t, ClassPolicy(), "<?php\ninterface Repository {}\n")
	require.Len(t, diags, 1)
	assert.Equal(t, "Missing doc comment for interface Repository", diags[0].Message)
	assert.Equal(t, lint.SeverityError, diags[0].Severity)
	assert.Equal(t, 2, diags[0].Pos.Line)

	diags, _ = run(t, ClassPolicy(), "<?php\n// nope\ntrait Loggable {}\n")
	require.Len(t, diags, 1)
	assert.Equal(t, `You must use "/**" style comments for a trait comment`, diags[0].Message)
}

func TestValidator_WellFormedBlock(t *testing.T) {
	src := "<?php\n" + docBlock(
		"@category  PHP",
		"@package   Acme",
		"@subpackage Billing",
		"@author    Jane Doe <jane@example.com>",
		"@author    John Doe <john@example.com>",
		"@copyright 2024 Acme Inc.",
		"@license   MIT",
		"@link      https://example.com",
		"@see       Invoice",
		"@since     1.0.0",
		"@deprecated",
	) + "class Invoice {}\n"

	diags, m := run(t, ClassPolicy(), src)
	assert.Empty(t, diags)
	assert.Equal(t, 1, m.Count(DefaultMetric, "yes"))
	assert.Equal(t, 0, m.Count(DefaultMetric, "no"))
}

func TestValidator_SeeSeeVersion(t *testing.T) {
	p, err := NewPolicy([]TagRule{
		{Name: "@since", Required: true},
		{Name: "@see", AllowMultiple: true},
	}, WithBlacklist("@version"), WithContentCheck("@version", CheckVersion))
	require.NoError(t, err)

	src := "<?php\n" + docBlock("@see Foo", "@see Bar", "@version 1.0") + "class Foo {}\n"
	diags, _ := run(t, p, src)

	require.Equal(t, []string{"Blacklisted", "MissingSinceTag"}, codes(diags))
	assert.Equal(t, "The @version tag is not allowed in a class comment", diags[0].Message)
	assert.Equal(t, "Missing @since tag in doc comment", diags[1].Message)
}

func TestValidator_Required(t *testing.T) {
	p, err := NewPolicy([]TagRule{
		{Name: "@package", Required: true},
		{Name: "@since", Required: true},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"both present", []string{"@package Acme", "@since 1.0"}, []string{}},
		{"since missing", []string{"@package Acme"}, []string{"MissingSinceTag"}},
		{"package missing", []string{"@since 1.0"}, []string{"MissingPackageTag"}},
		{"both missing", nil, []string{"MissingPackageTag", "MissingSinceTag"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, _ := run(t, p, "<?php\n"+docBlock(tt.tags...)+"class Foo {}\n")
			assert.Equal(t, tt.want, codes(diags))
		})
	}
}

func TestValidator_Duplicates(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{
			name: "single tag twice",
			tags: []string{"@package A", "@package B", "@since 1.0"},
			want: []string{"DuplicatePackageTag"},
		},
		{
			name: "one error per extra occurrence",
			tags: []string{"@since 1", "@since 2", "@since 3"},
			want: []string{"DuplicateSinceTag", "DuplicateSinceTag"},
		},
		{
			name: "multiple allowed",
			tags: []string{"@author A <a@example.com>", "@author B <b@example.com>", "@since 1.0"},
			want: []string{},
		},
		{
			name: "unrecognized tag twice",
			tags: []string{"@since 1.0", "@internal", "@internal"},
			want: []string{"DuplicateInternalTag"},
		},
		{
			name: "unrecognized tag once",
			tags: []string{"@since 1.0", "@api"},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, _ := run(t, ClassPolicy(), "<?php\n"+docBlock(tt.tags...)+"class Foo {}\n")
			assert.Equal(t, tt.want, codes(diags))
		})
	}
}

func TestValidator_Order(t *testing.T) {
	t.Run("in order", func(t *testing.T) {
		diags, _ := run(t, ClassPolicy(), "<?php\n"+docBlock("@package Acme", "@since 1.0")+"class Foo {}\n")
		assert.Empty(t, diags)
	})

	t.Run("one pair", func(t *testing.T) {
		diags, _ := run(t, ClassPolicy(), "<?php\n"+docBlock("@since 1.0", "@package Acme")+"class Foo {}\n")
		require.Equal(t, []string{"TagOrder"}, codes(diags))
		d := diags[0]
		assert.Equal(t, "The tag order for a class comment should be @package, @since", d.Message)
		assert.Equal(t, []any{"class", "@package, @since", "@since", "@package"}, d.Data)
	})

	t.Run("every pair", func(t *testing.T) {
		src := "<?php\n" + docBlock("@since 1.0", "@license MIT", "@package Acme") + "class Foo {}\n"
		diags, _ := run(t, ClassPolicy(), src)
		require.Equal(t, []string{"TagOrder", "TagOrder", "TagOrder"}, codes(diags))

		var pairs [][2]any
		for _, d := range diags {
			pairs = append(pairs, [2]any{d.Data[2], d.Data[3]})
		}
		assert.ElementsMatch(t, [][2]any{
			{"@license", "@package"},
			{"@since", "@package"},
			{"@since", "@license"},
		}, pairs)
	})

	t.Run("first occurrence decides", func(t *testing.T) {
		src := "<?php\n" + docBlock("@author A <a@example.com>", "@license MIT", "@author B <b@example.com>", "@since 1.0") + "class Foo {}\n"
		diags, _ := run(t, ClassPolicy(), src)
		assert.Empty(t, diags)
	})

	t.Run("unrecognized tags ignored", func(t *testing.T) {
		src := "<?php\n" + docBlock("@api", "@package Acme", "@internal", "@since 1.0") + "class Foo {}\n"
		diags, _ := run(t, ClassPolicy(), src)
		assert.Empty(t, diags)
	})

	t.Run("blacklisted tags excluded", func(t *testing.T) {
		p, err := ClassPolicy().Derive(WithBlacklist("@package"))
		require.NoError(t, err)
		diags, _ := run(t, p, "<?php\n"+docBlock("@since 1.0", "@package Acme", "@package Again")+"class Foo {}\n")
		assert.Equal(t, []string{"Blacklisted", "Blacklisted"}, codes(diags))
	})
}

func TestValidator_VersionContent(t *testing.T) {
	p, err := ClassPolicy().Derive(WithoutBlacklist())
	require.NoError(t, err)

	tests := []struct {
		name    string
		version string
		want    []string
	}{
		{"plain number", "@version 1.2.0", []string{"InvalidVersion"}},
		{"release", "@version Release: 1.2.0", []string{}},
		{"release anywhere", "@version SVN Release: 42", []string{}},
		{"no content", "@version", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, _ := run(t, p, "<?php\n"+docBlock(tt.version, "@since 1.0")+"class Foo {}\n")
			assert.Equal(t, tt.want, codes(diags))
		})
	}

	diags, _ := run(t, p, "<?php\n"+docBlock("@version 1.2.0", "@since 1.0")+"class Foo {}\n")
	require.Len(t, diags, 1)
	assert.Equal(t, lint.SeverityWarning, diags[0].Severity)
	assert.Equal(t, `Invalid version "1.2.0" in doc comment; consider "Release: <package_version>" instead`, diags[0].Message)

	// Blacklisted: only the blacklist fires.
	diags, _ = run(t, ClassPolicy(), "<?php\n"+docBlock("@version 1.2.0", "@since 1.0")+"class Foo {}\n")
	assert.Equal(t, []string{"Blacklisted"}, codes(diags))
}

func TestValidator_BlacklistSeverity(t *testing.T) {
	p, err := ClassPolicy().Derive(WithBlacklistSeverity(lint.SeverityWarning))
	require.NoError(t, err)

	diags, _ := run(t, p, "<?php\n"+docBlock("@version 1.0", "@since 1.0")+"class Foo {}\n")
	require.Len(t, diags, 1)
	assert.Equal(t, lint.SeverityWarning, diags[0].Severity)
}

func TestValidator_DeclarationsAreIndependent(t *testing.T) {
	src := "<?php\n" +
		"class First {}\n\n" +
		docBlock("@since 1.0") + "class Second {}\n\n" +
		"// plain\ninterface Third {}\n\n" +
		docBlock("@package Acme") + "trait Fourth {}\n"

	diags, m := run(t, ClassPolicy(), src)
	assert.Equal(t, []string{"Missing", "WrongStyle", "MissingSinceTag"}, codes(diags))
	assert.Equal(t, 3, m.Count(DefaultMetric, "yes"))
	assert.Equal(t, 1, m.Count(DefaultMetric, "no"))
}

func TestValidator_AnonymousAndClassConstant(t *testing.T) {
	src := "<?php\n" + docBlock("@since 1.0") + "class Foo {\n" +
		"    public function make() {\n" +
		"        return new class {};\n" +
		"    }\n" +
		"    public function name() { return self::class . Foo::class; }\n" +
		"}\n"

	diags, m := run(t, ClassPolicy(), src)
	assert.Empty(t, diags)
	assert.Equal(t, 1, m.Count(DefaultMetric, "yes"))
}

func TestValidator_CustomSkips(t *testing.T) {
	// Without whitespace in the skip set the comment is not found.
	v := NewValidator(ClassPolicy(), WithSkips(token.NewKindSet()), WithMetric(""))
	s := lexer.Tokenize([]byte("<?php\n" + docBlock("@since 1.0") + "class Foo {}\n"))
	c := &lint.Collector{}
	m := lint.NewMetrics()
	f := lint.NewFile("test.php", s, c, m)
	for i, tok := range s.Tokens() {
		if tok.Kind == token.Class {
			v.CheckDeclaration(f, i)
		}
	}
	assert.Equal(t, []string{"Missing"}, codes(c.Diagnostics()))
	assert.Empty(t, m.Summary())
}

func TestTagCode(t *testing.T) {
	assert.Equal(t, "Since", TagCode("@since"))
	assert.Equal(t, "SeeAlso", TagCode("@see-also"))
	assert.Equal(t, "InheritDoc", TagCode("@inheritDoc"))
	assert.Equal(t, "PhpstanReturn", TagCode("@phpstan-return"))
}
