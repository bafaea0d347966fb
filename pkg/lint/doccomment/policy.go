package doccomment

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/docsniff/pkg/lint"
)

// TagRule governs one recognized tag.
type TagRule struct {
	Name          string `yaml:"-" json:"name"`
	Required      bool   `yaml:"required" json:"required"`
	AllowMultiple bool   `yaml:"allow_multiple" json:"allow_multiple"`
}

// Policy is an ordered set of tag rules plus a blacklist and per-tag content
// checks. The rule order is the canonical tag order. A Policy is immutable
// once built and safe for concurrent use.
type Policy struct {
	rules             []TagRule
	index             map[string]int
	blacklist         map[string]struct{}
	blacklistSeverity lint.Severity
	checks            map[string]ContentCheck
}

// PolicyOption adjusts a Policy while it is being built.
type PolicyOption func(*Policy)

// WithBlacklist forbids the named tags outright.
func WithBlacklist(names ...string) PolicyOption {
	return func(p *Policy) {
		for _, n := range names {
			p.blacklist[NormalizeTag(n)] = struct{}{}
		}
	}
}

// WithoutBlacklist clears the blacklist.
func WithoutBlacklist() PolicyOption {
	return func(p *Policy) {
		p.blacklist = make(map[string]struct{})
	}
}

// WithBlacklistSeverity sets the severity of Blacklisted diagnostics.
func WithBlacklistSeverity(sev lint.Severity) PolicyOption {
	return func(p *Policy) { p.blacklistSeverity = sev }
}

// WithContentCheck binds check to every content-bearing occurrence of tag.
// A nil check removes the binding.
func WithContentCheck(tag string, check ContentCheck) PolicyOption {
	return func(p *Policy) {
		tag = NormalizeTag(tag)
		if check == nil {
			delete(p.checks, tag)
			return
		}
		p.checks[tag] = check
	}
}

// WithRequiredTags marks the named tags as required. Unknown tags are
// appended to the canonical order.
func WithRequiredTags(names ...string) PolicyOption {
	return func(p *Policy) {
		for _, n := range names {
			p.rule(n).Required = true
		}
	}
}

// WithMultipleTags allows the named tags to occur more than once. Unknown
// tags are appended to the canonical order.
func WithMultipleTags(names ...string) PolicyOption {
	return func(p *Policy) {
		for _, n := range names {
			p.rule(n).AllowMultiple = true
		}
	}
}

// rule returns the rule for name, appending an optional one when missing.
func (p *Policy) rule(name string) *TagRule {
	name = NormalizeTag(name)
	if i, ok := p.index[name]; ok {
		return &p.rules[i]
	}
	p.index[name] = len(p.rules)
	p.rules = append(p.rules, TagRule{Name: name})
	return &p.rules[len(p.rules)-1]
}

// NewPolicy builds a policy from rules in canonical order.
func NewPolicy(rules []TagRule, opts ...PolicyOption) (*Policy, error) {
	p := &Policy{
		rules:             make([]TagRule, 0, len(rules)),
		index:             make(map[string]int, len(rules)),
		blacklist:         make(map[string]struct{}),
		blacklistSeverity: lint.SeverityError,
		checks:            make(map[string]ContentCheck),
	}
	for _, r := range rules {
		r.Name = NormalizeTag(r.Name)
		if r.Name == "@" {
			return nil, fmt.Errorf("tag rule without a name")
		}
		if _, dup := p.index[r.Name]; dup {
			return nil, fmt.Errorf("tag %s is listed more than once", r.Name)
		}
		p.index[r.Name] = len(p.rules)
		p.rules = append(p.rules, r)
	}
	return p.apply(opts)
}

// Derive returns a copy of p with opts applied. p is left unchanged.
func (p *Policy) Derive(opts ...PolicyOption) (*Policy, error) {
	c := &Policy{
		rules:             append([]TagRule(nil), p.rules...),
		index:             make(map[string]int, len(p.index)),
		blacklist:         make(map[string]struct{}, len(p.blacklist)),
		blacklistSeverity: p.blacklistSeverity,
		checks:            make(map[string]ContentCheck, len(p.checks)),
	}
	for k, v := range p.index {
		c.index[k] = v
	}
	for k := range p.blacklist {
		c.blacklist[k] = struct{}{}
	}
	for k, v := range p.checks {
		c.checks[k] = v
	}
	return c.apply(opts)
}

func (p *Policy) apply(opts []PolicyOption) (*Policy, error) {
	for _, opt := range opts {
		opt(p)
	}
	for _, r := range p.rules {
		if r.Required && p.IsBlacklisted(r.Name) {
			return nil, fmt.Errorf("tag %s is both required and blacklisted", r.Name)
		}
	}
	return p, nil
}

// Rules returns the tag rules in canonical order.
func (p *Policy) Rules() []TagRule {
	return append([]TagRule(nil), p.rules...)
}

// Rule returns the rule for a recognized tag.
func (p *Policy) Rule(name string) (TagRule, bool) {
	i, ok := p.index[name]
	if !ok {
		return TagRule{}, false
	}
	return p.rules[i], true
}

// IsBlacklisted reports whether name is forbidden.
func (p *Policy) IsBlacklisted(name string) bool {
	_, ok := p.blacklist[name]
	return ok
}

// Blacklist returns the forbidden tag names, in no particular order.
func (p *Policy) Blacklist() []string {
	out := make([]string, 0, len(p.blacklist))
	for n := range p.blacklist {
		out = append(out, n)
	}
	return out
}

// BlacklistSeverity returns the severity of Blacklisted diagnostics.
func (p *Policy) BlacklistSeverity() lint.Severity {
	return p.blacklistSeverity
}

// ContentCheck returns the content check bound to name, if any.
func (p *Policy) ContentCheck(name string) (ContentCheck, bool) {
	c, ok := p.checks[name]
	return c, ok
}

// CanonicalOrder renders the canonical order of names, e.g.
// "@package, @author, @since". Unrecognized names are dropped.
func (p *Policy) CanonicalOrder(names []string) string {
	present := make(map[string]struct{}, len(names))
	for _, n := range names {
		present[n] = struct{}{}
	}
	var parts []string
	for _, r := range p.rules {
		if _, ok := present[r.Name]; ok {
			parts = append(parts, r.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// NormalizeTag trims name and adds the leading "@" when it is missing.
func NormalizeTag(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "@") {
		name = "@" + name
	}
	return name
}

// Replace returns a copy of p whose tag rules are rules. The blacklist and
// content checks carry over.
func (p *Policy) Replace(rules []TagRule) (*Policy, error) {
	c, err := NewPolicy(rules, WithBlacklistSeverity(p.blacklistSeverity))
	if err != nil {
		return nil, err
	}
	for k := range p.blacklist {
		c.blacklist[k] = struct{}{}
	}
	for k, v := range p.checks {
		c.checks[k] = v
	}
	return c.apply(nil)
}
