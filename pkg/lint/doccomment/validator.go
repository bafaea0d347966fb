package doccomment

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/docsniff/pkg/lint"
	"github.com/leapstack-labs/docsniff/pkg/token"
)

// DefaultMetric is the metric recorded for every checked declaration.
const DefaultMetric = "Class has doc comment"

// Validator checks the doc comment in front of a declaration against a
// Policy. It holds no per-call state and may be shared between goroutines.
type Validator struct {
	policy *Policy
	skips  token.KindSet
	metric string
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithSkips replaces the token kinds skipped when looking for the comment.
func WithSkips(skips token.KindSet) ValidatorOption {
	return func(v *Validator) { v.skips = skips }
}

// WithMetric sets the metric name recorded per declaration. An empty name
// disables the metric.
func WithMetric(name string) ValidatorOption {
	return func(v *Validator) { v.metric = name }
}

// NewValidator creates a Validator for policy.
func NewValidator(policy *Policy, opts ...ValidatorOption) *Validator {
	v := &Validator{
		policy: policy,
		skips:  token.DeclarationSkips,
		metric: DefaultMetric,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Policy returns the policy the validator enforces.
func (v *Validator) Policy() *Policy {
	return v.policy
}

// CheckDeclaration validates the comment in front of the declaration
// keyword at index.
func (v *Validator) CheckDeclaration(f *lint.File, index int) {
	s := f.Stream()
	kind := s.Lower(index)

	prev := token.LocatePreceding(s, index, v.skips)
	switch token.ClassifyPreceding(s, prev) {
	case token.PrecedingNone:
		f.AddError("Missing doc comment for %s %s", index, "Missing", kind, f.DeclarationName(index))
		v.record(f, index, "no")
		return
	case token.PrecedingComment:
		v.record(f, index, "yes")
		f.AddError(`You must use "/**" style comments for a %s comment`, index, "WrongStyle", kind)
		return
	}

	v.record(f, index, "yes")
	opener, ok := s.CommentOpener(prev)
	if !ok {
		return
	}
	v.CheckBlock(f, kind, opener, prev)
}

func (v *Validator) record(f *lint.File, index int, value string) {
	if v.metric != "" {
		f.RecordMetric(index, v.metric, value)
	}
}

// CheckBlock enforces the policy on the doc comment between opener and
// closer. kind names the commented construct in messages, e.g. "class".
func (v *Validator) CheckBlock(f *lint.File, kind string, opener, closer int) {
	p := v.policy
	var tags []Occurrence
	for _, t := range ExtractTags(f.Stream(), opener, closer) {
		if p.IsBlacklisted(t.Name) {
			f.Add(p.BlacklistSeverity(), "The %s tag is not allowed in a %s comment", t.Index, "Blacklisted", t.Name, kind)
			continue
		}
		tags = append(tags, t)
	}

	// First occurrence per name, in source order.
	first := make(map[string]Occurrence)
	var names []string
	for _, t := range tags {
		if _, seen := first[t.Name]; !seen {
			first[t.Name] = t
			names = append(names, t.Name)
			continue
		}
		if r, ok := p.Rule(t.Name); ok && r.AllowMultiple {
			continue
		}
		f.AddError("Only one %s tag is allowed in a doc comment", t.Index, "Duplicate"+TagCode(t.Name)+"Tag", t.Name)
	}

	for _, r := range p.rules {
		if !r.Required {
			continue
		}
		if _, ok := first[r.Name]; !ok {
			f.AddError("Missing %s tag in doc comment", closer, "Missing"+TagCode(r.Name)+"Tag", r.Name)
		}
	}

	v.checkOrder(f, kind, first, names)

	for _, t := range tags {
		if t.Content == nil {
			continue
		}
		check, ok := p.ContentCheck(t.Name)
		if !ok {
			continue
		}
		if prob := check(t.Content.Content); prob != nil {
			f.AddWarning(prob.Message, t.Index, prob.Code, prob.Data...)
		}
	}
}

// checkOrder reports every pair of recognized tags whose first occurrences
// are out of canonical order, at the tag that came too early. The message
// arguments are followed by the offending pair, later tag first.
func (v *Validator) checkOrder(f *lint.File, kind string, first map[string]Occurrence, names []string) {
	p := v.policy
	var recognized []TagRule
	for _, r := range p.rules {
		if _, ok := first[r.Name]; ok {
			recognized = append(recognized, r)
		}
	}
	if len(recognized) < 2 {
		return
	}

	order := p.CanonicalOrder(names)
	for i, earlier := range recognized {
		for _, later := range recognized[i+1:] {
			if first[later.Name].Index < first[earlier.Name].Index {
				f.AddError("The tag order for a %[1]s comment should be %[2]s",
					first[later.Name].Index, "TagOrder", kind, order, later.Name, earlier.Name)
			}
		}
	}
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// TagCode turns a tag name into the part of a diagnostic code that names
// it: "@since" becomes "Since", "@see-also" becomes "SeeAlso".
func TagCode(name string) string {
	words := nonAlnum.Split(strings.TrimPrefix(name, "@"), -1)
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	return b.String()
}
