package doccomment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/docsniff/pkg/lint"
)

// Options are the rule options accepted by doc comment sniffs.
type Options struct {
	// PolicyFile replaces the tag rules, and optionally the blacklist,
	// with those of a YAML policy file.
	PolicyFile string `mapstructure:"policy_file"`
	// Blacklist replaces the blacklist when set; an empty list clears it.
	Blacklist *[]string `mapstructure:"blacklist"`
	// Required marks additional tags as required.
	Required []string `mapstructure:"required"`
	// AllowMultiple lets additional tags occur more than once.
	AllowMultiple []string `mapstructure:"allow_multiple"`
	// BlacklistSeverity is the severity of Blacklisted diagnostics.
	BlacklistSeverity string `mapstructure:"blacklist_severity"`
}

// OptionKeys lists the keys Options accepts.
var OptionKeys = []string{"policy_file", "blacklist", "required", "allow_multiple", "blacklist_severity"}

// PolicyFromOptions derives a policy from base and raw rule options.
func PolicyFromOptions(base *Policy, raw map[string]any) (*Policy, error) {
	var o Options
	if err := lint.DecodeOptions(raw, &o); err != nil {
		return nil, err
	}

	p := base
	if o.PolicyFile != "" {
		pf, err := LoadPolicyFile(o.PolicyFile)
		if err != nil {
			return nil, err
		}
		if p, err = p.Replace(pf.Rules); err != nil {
			return nil, fmt.Errorf("policy file %s: %w", o.PolicyFile, err)
		}
		if pf.Blacklist != nil {
			o.Blacklist = mergeBlacklist(pf.Blacklist, o.Blacklist)
		}
	}

	var opts []PolicyOption
	if o.Blacklist != nil {
		opts = append(opts, WithoutBlacklist(), WithBlacklist(*o.Blacklist...))
	}
	if o.BlacklistSeverity != "" {
		sev, ok := lint.ParseSeverity(o.BlacklistSeverity)
		if !ok {
			return nil, fmt.Errorf("invalid blacklist_severity %q", o.BlacklistSeverity)
		}
		opts = append(opts, WithBlacklistSeverity(sev))
	}
	if len(o.Required) > 0 {
		opts = append(opts, WithRequiredTags(o.Required...))
	}
	if len(o.AllowMultiple) > 0 {
		opts = append(opts, WithMultipleTags(o.AllowMultiple...))
	}
	if len(opts) == 0 {
		return p, nil
	}
	return p.Derive(opts...)
}

// mergeBlacklist prefers the explicit option over the policy file.
func mergeBlacklist(fromFile []string, fromOption *[]string) *[]string {
	if fromOption != nil {
		return fromOption
	}
	return &fromFile
}

// PolicyFile is the decoded form of a YAML policy file:
//
//	tags:
//	  "@package": {}
//	  "@author": {allow_multiple: true}
//	  "@since": {required: true}
//	blacklist: ["@version"]
//
// The order of the tags mapping is the canonical tag order.
type PolicyFile struct {
	Rules     []TagRule
	Blacklist []string // nil when the file has no blacklist key
}

// LoadPolicyFile reads and decodes a policy file.
func LoadPolicyFile(path string) (*PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	pf, err := ParsePolicy(data)
	if err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}
	return pf, nil
}

// ParsePolicy decodes policy YAML, keeping the order of the tags mapping.
func ParsePolicy(data []byte) (*PolicyFile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty policy")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: policy must be a mapping", root.Line)
	}

	pf := &PolicyFile{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "tags":
			rules, err := decodeTags(val)
			if err != nil {
				return nil, err
			}
			pf.Rules = rules
		case "blacklist":
			var names []string
			if err := val.Decode(&names); err != nil {
				return nil, fmt.Errorf("line %d: blacklist: %w", val.Line, err)
			}
			if names == nil {
				names = []string{}
			}
			pf.Blacklist = names
		default:
			return nil, fmt.Errorf("line %d: unknown key %q", key.Line, key.Value)
		}
	}
	if len(pf.Rules) == 0 {
		return nil, fmt.Errorf("policy has no tags")
	}
	return pf, nil
}

func decodeTags(node *yaml.Node) ([]TagRule, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: tags must be a mapping", node.Line)
	}
	rules := make([]TagRule, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		r := TagRule{}
		// A bare key ("@see:") decodes to a null node.
		if val.Tag != "!!null" {
			if err := checkRuleKeys(key.Value, val); err != nil {
				return nil, err
			}
			if err := val.Decode(&r); err != nil {
				return nil, fmt.Errorf("line %d: tag %s: %w", val.Line, key.Value, err)
			}
		}
		r.Name = NormalizeTag(key.Value)
		rules = append(rules, r)
	}
	return rules, nil
}

// checkRuleKeys rejects keys of a tag rule mapping that TagRule has no field for.
func checkRuleKeys(tag string, val *yaml.Node) error {
	if val.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: tag %s must be a mapping", val.Line, tag)
	}
	for i := 0; i+1 < len(val.Content); i += 2 {
		switch k := val.Content[i]; k.Value {
		case "required", "allow_multiple":
		default:
			return fmt.Errorf("line %d: tag %s: unknown key %q", k.Line, tag, k.Value)
		}
	}
	return nil
}
