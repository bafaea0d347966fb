package doccomment

// classRules is the canonical tag order for class, interface and trait
// comments. @version is forbidden there; see ClassPolicy.
var classRules = []TagRule{
	{Name: "@category"},
	{Name: "@package"},
	{Name: "@subpackage"},
	{Name: "@author", AllowMultiple: true},
	{Name: "@copyright", AllowMultiple: true},
	{Name: "@license"},
	{Name: "@link", AllowMultiple: true},
	{Name: "@see", AllowMultiple: true},
	{Name: "@since", Required: true},
	{Name: "@deprecated"},
}

// fileRules is the canonical tag order for file comments.
var fileRules = []TagRule{
	{Name: "@category"},
	{Name: "@package"},
	{Name: "@subpackage"},
	{Name: "@author", AllowMultiple: true},
	{Name: "@copyright", AllowMultiple: true},
	{Name: "@license"},
	{Name: "@version"},
	{Name: "@link", AllowMultiple: true},
	{Name: "@see", AllowMultiple: true},
	{Name: "@since"},
	{Name: "@deprecated"},
}

// ClassPolicy returns the policy for class-like declarations: @since is
// required and @version is blacklisted. The version check stays registered
// so it applies again once @version is taken off the blacklist.
func ClassPolicy() *Policy {
	return mustPolicy(classRules,
		WithBlacklist("@version"),
		WithContentCheck("@version", CheckVersion),
	)
}

// FilePolicy returns the policy for file comments.
func FilePolicy() *Policy {
	return mustPolicy(fileRules,
		WithContentCheck("@version", CheckVersion),
		WithContentCheck("@author", CheckAuthor),
		WithContentCheck("@copyright", CheckCopyright),
		WithContentCheck("@license", CheckLicense),
	)
}

func mustPolicy(rules []TagRule, opts ...PolicyOption) *Policy {
	p, err := NewPolicy(rules, opts...)
	if err != nil {
		panic(err)
	}
	return p
}
