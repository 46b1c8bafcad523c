package normalize

import "errors"

var (
	// ErrRuleInvalid indicates a rule file or one of its rules is malformed.
	ErrRuleInvalid = errors.New("rule invalid")
)

const (
	// ActionExclude drops the matched value: mapping entries are removed,
	// sequence elements are nulled so sibling positions stay stable.
	ActionExclude = "exclude"
	// ActionRename moves a mapping entry to the key named by To.
	ActionRename = "rename"
	// ActionCoerceNull replaces empty strings, sequences and mappings at
	// the matched path with null.
	ActionCoerceNull = "coerce-null"
)

// Rule rewrites the value at one path before comparison. Match is a
// formatted path in Path.String form ("root" for the whole document) or
// "*" for every path; the first matching rule wins.
type Rule struct {
	Match  string `yaml:"match"`
	Action string `yaml:"action"`
	To     string `yaml:"to,omitempty"`
}

// Applied records one rule hit during Apply, for debug logs.
type Applied struct {
	Match  string
	Action string
	Path   string
	Side   string
}

// Result carries the rewritten documents and the applied-rule log.
type Result struct {
	First   any
	Second  any
	Applied []Applied
}
