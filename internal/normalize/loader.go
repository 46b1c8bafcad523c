package normalize

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRules reads and validates a YAML rule file: a single document
// holding a list of rules.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes one YAML document of rules, strictly: unknown fields,
// trailing documents and empty payloads are all rejected.
func ParseRules(data []byte) ([]Rule, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty rules file", ErrRuleInvalid)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var rules []Rule
	if err := decoder.Decode(&rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuleInvalid, err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing content", ErrRuleInvalid)
	}

	if err := Validate(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// Validate checks every rule for a usable match/action/to combination.
func Validate(rules []Rule) error {
	for i, r := range rules {
		if r.Match == "" {
			return fmt.Errorf("%w: rule %d: empty match", ErrRuleInvalid, i)
		}
		switch r.Action {
		case ActionExclude, ActionCoerceNull:
			if r.To != "" {
				return fmt.Errorf("%w: rule %d: 'to' only applies to rename", ErrRuleInvalid, i)
			}
		case ActionRename:
			if r.To == "" {
				return fmt.Errorf("%w: rule %d: rename requires 'to'", ErrRuleInvalid, i)
			}
		default:
			return fmt.Errorf("%w: rule %d: unknown action %q", ErrRuleInvalid, i, r.Action)
		}
	}
	return nil
}
