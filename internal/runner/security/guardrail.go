package security

import (
	"fmt"
	"regexp"
)

// Verdict is the outcome of screening one command.
type Verdict struct {
	Passed  bool
	Matched string
	Reason  string
}

type rule struct {
	pattern string
	reason  string
}

// defaultRules block commands that destroy data or take over the host.
var defaultRules = []rule{
	{`rm\s+-rf\s+/(\s|$)`, "recursive delete of the root directory"},
	{`rm\s+-rf\s+\*`, "recursive delete of everything in place"},
	{`dd\s+if=`, "raw disk access"},
	{`mkfs\.`, "formatting a filesystem"},
	{`>\s*/dev/(sd[a-z]|nvme)`, "writing to a block device"},
	{`:\(\)\s*\{\s*:\|:&\s*\}\s*;\s*:`, "fork bomb"},
	{`chmod\s+-R\s+777\s+/(\s|$)`, "world-writable root filesystem"},
	{`(curl|wget)[^|]*\|\s*(sudo\s+)?(ba|z)?sh`, "piping a downloaded script into a shell"},
}

type compiledRule struct {
	re     *regexp.Regexp
	reason string
}

// Guardrail screens commands against a compiled deny list before the
// runner hands them to a shell.
type Guardrail struct {
	rules []compiledRule
}

// NewGuardrail compiles the built-in deny list plus any extra patterns
// from configuration.
func NewGuardrail(extraPatterns []string) (*Guardrail, error) {
	rules := make([]compiledRule, 0, len(defaultRules)+len(extraPatterns))
	for _, r := range defaultRules {
		re, err := regexp.Compile(r.pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile deny pattern %q: %w", r.pattern, err)
		}
		rules = append(rules, compiledRule{re: re, reason: r.reason})
	}
	for _, pattern := range extraPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile deny pattern %q: %w", pattern, err)
		}
		rules = append(rules, compiledRule{re: re, reason: "matched configured deny pattern"})
	}
	return &Guardrail{rules: rules}, nil
}

// Check screens the command. The first matching rule wins.
func (g *Guardrail) Check(command string) Verdict {
	for _, r := range g.rules {
		if r.re.MatchString(command) {
			return Verdict{Passed: false, Matched: r.re.String(), Reason: r.reason}
		}
	}
	return Verdict{Passed: true}
}
