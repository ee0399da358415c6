package naming

import (
	"fmt"
	"sync/atomic"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

// Rule lets an operator override field naming for a specific kind of token
// position without recompiling: When is a boolean expr expression evaluated
// against the token's context, and Field is the name assigned on a match.
type Rule struct {
	Name  string `json:"name"`
	When  string `json:"when"`
	Field string `json:"field"`
}

type compiledRule struct {
	field string
	when  *vm.Program
}

// RuleSet is a compiled, ordered list of Rules. The first rule whose When
// expression evaluates true wins.
type RuleSet struct {
	rules []compiledRule
}

// CompileRules compiles each rule's When expression as a boolean expr
// program. It fails fast on the first rule that does not compile.
func CompileRules(rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		prog, err := expr.Compile(r.When, expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("logpattern: compiling naming rule %q: %w", r.Name, err)
		}
		rs.rules = append(rs.rules, compiledRule{field: r.Field, when: prog})
	}
	return rs, nil
}

func (rs *RuleSet) match(tok token.Token, index int, prev, next *token.Token) (string, bool) {
	if rs == nil {
		return "", false
	}
	env := map[string]any{
		"token_type": tok.Type.String(),
		"value":      tok.Value,
		"index":      index,
		"prev":       tokenEnv(prev),
		"next":       tokenEnv(next),
	}
	for _, r := range rs.rules {
		ok, err := expr.Run(r.when, env)
		if err != nil {
			continue
		}
		if b, isBool := ok.(bool); isBool && b {
			return r.field, true
		}
	}
	return "", false
}

func tokenEnv(tok *token.Token) map[string]any {
	if tok == nil {
		return map[string]any{"token_type": "", "value": ""}
	}
	return map[string]any{"token_type": tok.Type.String(), "value": tok.Value}
}

var activeRules atomic.Pointer[RuleSet]

// SetActiveRules installs rs as the naming rules every subsequent
// InferFieldName call consults first. Passing nil removes any installed
// rules and reverts to the built-in heuristics.
func SetActiveRules(rs *RuleSet) {
	activeRules.Store(rs)
}
