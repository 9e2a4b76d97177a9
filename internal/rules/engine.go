// Package rules implements the ordered first-match-wins triage rule engine.
// Rule sets are loaded from YAML, validated wholesale, and evaluated against
// metadata records; the engine always produces a decision, falling back to a
// fixed default action when nothing matches.
package rules

import (
	"fmt"
	"log"
	"os"

	"github.com/issueops/issueops/internal/logic"
	"github.com/issueops/issueops/pkg/models"
	"gopkg.in/yaml.v3"
)

// DefaultSource is the well-known rule source tried when a configured
// source fails to load or validate.
const DefaultSource = "rules.yaml"

// ruleDef is the wire form of a single rule in the rule source.
type ruleDef struct {
	Name      string              `yaml:"name"`
	Condition map[string]any      `yaml:"condition"`
	Action    models.TriageAction `yaml:"action"`
}

// Rule is a validated, parsed rule. Rules are immutable once loaded.
type Rule struct {
	Name      string
	Condition logic.Expr
	Action    models.TriageAction
}

// Engine evaluates metadata records against an ordered rule list.
// It is pure and reentrant after construction: concurrent Evaluate calls
// need no locking.
type Engine struct {
	rules []Rule
}

// Load builds an engine from an ordered list of candidate sources, tried in
// turn with the same validation; the first source that loads and validates
// wins. If every candidate fails the engine holds an empty rule list, so
// Evaluate degrades to the default action rather than surfacing a load-time
// outage.
func Load(sources ...string) *Engine {
	for _, src := range sources {
		rules, err := loadFile(src)
		if err != nil {
			log.Printf("Warning: rule source %s rejected: %v", src, err)
			continue
		}
		log.Printf("Loaded %d triage rules from %s", len(rules), src)
		return &Engine{rules: rules}
	}
	log.Printf("Warning: no usable rule source, every evaluation will return the default action")
	return &Engine{}
}

// Sources returns the fallback chain for a configured source: the source
// itself, then the well-known default if it differs.
func Sources(configured string) []string {
	if configured == "" || configured == DefaultSource {
		return []string{DefaultSource}
	}
	return []string{configured, DefaultSource}
}

// loadFile reads and validates one rule source. Any structural violation
// rejects the whole set; there are no partial rule sets.
func loadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule source: %w", err)
	}

	var defs []ruleDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse rule source: %w", err)
	}

	rules := make([]Rule, 0, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("rule %d: name is required", i)
		}
		if def.Condition == nil {
			return nil, fmt.Errorf("rule %q: condition is required", def.Name)
		}
		expr, err := logic.Parse(def.Condition)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid condition: %w", def.Name, err)
		}
		if err := def.Action.Validate(); err != nil {
			return nil, fmt.Errorf("rule %q: invalid action: %w", def.Name, err)
		}
		rules = append(rules, Rule{Name: def.Name, Condition: expr, Action: def.Action})
	}

	return rules, nil
}

// Len returns the number of loaded rules.
func (e *Engine) Len() int {
	return len(e.rules)
}

// Evaluate walks the rules in load order and returns the action of the
// first rule whose condition is truthy. A rule that panics during
// evaluation is logged and skipped. When nothing matches, the fixed
// default action is returned; Evaluate never fails.
func (e *Engine) Evaluate(record map[string]any) models.TriageAction {
	for _, rule := range e.rules {
		if e.matches(rule, record) {
			log.Printf("Rule matched: %s", rule.Name)
			return rule.Action
		}
	}
	return DefaultAction()
}

// Decide evaluates a metadata record.
func (e *Engine) Decide(md *models.Metadata) models.TriageAction {
	return e.Evaluate(md.Record())
}

func (e *Engine) matches(rule Rule, record map[string]any) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error evaluating rule %q: %v", rule.Name, r)
			matched = false
		}
	}()
	return logic.Truthy(rule.Condition.Eval(record))
}

// DefaultAction is the guaranteed decision when no rule matches.
func DefaultAction() models.TriageAction {
	return models.TriageAction{
		PriorityScore: 3,
		Labels:        []string{"triage/needs-review"},
		Reasoning:     "No specific triage rules matched. Defaulting to normal priority.",
	}
}
