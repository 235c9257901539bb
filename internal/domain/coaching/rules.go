// Package coaching evaluates the coaching rules configured on a drill
// against the answers of a check-in.
package coaching

import (
	"encoding/json"
	"strconv"
	"strings"

	"matchhub/internal/domain/curriculum"
)

// Comparison operators accepted in rule conditions.
const (
	OpEqual        = "=="
	OpNotEqual     = "!="
	OpLessEqual    = "<="
	OpGreaterEqual = ">="
	OpLess         = "<"
	OpGreater      = ">"
)

const (
	nextPeriodToken  = "{next_period}"
	nextSessionLabel = "nächste Session"
	partSeparator    = "\n\n"
)

// Evaluate runs every rule against answers and joins the feedback and
// next-task texts of the matching rules with a blank line.
// A rule whose field has no answer, or whose answer and value are of
// different kinds, does not match. This holds for "!=" too: a skipped or
// filtered-out question never fires a rule.
func Evaluate(answers map[string]any, rules []curriculum.CoachingRule, phase string) (feedback, nextTask string) {
	var feedbackParts, taskParts []string
	for _, rule := range rules {
		answer, ok := answers[rule.Condition.Field]
		if !ok || !Matches(answer, rule.Condition.Operator, rule.Condition.Value) {
			continue
		}
		if rule.Feedback != "" {
			feedbackParts = append(feedbackParts, rule.Feedback)
		}
		if task := substituteNextPeriod(rule.NextTask, phase); task != "" {
			taskParts = append(taskParts, task)
		}
	}
	return strings.Join(feedbackParts, partSeparator), strings.Join(taskParts, partSeparator)
}

// Matches compares answer with value. Numbers compare numerically,
// strings lexicographically, booleans only for (in)equality.
func Matches(answer any, op string, value any) bool {
	if a, ok := toNumber(answer); ok {
		b, ok := toNumber(value)
		if !ok {
			return false
		}
		return compareOrdered(a, b, op)
	}
	if a, ok := answer.(string); ok {
		b, ok := value.(string)
		if !ok {
			return false
		}
		return compareOrdered(a, b, op)
	}
	if a, ok := answer.(bool); ok {
		b, ok := value.(bool)
		if !ok {
			return false
		}
		switch op {
		case OpEqual:
			return a == b
		case OpNotEqual:
			return a != b
		}
	}
	return false
}

func compareOrdered[T float64 | string](a, b T, op string) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpLessEqual:
		return a <= b
	case OpGreaterEqual:
		return a >= b
	case OpLess:
		return a < b
	case OpGreater:
		return a > b
	}
	return false
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// substituteNextPeriod fills {next_period} with the following period number
// for P1 and P2. From P3 on, "P{next_period}" points at the next session.
func substituteNextPeriod(task, phase string) string {
	if task == "" {
		return ""
	}
	if len(phase) == 2 && phase[0] == 'P' {
		if n, err := strconv.Atoi(phase[1:]); err == nil && n+1 <= 3 {
			return strings.ReplaceAll(task, nextPeriodToken, strconv.Itoa(n+1))
		}
	}
	return strings.ReplaceAll(task, "P"+nextPeriodToken, nextSessionLabel)
}
