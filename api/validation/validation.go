// Package validation checks untyped request bodies against declarative
// schemas before a handler runs. Schemas whitelist their fields: input
// keys outside the schema are violations, not silently dropped.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/taskdeck/backend/pkg/textcase"
)

type RuleKind int

const (
	KindRequired RuleKind = iota
	KindString
	KindEmail
	KindMinLength
	KindEnum
)

// Rule is a single constraint on a field. Message overrides the default
// constraint template when set.
type Rule struct {
	Kind    RuleKind
	Min     int
	Values  []string
	Message string
}

func Required(message string) Rule {
	return Rule{Kind: KindRequired, Message: message}
}

func String() Rule {
	return Rule{Kind: KindString}
}

func Email(message string) Rule {
	return Rule{Kind: KindEmail, Message: message}
}

func MinLength(min int, message string) Rule {
	return Rule{Kind: KindMinLength, Min: min, Message: message}
}

func Enum(values []string, message string) Rule {
	return Rule{Kind: KindEnum, Values: values, Message: message}
}

// Field declares the constraints for one body key. Fields without a
// Required rule are optional; their remaining rules only run when the
// key is present.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is an ordered whitelist of fields. Order matters: the first
// violation in declaration order is the one surfaced to the client.
type Schema []Field

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate runs every field's constraints independently, collecting all
// failures, and returns the flattened, humanized message list. An empty
// result means the body passed.
func (s Schema) Validate(body map[string]any) []string {
	var messages []string

	for _, field := range s {
		value, present := body[field.Name]
		for _, rule := range field.Rules {
			if msg := checkRule(field.Name, rule, value, present); msg != "" {
				messages = append(messages, textcase.Title(msg))
			}
		}
	}

	declared := make(map[string]struct{}, len(s))
	for _, field := range s {
		declared[field.Name] = struct{}{}
	}

	var unknown []string
	for key := range body {
		if _, ok := declared[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		messages = append(messages, textcase.Title(fmt.Sprintf("property %s should not exist", key)))
	}

	return messages
}

func checkRule(name string, rule Rule, value any, present bool) string {
	if rule.Kind == KindRequired {
		if !present || isEmptyValue(value) {
			return messageOr(rule, fmt.Sprintf("%s should not be empty", name))
		}
		return ""
	}

	// Non-required constraints only apply to supplied values.
	if !present || value == nil {
		return ""
	}

	switch rule.Kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return messageOr(rule, fmt.Sprintf("%s must be a string", name))
		}
	case KindEmail:
		str, ok := value.(string)
		if !ok || !emailPattern.MatchString(str) {
			return messageOr(rule, fmt.Sprintf("%s must be an email", name))
		}
	case KindMinLength:
		str, ok := value.(string)
		if !ok || len(str) < rule.Min {
			return messageOr(rule, fmt.Sprintf("%s must be longer than or equal to %d characters", name, rule.Min))
		}
	case KindEnum:
		str, ok := value.(string)
		if ok {
			for _, allowed := range rule.Values {
				if str == allowed {
					return ""
				}
			}
		}
		return messageOr(rule, fmt.Sprintf("%s must be one of %s", name, strings.Join(rule.Values, ", ")))
	}

	return ""
}

func messageOr(rule Rule, fallback string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fallback
}

func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	if str, ok := value.(string); ok {
		return strings.TrimSpace(str) == ""
	}
	return false
}
