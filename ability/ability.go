// Package ability decides whether a resolved set of permission rules
// allows a requested action on a subject instance. It holds no state
// beyond the rules it was built with and never mutates them.
package ability

import (
	"reflect"

	"github.com/rolegraph/rolegraph"
)

// ManageAction is the reserved rule action matching every requested
// action.
const ManageAction = "manage"

// Decision is the outcome of evaluating one request against an Ability.
// Reason is populated only on a denial caused by an inverted rule.
// Fields is populated when the granting rule restricts field access.
type Decision struct {
	Allowed bool
	Reason  string
	Fields  []string
}

type Ability struct {
	rules []rolegraph.Permission
}

// New builds an Ability from rules in registration order.
func New(rules ...rolegraph.Permission) *Ability {
	return &Ability{
		rules: rules,
	}
}

func (a *Ability) Can(action, subject string, attributes map[string]interface{}) bool {
	return a.decide(action, subject, "", attributes).Allowed
}

// CanOnField is Can scoped to a single subject field. Rules whose Fields
// set excludes the field are ignored; rules without a Fields set apply
// to every field.
func (a *Ability) CanOnField(action, subject, field string, attributes map[string]interface{}) bool {
	return a.decide(action, subject, field, attributes).Allowed
}

func (a *Ability) Explain(action, subject string, attributes map[string]interface{}) Decision {
	return a.decide(action, subject, "", attributes)
}

func (a *Ability) ExplainOnField(action, subject, field string, attributes map[string]interface{}) Decision {
	return a.decide(action, subject, field, attributes)
}

// decide walks the rules in registration order. A matching inverted rule
// whose conditions hold denies immediately, regardless of any allow seen
// before or after it.
func (a *Ability) decide(action, subject, field string, attributes map[string]interface{}) Decision {
	var granted *rolegraph.Permission

	for i := range a.rules {
		rule := &a.rules[i]

		if !matches(rule, action, subject, field) {
			continue
		}

		if !conditionsHold(rule.Conditions, attributes) {
			continue
		}

		if rule.Inverted {
			return Decision{
				Allowed: false,
				Reason:  rule.Reason,
			}
		}

		if granted == nil {
			granted = rule
		}
	}

	if granted == nil {
		return Decision{}
	}

	return Decision{
		Allowed: true,
		Fields:  granted.Fields,
	}
}

func matches(rule *rolegraph.Permission, action, subject, field string) bool {
	if rule.Subject != subject {
		return false
	}

	if rule.Action != action && rule.Action != ManageAction {
		return false
	}

	if field != "" && len(rule.Fields) > 0 && !containsField(rule.Fields, field) {
		return false
	}

	return true
}

// conditionsHold requires every condition key to be present on the
// subject instance with an exactly equal value. A rule without
// conditions matches unconditionally.
func conditionsHold(conditions rolegraph.Conditions, attributes map[string]interface{}) bool {
	for key, want := range conditions {
		got, ok := attributes[key]
		if !ok {
			return false
		}

		if !reflect.DeepEqual(got, want) {
			return false
		}
	}

	return true
}

func containsField(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}

	return false
}
