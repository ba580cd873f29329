package domain

import "fmt"

// Operator names a comparison applied by a Condition.
type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not_equals"
	OpIn        Operator = "in"
	OpNotIn     Operator = "not_in"
	// OpIncludes matches when a multi-select answer contains Value.
	OpIncludes Operator = "includes"
	// OpAnswered matches when the key holds a non-empty answer.
	OpAnswered Operator = "answered"
)

// Condition is a declarative visibility rule.
// A leaf compares the answer stored under Key; All and Any compose other conditions.
// An empty Op on a leaf means OpEquals.
type Condition struct {
	Key    string      `json:"key,omitempty" yaml:"key,omitempty" mapstructure:"key"`
	Op     Operator    `json:"op,omitempty" yaml:"op,omitempty" mapstructure:"op"`
	Value  string      `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
	Values []string    `json:"values,omitempty" yaml:"values,omitempty" mapstructure:"values"`
	All    []Condition `json:"all,omitempty" yaml:"all,omitempty" mapstructure:"all"`
	Any    []Condition `json:"any,omitempty" yaml:"any,omitempty" mapstructure:"any"`
}

// Equals builds a leaf matching a scalar answer.
func Equals(key, value string) *Condition {
	return &Condition{Key: key, Op: OpEquals, Value: value}
}

// In builds a leaf matching any of the given scalar answers.
func In(key string, values ...string) *Condition {
	return &Condition{Key: key, Op: OpIn, Values: values}
}

// Includes builds a leaf matching a multi-select answer containing value.
func Includes(key, value string) *Condition {
	return &Condition{Key: key, Op: OpIncludes, Value: value}
}

// Answered builds a leaf matching any non-empty answer.
func Answered(key string) *Condition {
	return &Condition{Key: key, Op: OpAnswered}
}

func (c Condition) operator() Operator {
	if c.Op == "" {
		return OpEquals
	}
	return c.Op
}

// Match evaluates the condition against the answers.
func (c Condition) Match(answers Answers) bool {
	for _, sub := range c.All {
		if !sub.Match(answers) {
			return false
		}
	}
	if len(c.Any) > 0 {
		matched := false
		for _, sub := range c.Any {
			if sub.Match(answers) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if c.Key == "" {
		return true
	}

	ans, ok := answers[c.Key]
	switch c.operator() {
	case OpEquals:
		return ok && ans.Value == c.Value
	case OpNotEquals:
		return !ok || ans.Value != c.Value
	case OpIn:
		return ok && contains(c.Values, ans.Value)
	case OpNotIn:
		return !ok || !contains(c.Values, ans.Value)
	case OpIncludes:
		return ok && ans.Has(c.Value)
	case OpAnswered:
		return ok && !ans.Empty()
	}
	return false
}

// Keys returns every answer key the condition reads.
func (c Condition) Keys() []string {
	var keys []string
	if c.Key != "" {
		keys = append(keys, c.Key)
	}
	for _, sub := range c.All {
		keys = append(keys, sub.Keys()...)
	}
	for _, sub := range c.Any {
		keys = append(keys, sub.Keys()...)
	}
	return keys
}

// Leaves returns every leaf comparison in depth-first order.
func (c Condition) Leaves() []Condition {
	var out []Condition
	if c.Key != "" {
		leaf := c
		leaf.All, leaf.Any = nil, nil
		out = append(out, leaf)
	}
	for _, sub := range c.All {
		out = append(out, sub.Leaves()...)
	}
	for _, sub := range c.Any {
		out = append(out, sub.Leaves()...)
	}
	return out
}

// Validate checks the operator names used anywhere in the condition.
func (c Condition) Validate() error {
	if c.Key == "" && len(c.All) == 0 && len(c.Any) == 0 {
		return fmt.Errorf("condition has neither key nor sub-conditions")
	}
	if c.Key != "" {
		switch c.operator() {
		case OpEquals, OpNotEquals, OpIncludes, OpAnswered:
		case OpIn, OpNotIn:
			if len(c.Values) == 0 {
				return fmt.Errorf("operator %q on %q requires values", c.operator(), c.Key)
			}
		default:
			return fmt.Errorf("unknown operator %q on %q", c.Op, c.Key)
		}
	}
	for _, sub := range c.All {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	for _, sub := range c.Any {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the condition for diagrams and logs.
func (c Condition) String() string {
	var s string
	if c.Key != "" {
		switch c.operator() {
		case OpEquals:
			s = fmt.Sprintf("%s = %s", c.Key, c.Value)
		case OpNotEquals:
			s = fmt.Sprintf("%s != %s", c.Key, c.Value)
		case OpIn:
			s = fmt.Sprintf("%s in %v", c.Key, c.Values)
		case OpNotIn:
			s = fmt.Sprintf("%s not in %v", c.Key, c.Values)
		case OpIncludes:
			s = fmt.Sprintf("%s has %s", c.Key, c.Value)
		case OpAnswered:
			s = fmt.Sprintf("%s answered", c.Key)
		default:
			s = fmt.Sprintf("%s %s %s", c.Key, c.Op, c.Value)
		}
	}
	join := func(acc, sep string, subs []Condition) string {
		for _, sub := range subs {
			if acc != "" {
				acc += sep
			}
			acc += sub.String()
		}
		return acc
	}
	s = join(s, " and ", c.All)
	if len(c.Any) > 0 {
		anyPart := join("", " or ", c.Any)
		if s != "" {
			s += " and (" + anyPart + ")"
		} else {
			s = anyPart
		}
	}
	return s
}

// Clone returns a deep copy of the condition.
func (c Condition) Clone() Condition {
	out := c
	if c.Values != nil {
		out.Values = append([]string(nil), c.Values...)
	}
	if c.All != nil {
		out.All = make([]Condition, len(c.All))
		for i, sub := range c.All {
			out.All[i] = sub.Clone()
		}
	}
	if c.Any != nil {
		out.Any = make([]Condition, len(c.Any))
		for i, sub := range c.Any {
			out.Any[i] = sub.Clone()
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
