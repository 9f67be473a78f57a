// Package lint provides the rule engine, diagnostics, and registry for goxmlint.
package lint

import (
	"regexp"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yaklabco/goxmlint/pkg/markup"
)

// CompareOp is a numeric comparison operator for ChildCount conditions.
type CompareOp string

const (
	OpEq CompareOp = "eq"
	OpNe CompareOp = "ne"
	OpGt CompareOp = "gt"
	OpGe CompareOp = "ge"
	OpLt CompareOp = "lt"
	OpLe CompareOp = "le"
)

// ConditionKind discriminates the Condition union.
type ConditionKind string

const (
	CondAlways              ConditionKind = "always"
	CondAttributeExists     ConditionKind = "attribute_exists"
	CondAttributeMissing    ConditionKind = "attribute_missing"
	CondAttributeEquals     ConditionKind = "attribute_equals"
	CondAttributeNotEquals  ConditionKind = "attribute_not_equals"
	CondAttributeMatches    ConditionKind = "attribute_matches"
	CondAttributeNotMatches ConditionKind = "attribute_not_matches"
	CondAttributeIn         ConditionKind = "attribute_in"
	CondAttributeNotIn      ConditionKind = "attribute_not_in"
	CondChildCount          ConditionKind = "child_count"
	CondHasChild            ConditionKind = "has_child"
	CondMissingChild        ConditionKind = "missing_child"
	CondParentNotIn         ConditionKind = "parent_not_in"
	CondTextMatches         ConditionKind = "text_matches"
	CondTextNotMatches      ConditionKind = "text_not_matches"
	CondAll                 ConditionKind = "all"
	CondAny                 ConditionKind = "any"
	CondNot                 ConditionKind = "not"
)

// Condition is a boolean predicate tree over a node's attributes and
// structure. It is a tagged union: Kind selects which fields are meaningful.
// Conditions are immutable values and safe to share across goroutines.
type Condition struct {
	Kind ConditionKind

	// Attr is the attribute name for attribute predicates.
	Attr string

	// Value is the comparison value or regex pattern.
	Value string

	// Values is the value set for In/NotIn and the element allow-list
	// for ParentNotIn.
	Values []string

	// Element is the child tag name for ChildCount/HasChild/MissingChild.
	Element string

	// Op and Count parameterize ChildCount.
	Op    CompareOp
	Count int

	// Nested holds sub-conditions for All/Any/Not.
	Nested []Condition
}

// Constructors for each condition variant.

func Always() Condition { return Condition{Kind: CondAlways} }

func AttributeExists(name string) Condition {
	return Condition{Kind: CondAttributeExists, Attr: name}
}

func AttributeMissing(name string) Condition {
	return Condition{Kind: CondAttributeMissing, Attr: name}
}

func AttributeEquals(name, value string) Condition {
	return Condition{Kind: CondAttributeEquals, Attr: name, Value: value}
}

func AttributeNotEquals(name, value string) Condition {
	return Condition{Kind: CondAttributeNotEquals, Attr: name, Value: value}
}

func AttributeMatches(name, pattern string) Condition {
	return Condition{Kind: CondAttributeMatches, Attr: name, Value: pattern}
}

func AttributeNotMatches(name, pattern string) Condition {
	return Condition{Kind: CondAttributeNotMatches, Attr: name, Value: pattern}
}

func AttributeIn(name string, values ...string) Condition {
	return Condition{Kind: CondAttributeIn, Attr: name, Values: values}
}

func AttributeNotIn(name string, values ...string) Condition {
	return Condition{Kind: CondAttributeNotIn, Attr: name, Values: values}
}

func ChildCount(element string, op CompareOp, count int) Condition {
	return Condition{Kind: CondChildCount, Element: element, Op: op, Count: count}
}

func HasChild(element string) Condition {
	return Condition{Kind: CondHasChild, Element: element}
}

func MissingChild(element string) Condition {
	return Condition{Kind: CondMissingChild, Element: element}
}

func ParentNotIn(elements ...string) Condition {
	return Condition{Kind: CondParentNotIn, Values: elements}
}

func TextMatches(pattern string) Condition {
	return Condition{Kind: CondTextMatches, Value: pattern}
}

func TextNotMatches(pattern string) Condition {
	return Condition{Kind: CondTextNotMatches, Value: pattern}
}

func All(conditions ...Condition) Condition {
	return Condition{Kind: CondAll, Nested: conditions}
}

func Any(conditions ...Condition) Condition {
	return Condition{Kind: CondAny, Nested: conditions}
}

func Not(condition Condition) Condition {
	return Condition{Kind: CondNot, Nested: []Condition{condition}}
}

// regexCacheSize bounds the number of compiled patterns kept alive.
const regexCacheSize = 256

// Evaluator evaluates Conditions against nodes. It caches compiled regexes
// and is safe for concurrent use; a single Evaluator is shared across all
// workers of a run.
type Evaluator struct {
	regexes *lru.Cache[string, *regexp.Regexp]
}

// NewEvaluator creates an evaluator with an empty regex cache.
func NewEvaluator() *Evaluator {
	cache, err := lru.New[string, *regexp.Regexp](regexCacheSize)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	return &Evaluator{regexes: cache}
}

// Evaluate reports whether the condition holds for the node.
// It is pure: no attribute access ever panics, a missing attribute makes
// Equals/Matches/In false and Missing/NotEquals/NotMatches/NotIn true, and
// an invalid regex pattern never matches.
func (e *Evaluator) Evaluate(n *markup.Node, c Condition) bool {
	switch c.Kind {
	case CondAlways:
		return true

	case CondAttributeExists:
		return n.HasAttribute(c.Attr)

	case CondAttributeMissing:
		return !n.HasAttribute(c.Attr)

	case CondAttributeEquals:
		v, ok := n.Attribute(c.Attr)
		return ok && v == c.Value

	case CondAttributeNotEquals:
		v, ok := n.Attribute(c.Attr)
		return !ok || v != c.Value

	case CondAttributeMatches:
		v, ok := n.Attribute(c.Attr)
		return ok && e.matches(c.Value, v)

	case CondAttributeNotMatches:
		v, ok := n.Attribute(c.Attr)
		return !ok || !e.matches(c.Value, v)

	case CondAttributeIn:
		v, ok := n.Attribute(c.Attr)
		return ok && slices.Contains(c.Values, v)

	case CondAttributeNotIn:
		v, ok := n.Attribute(c.Attr)
		return !ok || !slices.Contains(c.Values, v)

	case CondChildCount:
		return compareCount(n.ChildCount(c.Element), c.Op, c.Count)

	case CondHasChild:
		return n.HasChild(c.Element)

	case CondMissingChild:
		return !n.HasChild(c.Element)

	case CondParentNotIn:
		// The synthetic root has no parent and is excluded.
		if n.Parent == nil {
			return false
		}
		return !slices.Contains(c.Values, n.Parent.Kind)

	case CondTextMatches:
		return e.matches(c.Value, n.Text)

	case CondTextNotMatches:
		return !e.matches(c.Value, n.Text)

	case CondAll:
		for _, sub := range c.Nested {
			if !e.Evaluate(n, sub) {
				return false
			}
		}
		return true

	case CondAny:
		for _, sub := range c.Nested {
			if e.Evaluate(n, sub) {
				return true
			}
		}
		return false

	case CondNot:
		if len(c.Nested) != 1 {
			return false
		}
		return !e.Evaluate(n, c.Nested[0])

	default:
		return false
	}
}

// matches compiles and caches the pattern, returning false when it is invalid.
func (e *Evaluator) matches(pattern, value string) bool {
	re, ok := e.regexes.Get(pattern)
	if !ok {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			compiled = nil
		}
		e.regexes.Add(pattern, compiled)
		re = compiled
	}
	if re == nil {
		return false
	}
	return re.MatchString(value)
}

func compareCount(actual int, op CompareOp, expected int) bool {
	switch op {
	case OpEq:
		return actual == expected
	case OpNe:
		return actual != expected
	case OpGt:
		return actual > expected
	case OpGe:
		return actual >= expected
	case OpLt:
		return actual < expected
	case OpLe:
		return actual <= expected
	default:
		return false
	}
}
