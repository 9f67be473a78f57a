package lint

import (
	"cmp"
	"slices"
	"sync"
)

// Registry holds all registered rules and the element-name index used by
// the evaluator. The index is rebuilt on registration and read-only during
// a run, so it may be shared across parallel file evaluations.
type Registry struct {
	mu        sync.RWMutex
	byID      map[string]*Rule
	byName    map[string]*Rule
	byElement map[string][]*Rule
	globals   []*Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:      make(map[string]*Rule),
		byName:    make(map[string]*Rule),
		byElement: make(map[string][]*Rule),
	}
}

// Register adds a rule to the registry.
// If a rule with the same ID already exists, it is replaced.
func (r *Registry) Register(rule *Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byID[rule.ID]; ok {
		r.removeFromIndex(old)
		delete(r.byName, old.Name)
	}

	r.byID[rule.ID] = rule
	if rule.Name != "" {
		r.byName[rule.Name] = rule
	}

	if rule.IsGlobal() {
		r.globals = append(r.globals, rule)
	} else {
		r.byElement[rule.Target] = append(r.byElement[rule.Target], rule)
	}
}

// RegisterAll adds a batch of rules.
func (r *Registry) RegisterAll(rules []*Rule) {
	for _, rule := range rules {
		r.Register(rule)
	}
}

func (r *Registry) removeFromIndex(rule *Rule) {
	if rule.IsGlobal() {
		r.globals = slices.DeleteFunc(r.globals, func(candidate *Rule) bool {
			return candidate.ID == rule.ID
		})
		return
	}
	r.byElement[rule.Target] = slices.DeleteFunc(r.byElement[rule.Target], func(candidate *Rule) bool {
		return candidate.ID == rule.ID
	})
}

// Get retrieves a rule by ID or name.
// It tries ID first, then falls back to name lookup.
func (r *Registry) Get(key string) (*Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID[key]; ok {
		return rule, true
	}
	if rule, ok := r.byName[key]; ok {
		return rule, true
	}
	return nil, false
}

// GetByID retrieves a rule by its ID only.
func (r *Registry) GetByID(id string) (*Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byID[id]
	return rule, ok
}

// RulesForElement returns the rules targeting the given tag name.
// The returned slice is shared; callers must not mutate it.
func (r *Registry) RulesForElement(element string) []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byElement[element]
}

// GlobalRules returns rules with no target filter, which apply to every
// node including the synthetic root.
// The returned slice is shared; callers must not mutate it.
func (r *Registry) GlobalRules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.globals
}

// Rules returns all registered rules sorted by ID.
func (r *Registry) Rules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		result = append(result, rule)
	}

	// Sort by rule ID for consistent, deterministic output.
	slices.SortFunc(result, func(a, b *Rule) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return result
}

// IDs returns all registered rule IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byID))
	for id := range r.byID {
		result = append(result, id)
	}

	slices.Sort(result)
	return result
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// DefaultRegistry is the global registry for built-in rules.
// Rules register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var DefaultRegistry = NewRegistry()
