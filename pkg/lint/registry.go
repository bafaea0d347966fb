package lint

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/docsniff/pkg/core"
	"github.com/leapstack-labs/docsniff/pkg/token"
)

// globalRegistry is the single global registry for all sniffs.
var globalRegistry = &Registry{
	sniffs: make(map[string]Sniff),
}

// Registry stores registered sniffs for discovery.
type Registry struct {
	mu     sync.RWMutex
	sniffs map[string]Sniff // keyed by ID
}

// Register adds a data-driven sniff to the global registry.
// Call this from init() functions in rule packages.
func Register(def SniffDef) {
	RegisterSniff(WrapSniffDef(def))
}

// RegisterSniff adds a sniff to the global registry.
func RegisterSniff(s Sniff) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.sniffs[s.ID()] = s
}

// GetAll returns all registered sniffs ordered by ID.
func GetAll() []Sniff {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	sniffs := make([]Sniff, 0, len(globalRegistry.sniffs))
	for _, s := range globalRegistry.sniffs {
		sniffs = append(sniffs, s)
	}
	sort.Slice(sniffs, func(i, j int) bool { return sniffs[i].ID() < sniffs[j].ID() })
	return sniffs
}

// GetByID returns a sniff by its ID.
func GetByID(id string) (Sniff, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	s, ok := globalRegistry.sniffs[id]
	return s, ok
}

// GetByGroup returns all sniffs in a specific group, ordered by ID.
func GetByGroup(group string) []Sniff {
	var sniffs []Sniff
	for _, s := range GetAll() {
		if s.Group() == group {
			sniffs = append(sniffs, s)
		}
	}
	return sniffs
}

// GetByToken returns the sniffs listening for kind, ordered by ID.
func GetByToken(kind token.Kind) []Sniff {
	var sniffs []Sniff
	for _, s := range GetAll() {
		for _, k := range s.Tokens() {
			if k == kind {
				sniffs = append(sniffs, s)
				break
			}
		}
	}
	return sniffs
}

// AllRules returns metadata for all registered sniffs.
func AllRules() []core.RuleInfo {
	all := GetAll()
	rules := make([]core.RuleInfo, 0, len(all))
	for _, s := range all {
		rules = append(rules, GetRuleInfo(s))
	}
	return rules
}

// Count returns the number of registered sniffs.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.sniffs)
}

// Clear removes all registered sniffs. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.sniffs = make(map[string]Sniff)
}
