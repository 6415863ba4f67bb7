// Package mapper resolves free-text vehicle descriptions into canonical
// make/model pairs using a prioritized, pattern-based rule set.
package mapper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
	"github.com/gearpost/fitment/internal/service"
)

// Match is one resolved candidate for a vehicle description, together
// with the rule that produced it.
type Match struct {
	Mapping model.ModelMapping
	Rule    model.ModelMappingRule
}

// compiledRule is a rule prepared for matching: pattern lower-cased once,
// wildcard patterns translated to an anchored regexp at index build.
type compiledRule struct {
	regex   *regexp.Regexp
	pattern string
	rule    model.ModelMappingRule
}

type ruleIndex struct {
	rules []compiledRule
}

// Mapper matches vehicle text against the active rule index. The index is
// rebuilt wholesale and swapped atomically, so concurrent readers always
// see either the previous or the new complete rule set.
type Mapper struct {
	index atomic.Pointer[ruleIndex]
}

// New creates a Mapper with an empty rule index.
func New() *Mapper {
	m := &Mapper{}
	m.index.Store(&ruleIndex{})
	return m
}

// FindModelMapping returns every active rule match for the vehicle text,
// ordered by priority descending, then pattern length descending, then
// rule ID. An empty result means the vehicle is unmapped; it is not an
// error.
func (m *Mapper) FindModelMapping(vehicleText string) []Match {
	idx := m.index.Load()
	text := strings.ToLower(vehicleText)

	var matches []Match
	for _, cr := range idx.rules {
		if cr.matches(text) {
			matches = append(matches, Match{Mapping: cr.rule.Mapping, Rule: cr.rule})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Rule, matches[j].Rule
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if len(a.Pattern) != len(b.Pattern) {
			return len(a.Pattern) > len(b.Pattern)
		}
		return a.ID < b.ID
	})

	return matches
}

func (cr *compiledRule) matches(loweredText string) bool {
	if cr.regex != nil {
		return cr.regex.MatchString(loweredText)
	}
	return strings.Contains(loweredText, cr.pattern)
}

// RuleCount reports the size of the active index.
func (m *Mapper) RuleCount() int {
	return len(m.index.Load().rules)
}

// Configure builds a fresh index from the given rules and swaps it in.
// On any malformed rule the previous index stays active.
func (m *Mapper) Configure(rules []model.ModelMappingRule) error {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		if rule.Pattern == "" {
			return fmt.Errorf("%w: rule %d has empty pattern", common.ErrMappingCorrupt, rule.ID)
		}
		if rule.Mapping.Make == "" || rule.Mapping.Model == "" {
			return fmt.Errorf("%w: rule %d mapping missing make or model", common.ErrMappingCorrupt, rule.ID)
		}

		cr := compiledRule{rule: rule, pattern: strings.ToLower(rule.Pattern)}
		if rule.IsWildcard() {
			re, err := compileWildcard(cr.pattern)
			if err != nil {
				return fmt.Errorf("%w: rule %d pattern %q: %v", common.ErrMappingCorrupt, rule.ID, rule.Pattern, err)
			}
			cr.regex = re
		}
		compiled = append(compiled, cr)
	}

	m.index.Store(&ruleIndex{rules: compiled})
	return nil
}

// ConfigureFromStore reloads active rules from the rule store and swaps
// the index atomically.
func (m *Mapper) ConfigureFromStore(ctx context.Context, store service.Storage) error {
	rules, err := store.ListMappingRules(ctx, true)
	if err != nil {
		return fmt.Errorf("loading mapping rules: %w", err)
	}
	return m.Configure(rules)
}

// ConfigureFromFile loads rules from a bulk-import JSON document shaped
// as mapping string -> array of patterns.
func (m *Mapper) ConfigureFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening mapping file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var doc map[string][]string
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", common.ErrMappingCorrupt, path, err)
	}

	rules, err := RulesFromImport(doc, 0)
	if err != nil {
		return err
	}
	return m.Configure(rules)
}

// RulesFromImport expands the bulk-import document into rules, one per
// (mapping, pattern) pair. Mapping keys are sorted so assigned IDs are
// deterministic.
func RulesFromImport(doc map[string][]string, priority int) ([]model.ModelMappingRule, error) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rules []model.ModelMappingRule
	id := 1
	for _, key := range keys {
		mapping, err := model.ParseModelMapping(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrMappingCorrupt, err)
		}
		for _, pattern := range doc[key] {
			rules = append(rules, model.ModelMappingRule{
				ID:       id,
				Pattern:  pattern,
				Mapping:  mapping,
				Priority: priority,
				IsActive: true,
			})
			id++
		}
	}
	return rules, nil
}

// compileWildcard translates a glob pattern ('*' and '?') into an
// unanchored regexp over the lowered text.
func compileWildcard(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return regexp.Compile(sb.String())
}
