package core

import (
	"context"
	"strings"
	"sync"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// Resolver assigns each app exactly one category from the fixed set, via a
// layered precedence: manual override, then persistent cache, then the
// external classifier when one is configured, then the deterministic keyword
// heuristic, ending in the catch-all. Overrides are never overwritten.
//
// New non-override classifications are collected into a pending set and
// persisted once per run, and only when the set is non-empty. Cache access is
// serialized so concurrent external fan-out cannot lose updates.
type Resolver struct {
	mu         sync.Mutex
	overrides  map[string]schema.Category
	cache      map[string]schema.Category
	pending    map[string]schema.Category
	classifier contract.Classifier
}

// NewResolver builds a resolver over the run's override and cache maps.
// classifier may be nil, in which case the keyword heuristic is the terminal
// strategy.
func NewResolver(overrides, cache map[string]schema.Category, classifier contract.Classifier) *Resolver {
	if overrides == nil {
		overrides = make(map[string]schema.Category)
	}
	if cache == nil {
		cache = make(map[string]schema.Category)
	}
	return &Resolver{
		overrides:  overrides,
		cache:      cache,
		pending:    make(map[string]schema.Category),
		classifier: classifier,
	}
}

// Resolve returns the category for one app. It never returns an empty or
// out-of-set label.
func (r *Resolver) Resolve(ctx context.Context, appID, appName, genre string) schema.Category {
	r.mu.Lock()
	if cat, ok := r.overrides[appID]; ok {
		r.mu.Unlock()
		return cat
	}
	if cat, ok := r.cache[appID]; ok {
		r.mu.Unlock()
		return cat
	}
	r.mu.Unlock()

	if r.classifier != nil {
		cat, err := r.classifier.Classify(ctx, appName, genre)
		if err != nil {
			// A failed call is a final miss for this run. Not cached, so the
			// next scheduled run retries.
			contract.LogWarn("classifier call failed for "+appID, err)
			return schema.CatchAllCategory
		}
		if !schema.IsValidCategory(cat) {
			cat = schema.CatchAllCategory
		}
		r.remember(appID, cat)
		return cat
	}

	cat := HeuristicCategory(appName, genre)
	r.remember(appID, cat)
	return cat
}

// remember records a new non-override classification for persistence.
func (r *Resolver) remember(appID string, cat schema.Category) {
	r.mu.Lock()
	r.cache[appID] = cat
	r.pending[appID] = cat
	r.mu.Unlock()
}

// Pending returns the classifications written during this run. Empty means
// the persistent cache does not need to be saved.
func (r *Resolver) Pending() map[string]schema.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]schema.Category, len(r.pending))
	for k, v := range r.pending {
		out[k] = v
	}
	return out
}

// Keyword sets for the deterministic heuristic, evaluated in a fixed priority
// order. The genre is only consulted for role-playing; everything else keys
// off the app name.
var heuristicRules = []struct {
	category schema.Category
	onGenre  bool
	keywords []string
}{
	{schema.RolePlayingCategory, true, []string{"rpg", "adventure", "role"}},
	{schema.SocialCasinoCategory, false, []string{"casino", "poker", "slot", "賭場"}},
	{schema.StrategyCategory, false, []string{"strategy", "war", "clash", "empire", "對戰", "戰鬥"}},
	{schema.ActionCategory, false, []string{"action", "battle", "shooter", "moba", "動作", "競技"}},
	{schema.SimulationCategory, false, []string{"sim", "tycoon", "farm", "city", "模擬", "沙盒"}},
	{schema.CasualCategory, false, []string{"merge", "match", "puzzle", "idle", "休閒", "益智"}},
}

// HeuristicCategory classifies an app by substring match against the fixed
// keyword sets, falling through to the catch-all so every app receives
// exactly one category.
func HeuristicCategory(appName, genre string) schema.Category {
	name := strings.ToLower(appName)
	genre = strings.ToLower(genre)
	for _, rule := range heuristicRules {
		haystack := name
		if rule.onGenre {
			haystack = genre
		}
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.category
			}
		}
	}
	return schema.CatchAllCategory
}
