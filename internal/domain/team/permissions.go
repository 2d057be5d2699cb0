package team

import (
	"sort"
	"strings"
)

// NormalizePermissions converts the legacy mixed permission encoding into
// fully-qualified strings. Group-to-array entries become "group.leaf"
// (lowercased); synthesized boolean keys ("view_ropa_infovoyage": true)
// contribute the key itself. Unknown value shapes are skipped.
func NormalizePermissions(raw map[string]any) []string {
	set := map[string]bool{}
	for key, value := range raw {
		switch v := value.(type) {
		case bool:
			if v {
				set[strings.ToLower(strings.TrimSpace(key))] = true
			}
		case []string:
			for _, leaf := range v {
				addQualified(set, key, leaf)
			}
		case []any:
			for _, leaf := range v {
				if s, ok := leaf.(string); ok {
					addQualified(set, key, s)
				}
			}
		}
	}
	return sortedKeys(set)
}

func addQualified(set map[string]bool, group, leaf string) {
	group = strings.ToLower(strings.TrimSpace(group))
	leaf = strings.ToLower(strings.TrimSpace(leaf))
	if group == "" || leaf == "" {
		return
	}
	set[group+"."+leaf] = true
}

// GroupOf returns the permission-group part of a qualified permission. A
// string without a dot groups under itself, which is how the legacy
// flattened keys surface.
func GroupOf(perm string) string {
	if idx := strings.Index(perm, "."); idx > 0 {
		return perm[:idx]
	}
	return perm
}

// EffectivePermissions computes a user's permission set as the union over
// every team the user belongs to, grouped by permission group. Unknown team
// ids are skipped: a stale reference after a team deletion degrades to no
// grants rather than an error. The result is order-independent and
// recomputing from the same inputs always yields the same sets.
func EffectivePermissions(user User, lookup func(teamID string) (Team, bool)) map[string][]string {
	set := map[string]bool{}
	for _, teamID := range user.TeamIDs {
		t, ok := lookup(teamID)
		if !ok {
			continue
		}
		for _, perm := range t.Permissions {
			perm = strings.ToLower(strings.TrimSpace(perm))
			if perm != "" {
				set[perm] = true
			}
		}
	}

	out := map[string][]string{}
	for perm := range set {
		group := GroupOf(perm)
		out[group] = append(out[group], perm)
	}
	for group := range out {
		sort.Strings(out[group])
	}
	return out
}

// Flatten collapses grouped effective permissions into a lookup set.
func Flatten(effective map[string][]string) map[string]bool {
	set := map[string]bool{}
	for _, perms := range effective {
		for _, perm := range perms {
			set[perm] = true
		}
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
