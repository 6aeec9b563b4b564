package identity

import (
	"slices"
	"strings"

	"ReviewConsole/internal/domain"
)

// Directory joins the profile index with the role maps of one pass. It
// memoizes resolution so every alias yields the same Participant for the
// lifetime of the pass, and indexes assignments by canonical id so any
// alias of a participant finds all of their seats.
//
// A Directory is built per pass and is not safe for concurrent use.
type Directory struct {
	profiles    ProfileIndex
	roles       map[domain.Role]RoleMap
	resolved    map[string]domain.Participant
	assignments map[string][]domain.Assignment
	members     map[domain.Role][]string
	misses      []string
}

// NewDirectory indexes every seat of every role map.
func NewDirectory(profiles ProfileIndex, roles map[domain.Role]RoleMap) *Directory {
	d := &Directory{
		profiles:    profiles,
		roles:       roles,
		resolved:    make(map[string]domain.Participant),
		assignments: make(map[string][]domain.Assignment),
		members:     make(map[domain.Role][]string),
	}

	roleNames := make([]domain.Role, 0, len(roles))
	for role := range roles {
		roleNames = append(roleNames, role)
	}
	slices.Sort(roleNames)

	for _, role := range roleNames {
		roleMap := roles[role]
		seen := make(map[string]struct{})
		for _, paper := range roleMap.Papers() {
			for _, anonID := range roleMap.AnonIDs(paper) {
				alias := roleMap[paper][anonID]
				canonical := d.Resolve(alias).ID
				d.assignments[canonical] = append(d.assignments[canonical], domain.Assignment{
					Paper:  paper,
					Role:   role,
					AnonID: anonID,
					Alias:  alias,
				})
				if _, ok := seen[canonical]; !ok {
					seen[canonical] = struct{}{}
					d.members[role] = append(d.members[role], canonical)
				}
			}
		}
		slices.Sort(d.members[role])
	}

	return d
}

// Resolve returns the canonical participant for alias. Misses are
// remembered and reported by Misses.
func (d *Directory) Resolve(alias string) domain.Participant {
	key := normalizeAlias(alias)
	if participant, ok := d.resolved[key]; ok {
		return participant
	}
	participant := ResolveCanonical(strings.TrimSpace(alias), d.profiles)
	if participant.Stub {
		d.misses = append(d.misses, participant.ID)
	}
	d.resolved[key] = participant
	return participant
}

// Assignments returns every seat held by the participant behind
// aliasOrID, ordered by role, paper and anon id.
func (d *Directory) Assignments(aliasOrID string) []domain.Assignment {
	canonical := d.Resolve(aliasOrID).ID
	return slices.Clone(d.assignments[canonical])
}

// AssignmentsIn narrows Assignments to one role.
func (d *Directory) AssignmentsIn(aliasOrID string, role domain.Role) []domain.Assignment {
	var out []domain.Assignment
	for _, a := range d.Assignments(aliasOrID) {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out
}

// Members returns the canonical participants seated in role, by id.
func (d *Directory) Members(role domain.Role) []domain.Participant {
	ids := d.members[role]
	out := make([]domain.Participant, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.Resolve(id))
	}
	return out
}

// RoleMap returns the role map the directory was built from.
func (d *Directory) RoleMap(role domain.Role) RoleMap {
	return d.roles[role]
}

// Same reports whether two aliases resolve to the same participant.
func (d *Directory) Same(a, b string) bool {
	return d.Resolve(a).ID == d.Resolve(b).ID
}

// Misses lists the aliases that resolved to stubs, in first-seen order.
func (d *Directory) Misses() []string {
	return slices.Clone(d.misses)
}
