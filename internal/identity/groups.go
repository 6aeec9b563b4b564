package identity

import (
	"slices"

	"ReviewConsole/internal/domain"
)

// RoleMap maps paper number to anon id to the alias holding that seat.
type RoleMap map[int]map[string]string

// Alias returns the member behind an anon id on a paper.
func (m RoleMap) Alias(paper int, anonID string) (string, bool) {
	alias, ok := m[paper][anonID]
	return alias, ok
}

// Papers returns the paper numbers with at least one seat, ascending.
func (m RoleMap) Papers() []int {
	papers := make([]int, 0, len(m))
	for paper := range m {
		papers = append(papers, paper)
	}
	slices.Sort(papers)
	return papers
}

// AnonIDs returns the anon ids seated on a paper in display order.
func (m RoleMap) AnonIDs(paper int) []string {
	seats := m[paper]
	ids := make([]string, 0, len(seats))
	for id := range seats {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, domain.CompareAnonIDs)
	return ids
}

type anonSeat struct {
	paper   int
	groupID string
	anonID  string
	member  string
}

// DroppedSeat is an anonymous group whose holder is not listed in the
// paper's plural group.
type DroppedSeat struct {
	Paper   int
	GroupID string
	Member  string
}

// BuildRoleMap pairs each anonymous group of the scheme with its member
// for every paper listed in papers.
//
// When the plural group for a paper is present, only anonymous groups
// whose first member also belongs to the plural group are recorded, so
// members removed from the paper drop out even if their anonymous group
// lingers. When the plural group is absent, every anonymous group counts.
// Groups without members, and papers not listed, are ignored.
func BuildRoleMap(groups []domain.Group, papers []int, scheme Scheme) RoleMap {
	roleMap, _ := BuildRoleMapWithDropped(groups, papers, scheme)
	return roleMap
}

// BuildRoleMapWithDropped is BuildRoleMap that also returns the anonymous
// groups left out because their holder is missing from the plural group.
func BuildRoleMapWithDropped(groups []domain.Group, papers []int, scheme Scheme) (RoleMap, []DroppedSeat) {
	wanted := make(map[int]struct{}, len(papers))
	for _, paper := range papers {
		wanted[paper] = struct{}{}
	}

	plural := make(map[int]map[string]struct{})
	var seats []anonSeat

	for _, group := range groups {
		if len(group.Members) == 0 {
			continue
		}
		paper, suffix, ok := ParseGroupID(group.ID)
		if !ok {
			continue
		}
		if _, ok := wanted[paper]; !ok {
			continue
		}

		kind, anonID := scheme.Classify(suffix)
		switch kind {
		case GroupPlural:
			members := plural[paper]
			if members == nil {
				members = make(map[string]struct{}, len(group.Members))
				plural[paper] = members
			}
			for _, member := range group.Members {
				members[member] = struct{}{}
			}
		case GroupAnon:
			seats = append(seats, anonSeat{paper: paper, groupID: group.ID, anonID: anonID, member: group.Members[0]})
		}
	}

	roleMap := make(RoleMap)
	var dropped []DroppedSeat
	for _, seat := range seats {
		if members, ok := plural[seat.paper]; ok {
			if _, assigned := members[seat.member]; !assigned {
				dropped = append(dropped, DroppedSeat{Paper: seat.paper, GroupID: seat.groupID, Member: seat.member})
				continue
			}
		}
		paperSeats := roleMap[seat.paper]
		if paperSeats == nil {
			paperSeats = make(map[string]string)
			roleMap[seat.paper] = paperSeats
		}
		// anon ids are unique per paper; a repeated group id keeps its first member.
		if _, taken := paperSeats[seat.anonID]; taken {
			continue
		}
		paperSeats[seat.anonID] = seat.member
	}

	return roleMap, dropped
}

// ReverseByParticipant projects a role map onto alias -> papers, with
// paper numbers ascending and de-duplicated.
func ReverseByParticipant(roleMap RoleMap) map[string][]int {
	reverse := make(map[string][]int)
	for _, paper := range roleMap.Papers() {
		for _, alias := range roleMap[paper] {
			papers := reverse[alias]
			if len(papers) > 0 && papers[len(papers)-1] == paper {
				continue
			}
			reverse[alias] = append(papers, paper)
		}
	}
	return reverse
}
