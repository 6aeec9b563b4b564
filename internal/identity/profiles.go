package identity

import (
	"strings"

	"ReviewConsole/internal/domain"
)

// ProfileIndex resolves any known alias (profile id, username, confirmed
// email) to its profile in a single lookup. Build one per pass.
type ProfileIndex map[string]*domain.Profile

// NewProfileIndex keys every profile by its id, each username and each
// confirmed email. When two profiles claim the same alias the first wins.
func NewProfileIndex(profiles []domain.Profile) ProfileIndex {
	index := make(ProfileIndex, len(profiles)*3)
	for i := range profiles {
		profile := &profiles[i]
		index.add(profile.ID, profile)
		for _, name := range profile.Names {
			index.add(name.Username, profile)
		}
		for _, email := range profile.ConfirmedEmails {
			index.add(email, profile)
		}
	}
	return index
}

func (idx ProfileIndex) add(alias string, profile *domain.Profile) {
	key := normalizeAlias(alias)
	if key == "" {
		return
	}
	if _, exists := idx[key]; exists {
		return
	}
	idx[key] = profile
}

// Lookup returns the profile claiming alias.
func (idx ProfileIndex) Lookup(alias string) (*domain.Profile, bool) {
	profile, ok := idx[normalizeAlias(alias)]
	return profile, ok
}

// normalizeAlias lowercases emails; profile ids are case-sensitive.
func normalizeAlias(alias string) string {
	alias = strings.TrimSpace(alias)
	if strings.Contains(alias, "@") {
		return strings.ToLower(alias)
	}
	return alias
}

// ResolveCanonical maps an alias to its canonical participant. Aliases with
// no profile (plain emails, unregistered invitees) yield a stub whose id,
// email and name all equal the alias.
func ResolveCanonical(alias string, index ProfileIndex) domain.Participant {
	if profile, ok := index.Lookup(alias); ok {
		return participantFromProfile(profile)
	}
	return domain.Participant{
		ID:      alias,
		Name:    alias,
		Email:   alias,
		Aliases: []string{alias},
		Stub:    true,
	}
}

func participantFromProfile(profile *domain.Profile) domain.Participant {
	id := profile.ID
	if id == "" {
		for _, name := range profile.Names {
			if name.Username != "" {
				id = name.Username
				break
			}
		}
	}

	name := profile.PreferredName()
	if name == "" {
		name = id
	}

	aliases := make([]string, 0, 1+len(profile.Names)+len(profile.ConfirmedEmails))
	aliases = append(aliases, id)
	for _, n := range profile.Names {
		aliases = append(aliases, n.Username)
	}
	aliases = append(aliases, profile.ConfirmedEmails...)

	return domain.Participant{
		ID:      id,
		Name:    name,
		Email:   profile.PreferredEmail(),
		Aliases: dedupeAliases(aliases),
	}
}

// dedupeAliases drops blanks and repeats, preserving first-seen order.
func dedupeAliases(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		key := normalizeAlias(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
