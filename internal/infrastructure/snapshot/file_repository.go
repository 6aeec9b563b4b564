package snapshot

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/ports"
)

// FileRepository serves venue data from a YAML (or JSON) snapshot file.
// The file is re-read whenever its modification time changes, so a watch
// loop picks up edits without a restart.
type FileRepository struct {
	path string

	mu       sync.Mutex
	modTime  time.Time
	snapshot domain.Snapshot
	loaded   bool
}

var _ ports.DataRepository = (*FileRepository)(nil)

// NewFileRepository points the repository at a snapshot file.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) load() (domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := os.Stat(r.path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("stat snapshot: %w", err)
	}
	if r.loaded && info.ModTime().Equal(r.modTime) {
		return r.snapshot, nil
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot domain.Snapshot
	if err := yaml.Unmarshal(raw, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse snapshot %s: %w", r.path, err)
	}

	r.snapshot = snapshot
	r.modTime = info.ModTime()
	r.loaded = true
	return snapshot, nil
}

// FetchGroups returns groups whose id matches idPattern anywhere.
func (r *FileRepository) FetchGroups(ctx context.Context, idPattern string) ([]domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	expr, err := regexp.Compile(idPattern)
	if err != nil {
		return nil, fmt.Errorf("compile group pattern: %w", err)
	}
	snapshot, err := r.load()
	if err != nil {
		return nil, err
	}

	var out []domain.Group
	for _, group := range snapshot.Groups {
		if expr.MatchString(group.ID) {
			out = append(out, group)
		}
	}
	return out, nil
}

// FetchNotes returns notes of every kind whose invitation matches the
// whole invitationPattern.
func (r *FileRepository) FetchNotes(ctx context.Context, invitationPattern string, filter ports.NoteFilter) ([]domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	expr, err := regexp.Compile("^(?:" + invitationPattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("compile invitation pattern: %w", err)
	}
	snapshot, err := r.load()
	if err != nil {
		return nil, err
	}

	forums := make(map[string]struct{}, len(filter.Forums))
	for _, forum := range filter.Forums {
		forums[forum] = struct{}{}
	}

	var out []domain.Note
	for _, notes := range [][]domain.Note{snapshot.Submissions, snapshot.Reviews, snapshot.MetaReviews, snapshot.Decisions} {
		for _, note := range notes {
			if !expr.MatchString(note.Invitation) {
				continue
			}
			if len(forums) > 0 {
				if _, ok := forums[note.Forum]; !ok {
					continue
				}
			}
			out = append(out, note)
		}
	}
	return out, nil
}

// FetchTags returns tags posted under invitation.
func (r *FileRepository) FetchTags(ctx context.Context, invitation string) ([]domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot, err := r.load()
	if err != nil {
		return nil, err
	}

	var out []domain.Tag
	for _, tag := range snapshot.Tags {
		if tag.Invitation == invitation {
			out = append(out, tag)
		}
	}
	return out, nil
}

// FetchProfiles returns each profile known under any of idsOrEmails once.
func (r *FileRepository) FetchProfiles(ctx context.Context, idsOrEmails []string) ([]domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot, err := r.load()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(idsOrEmails))
	for _, alias := range idsOrEmails {
		wanted[strings.ToLower(strings.TrimSpace(alias))] = struct{}{}
	}

	var out []domain.Profile
	for _, profile := range snapshot.Profiles {
		if profileMatches(profile, wanted) {
			out = append(out, profile)
		}
	}
	return out, nil
}

func profileMatches(profile domain.Profile, wanted map[string]struct{}) bool {
	keys := []string{profile.ID}
	for _, name := range profile.Names {
		keys = append(keys, name.Username)
	}
	keys = append(keys, profile.ConfirmedEmails...)
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, ok := wanted[strings.ToLower(key)]; ok {
			return true
		}
	}
	return false
}
