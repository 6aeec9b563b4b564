package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/ports"
)

//go:embed schema.sql
var schema string

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository reads a venue mirror kept in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.DataRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the mirror tables when they are missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func groupsQuery(idPattern string) sq.SelectBuilder {
	return psql.Select("id", "members").
		From("venue_groups").
		Where("id ~ ?", idPattern).
		OrderBy("id")
}

func notesQuery(invitationPattern string, filter ports.NoteFilter) sq.SelectBuilder {
	q := psql.Select("id", "forum", "number", "invitation", "signatures", "content", "tmdate").
		From("venue_notes").
		Where("invitation ~ ?", "^(?:"+invitationPattern+")$")
	if len(filter.Forums) > 0 {
		q = q.Where("forum = ANY(?)", pq.Array(filter.Forums))
	}
	return q.OrderBy("number", "tmdate", "id")
}

func tagsQuery(invitation string) sq.SelectBuilder {
	return psql.Select("forum", "invitation", "signatures", "tag").
		From("venue_tags").
		Where(sq.Eq{"invitation": invitation}).
		OrderBy("forum")
}

func profilesQuery(idsOrEmails []string) sq.SelectBuilder {
	lowered := make([]string, len(idsOrEmails))
	for i, alias := range idsOrEmails {
		lowered[i] = strings.ToLower(alias)
	}
	return psql.Select("id", "names", "emails", "confirmed_emails").
		From("profiles").
		Where(sq.Or{
			sq.Expr("id = ANY(?)", pq.Array(idsOrEmails)),
			sq.Expr("usernames && ?", pq.Array(idsOrEmails)),
			sq.Expr("confirmed_emails && ?", pq.Array(lowered)),
		}).
		OrderBy("id")
}

// FetchGroups returns groups whose id matches the POSIX pattern.
func (r *PostgresRepository) FetchGroups(ctx context.Context, idPattern string) ([]domain.Group, error) {
	rows, err := r.query(ctx, groupsQuery(idPattern))
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}

	var out []domain.Group
	err = scanAll(rows, func() error {
		var g domain.Group
		if err := rows.Scan(&g.ID, pq.Array(&g.Members)); err != nil {
			return err
		}
		out = append(out, g)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan groups: %w", err)
	}
	return out, nil
}

// FetchNotes returns notes whose invitation matches the whole pattern.
func (r *PostgresRepository) FetchNotes(ctx context.Context, invitationPattern string, filter ports.NoteFilter) ([]domain.Note, error) {
	rows, err := r.query(ctx, notesQuery(invitationPattern, filter))
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}

	var out []domain.Note
	err = scanAll(rows, func() error {
		var (
			n       domain.Note
			number  sql.NullInt64
			content []byte
		)
		if err := rows.Scan(&n.ID, &n.Forum, &number, &n.Invitation, pq.Array(&n.Signatures), &content, &n.Modified); err != nil {
			return err
		}
		n.Number = int(number.Int64)
		if len(content) > 0 {
			if err := json.Unmarshal(content, &n.Content); err != nil {
				return fmt.Errorf("decode content of %s: %w", n.ID, err)
			}
		}
		out = append(out, n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}
	return out, nil
}

// FetchTags returns tags posted under invitation.
func (r *PostgresRepository) FetchTags(ctx context.Context, invitation string) ([]domain.Tag, error) {
	rows, err := r.query(ctx, tagsQuery(invitation))
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}

	var out []domain.Tag
	err = scanAll(rows, func() error {
		var t domain.Tag
		if err := rows.Scan(&t.Forum, &t.Invitation, pq.Array(&t.Signatures), &t.Tag); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan tags: %w", err)
	}
	return out, nil
}

// FetchProfiles returns profiles known under any of the aliases.
func (r *PostgresRepository) FetchProfiles(ctx context.Context, idsOrEmails []string) ([]domain.Profile, error) {
	if len(idsOrEmails) == 0 {
		return nil, nil
	}
	rows, err := r.query(ctx, profilesQuery(idsOrEmails))
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}

	var out []domain.Profile
	err = scanAll(rows, func() error {
		var (
			p     domain.Profile
			names []byte
		)
		if err := rows.Scan(&p.ID, &names, pq.Array(&p.Emails), pq.Array(&p.ConfirmedEmails)); err != nil {
			return err
		}
		if len(names) > 0 {
			if err := json.Unmarshal(names, &p.Names); err != nil {
				return fmt.Errorf("decode names of %s: %w", p.ID, err)
			}
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) query(ctx context.Context, q sq.SelectBuilder) (*sql.Rows, error) {
	if r.db == nil {
		return nil, fmt.Errorf("postgres repository has no database")
	}
	text, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.db.QueryContext(ctx, text, args...)
}

func scanAll(rows *sql.Rows, scan func() error) error {
	for rows.Next() {
		if err := scan(); err != nil {
			_ = rows.Close()
			return err
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return fmt.Errorf("close rows: %w", closeErr)
	}
	return nil
}
