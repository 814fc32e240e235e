package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/models"
	_ "github.com/mattn/go-sqlite3"
)

const replicaSchema = `
CREATE TABLE IF NOT EXISTS replica_users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	name       TEXT NOT NULL,
	role       TEXT NOT NULL,
	active     BOOLEAN NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS replica_tickets (
	id          TEXT PRIMARY KEY,
	number      TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	category    TEXT NOT NULL,
	status      TEXT NOT NULL,
	priority    TEXT NOT NULL,
	creator_id  TEXT NOT NULL,
	assignee_id TEXT,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL,
	resolved_at TIMESTAMP,
	closed_at   TIMESTAMP
);`

type sqliteReplica struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSQLiteReplica opens (or creates) the agent's local snapshot database.
// An empty DSN keeps the replica in memory.
func NewSQLiteReplica(dsn string, logger *logger.Logger) (Replica, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open replica database: %w", err)
	}

	if _, err = db.Exec(replicaSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create replica schema: %w", err)
	}

	logger.Info().Str("dsn", dsn).Msg("local replica opened")

	return &sqliteReplica{db: db, logger: logger}, nil
}

func (r *sqliteReplica) ReplaceUsers(ctx context.Context, users []models.User) error {
	return r.replace(ctx, "replica_users", func(tx *sql.Tx) error {
		if len(users) == 0 {
			return nil
		}

		builder := sq.Insert("replica_users").
			Columns("id", "email", "name", "role", "active", "created_at", "updated_at")
		for _, user := range users {
			builder = builder.Values(user.ID, user.Email, user.Name, user.Role,
				user.Active, user.CreatedAt, user.UpdatedAt)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *sqliteReplica) ReplaceTickets(ctx context.Context, tickets []models.Ticket) error {
	return r.replace(ctx, "replica_tickets", func(tx *sql.Tx) error {
		if len(tickets) == 0 {
			return nil
		}

		builder := sq.Insert("replica_tickets").
			Columns("id", "number", "title", "description", "category", "status",
				"priority", "creator_id", "assignee_id", "created_at", "updated_at",
				"resolved_at", "closed_at")
		for _, ticket := range tickets {
			builder = builder.Values(ticket.ID, ticket.Number, ticket.Title,
				ticket.Description, ticket.Category, ticket.Status, ticket.Priority,
				ticket.CreatorID, nullableString(ticket.AssigneeID),
				ticket.CreatedAt, ticket.UpdatedAt, ticket.ResolvedAt, ticket.ClosedAt)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
}

// replace swaps the full contents of a snapshot table inside one
// transaction, so readers never see a half-replaced collection.
func (r *sqliteReplica) replace(ctx context.Context, table string, insert func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replica transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err = insert(tx); err != nil {
		return fmt.Errorf("fill %s: %w", table, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replica transaction: %w", err)
	}
	return nil
}

func (r *sqliteReplica) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, name, role, active, created_at, updated_at
		 FROM replica_users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err = rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role,
			&user.Active, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

func (r *sqliteReplica) GetAllTickets(ctx context.Context) ([]models.Ticket, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, number, title, description, category, status, priority,
		        creator_id, assignee_id, created_at, updated_at, resolved_at, closed_at
		 FROM replica_tickets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var tickets []models.Ticket
	for rows.Next() {
		var (
			ticket   models.Ticket
			assignee sql.NullString
		)
		if err = rows.Scan(&ticket.ID, &ticket.Number, &ticket.Title,
			&ticket.Description, &ticket.Category, &ticket.Status, &ticket.Priority,
			&ticket.CreatorID, &assignee, &ticket.CreatedAt, &ticket.UpdatedAt,
			&ticket.ResolvedAt, &ticket.ClosedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		ticket.AssigneeID = assignee.String
		tickets = append(tickets, ticket)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tickets, nil
}

func (r *sqliteReplica) Close() error {
	return r.db.Close()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
