package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/fixit-helpdesk/fixit/models"
)

const (
	createUser = `INSERT INTO users (id, email, name, role, password_hash, active)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, email, name, role, password_hash, active, created_at, updated_at;`

	findUserByEmail = `SELECT id, email, name, role, password_hash, active, created_at, updated_at
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT id, email, name, role, password_hash, active, created_at, updated_at
    FROM users
    WHERE id = $1;`

	getAllUsers = `SELECT id, email, name, role, password_hash, active, created_at, updated_at
    FROM users
    ORDER BY created_at;`

	updateUser = `UPDATE users
    SET name = $2, role = $3, active = $4, updated_at = NOW()
    WHERE id = $1
    RETURNING id, email, name, role, password_hash, active, created_at, updated_at;`

	deleteUser = `DELETE FROM users WHERE id = $1;`

	createTicket = `INSERT INTO tickets (id, title, description, category, status, priority, creator_id, assignee_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
    RETURNING id, number, title, description, category, status, priority,
              creator_id, COALESCE(assignee_id, ''), created_at, updated_at, resolved_at, closed_at;`

	getTicketByID = `SELECT id, number, title, description, category, status, priority,
           creator_id, COALESCE(assignee_id, ''), created_at, updated_at, resolved_at, closed_at
    FROM tickets
    WHERE id = $1;`

	updateTicket = `UPDATE tickets
    SET title = $2, description = $3, category = $4, status = $5, priority = $6,
        assignee_id = NULLIF($7, ''), resolved_at = $8, closed_at = $9, updated_at = NOW()
    WHERE id = $1
    RETURNING id, number, title, description, category, status, priority,
              creator_id, COALESCE(assignee_id, ''), created_at, updated_at, resolved_at, closed_at;`

	deleteTicket = `DELETE FROM tickets WHERE id = $1;`

	addComment = `INSERT INTO ticket_comments (id, ticket_id, author_id, body, internal)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, ticket_id, author_id, body, internal, created_at;`

	getTicketComments = `SELECT id, ticket_id, author_id, body, internal, created_at
    FROM ticket_comments
    WHERE ticket_id = $1`
)

// buildTicketListQuery builds the filtered ticket SELECT with squirrel.
// Zero-valued filter fields produce no predicate; the set fields combine
// with AND. Results come back newest first so fresh tickets surface at the
// top of triage views.
func buildTicketListQuery(filter models.TicketFilter) (string, []any, error) {
	builder := sq.Select(
		"id", "number", "title", "description", "category", "status", "priority",
		"creator_id", "COALESCE(assignee_id, '')", "created_at", "updated_at", "resolved_at", "closed_at",
	).
		From("tickets").
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Priority != "" {
		builder = builder.Where(sq.Eq{"priority": filter.Priority})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.CreatorID != "" {
		builder = builder.Where(sq.Eq{"creator_id": filter.CreatorID})
	}
	if filter.AssigneeID != "" {
		builder = builder.Where(sq.Eq{"assignee_id": filter.AssigneeID})
	}

	return builder.ToSql()
}
