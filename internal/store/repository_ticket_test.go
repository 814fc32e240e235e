package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/models"
)

func newTestTicketRepo(t *testing.T) (*ticketRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &ticketRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

var ticketColumns = []string{
	"id", "number", "title", "description", "category", "status", "priority",
	"creator_id", "assignee_id", "created_at", "updated_at", "resolved_at", "closed_at",
}

func TestCreateTicket_Success(t *testing.T) {
	repo, mock, db := newTestTicketRepo(t)
	defer db.Close()

	ticket := models.Ticket{
		ID:          "t-1",
		Title:       "Printer is down",
		Description: "3rd floor printer shows error E502",
		Category:    "hardware",
		Status:      models.StatusOpen,
		Priority:    models.PriorityMedium,
		CreatorID:   "u-1",
	}

	now := time.Now()
	rows := sqlmock.NewRows(ticketColumns).
		AddRow(ticket.ID, "FIX-000042", ticket.Title, ticket.Description, ticket.Category,
			ticket.Status, ticket.Priority, ticket.CreatorID, "", now, now, nil, nil)

	mock.ExpectQuery("INSERT INTO tickets").
		WithArgs(ticket.ID, ticket.Title, ticket.Description, ticket.Category,
			ticket.Status, ticket.Priority, ticket.CreatorID, ticket.AssigneeID).
		WillReturnRows(rows)

	created, err := repo.CreateTicket(context.Background(), ticket)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Number != "FIX-000042" {
		t.Errorf("expected server-assigned number, got %q", created.Number)
	}
	if created.AssigneeID != "" {
		t.Errorf("expected unassigned ticket, got assignee %q", created.AssigneeID)
	}
}

func TestGetTicketByID_NotFound(t *testing.T) {
	repo, mock, db := newTestTicketRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, number, title").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(ticketColumns))

	_, err := repo.GetTicketByID(context.Background(), "missing")
	if !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestGetAllTickets_WithFilter(t *testing.T) {
	repo, mock, db := newTestTicketRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(ticketColumns).
		AddRow("t-2", "FIX-000002", "VPN broken", "cannot connect", "network",
			models.StatusInProgress, models.PriorityHigh, "u-1", "u-9", now, now, nil, nil)

	mock.ExpectQuery("SELECT id, number, title").
		WithArgs(models.StatusInProgress, "u-9").
		WillReturnRows(rows)

	tickets, err := repo.GetAllTickets(context.Background(), models.TicketFilter{
		Status:     models.StatusInProgress,
		AssigneeID: "u-9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	if tickets[0].AssigneeID != "u-9" {
		t.Errorf("expected assignee u-9, got %s", tickets[0].AssigneeID)
	}
}

func TestUpdateTicket_Success(t *testing.T) {
	repo, mock, db := newTestTicketRepo(t)
	defer db.Close()

	now := time.Now()
	resolved := now.Add(time.Hour)
	ticket := models.Ticket{
		ID:          "t-3",
		Title:       "Monitor flickers",
		Description: "intermittent",
		Category:    "hardware",
		Status:      models.StatusResolved,
		Priority:    models.PriorityLow,
		AssigneeID:  "u-9",
		ResolvedAt:  &resolved,
	}

	rows := sqlmock.NewRows(ticketColumns).
		AddRow(ticket.ID, "FIX-000003", ticket.Title, ticket.Description, ticket.Category,
			ticket.Status, ticket.Priority, "u-2", ticket.AssigneeID, now, now, resolved, nil)

	mock.ExpectQuery("UPDATE tickets").
		WithArgs(ticket.ID, ticket.Title, ticket.Description, ticket.Category,
			ticket.Status, ticket.Priority, ticket.AssigneeID, ticket.ResolvedAt, ticket.ClosedAt).
		WillReturnRows(rows)

	updated, err := repo.UpdateTicket(context.Background(), ticket)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.StatusResolved {
		t.Errorf("expected status %s, got %s", models.StatusResolved, updated.Status)
	}
	if updated.ResolvedAt == nil {
		t.Error("expected ResolvedAt to be set")
	}
}

func TestDeleteTicket_NotFound(t *testing.T) {
	repo, mock, db := newTestTicketRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM tickets").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteTicket(context.Background(), "missing")
	if !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestAddComment_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	l := logger.NewLogger("test")
	repo := &commentRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}

	comment := models.Comment{
		ID:       "c-1",
		TicketID: "t-1",
		AuthorID: "u-9",
		Body:     "Replaced the fuser unit",
		Internal: true,
	}

	rows := sqlmock.NewRows([]string{"id", "ticket_id", "author_id", "body", "internal", "created_at"}).
		AddRow(comment.ID, comment.TicketID, comment.AuthorID, comment.Body, comment.Internal, time.Now())

	mock.ExpectQuery("INSERT INTO ticket_comments").
		WithArgs(comment.ID, comment.TicketID, comment.AuthorID, comment.Body, comment.Internal).
		WillReturnRows(rows)

	saved, err := repo.AddComment(context.Background(), comment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved.Internal {
		t.Error("expected internal flag to survive the round trip")
	}
}

func TestGetTicketComments_FiltersInternal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	l := logger.NewLogger("test")
	repo := &commentRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}

	rows := sqlmock.NewRows([]string{"id", "ticket_id", "author_id", "body", "internal", "created_at"}).
		AddRow("c-1", "t-1", "u-1", "Still broken", false, time.Now())

	mock.ExpectQuery("SELECT id, ticket_id, author_id, body, internal, created_at").
		WithArgs("t-1").
		WillReturnRows(rows)

	comments, err := repo.GetTicketComments(context.Background(), "t-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
}
