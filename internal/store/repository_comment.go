package store

import (
	"context"
	"fmt"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/models"
)

// commentRepository is the PostgreSQL-backed implementation of
// [CommentRepository].
type commentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCommentRepository constructs a [CommentRepository] backed by the
// provided database connection and logger.
func NewCommentRepository(db *DB, logger *logger.Logger) CommentRepository {
	logger.Debug().Msg("creating comment repository")
	return &commentRepository{
		db:     db,
		logger: logger,
	}
}

// AddComment appends a comment to a ticket's thread and returns the stored
// record with its server-assigned timestamp.
func (r *commentRepository) AddComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, addComment,
		comment.ID, comment.TicketID, comment.AuthorID, comment.Body, comment.Internal)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*commentRepository.AddComment").Msg("error: row is nil")
		return models.Comment{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var saved models.Comment
	if err := row.Scan(&saved.ID, &saved.TicketID, &saved.AuthorID, &saved.Body, &saved.Internal, &saved.CreatedAt); err != nil {
		log.Err(err).Str("func", "*commentRepository.AddComment").Msg("error: scanning error")
		return models.Comment{}, err
	}

	return saved, nil
}

// GetTicketComments returns a ticket's thread in chronological order.
// Internal technician notes are filtered out unless includeInternal is set.
func (r *commentRepository) GetTicketComments(ctx context.Context, ticketID string, includeInternal bool) ([]models.Comment, error) {
	log := logger.FromContext(ctx)

	query := getTicketComments
	if !includeInternal {
		query += " AND internal = FALSE"
	}
	query += " ORDER BY created_at;"

	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.GetTicketComments").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.TicketID, &comment.AuthorID, &comment.Body, &comment.Internal, &comment.CreatedAt); err != nil {
			log.Err(err).Str("func", "*commentRepository.GetTicketComments").Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return comments, nil
}
