package store

import "github.com/fixit-helpdesk/fixit/internal/logger"

// Storages bundles the server-side repositories behind their interfaces so
// the service layer depends on a single constructor-injected value.
type Storages struct {
	UserRepository    UserRepository
	TicketRepository  TicketRepository
	CommentRepository CommentRepository
}

// NewStorages wires every repository to the shared database connection.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:    NewUserRepository(db, logger),
		TicketRepository:  NewTicketRepository(db, logger),
		CommentRepository: NewCommentRepository(db, logger),
	}
}
