package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEmail    = errors.New("invalid email address")
	ErrEmptyName       = errors.New("name is required")
	ErrInvalidRole     = errors.New("invalid role")
	ErrWeakPassword    = errors.New("password must be at least 8 characters")
	ErrEmptyTitle      = errors.New("title is required")
	ErrEmptyBody       = errors.New("comment body is required")
	ErrEmptyCategory   = errors.New("category is required")
	ErrInvalidStatus   = errors.New("invalid ticket status")
	ErrInvalidPriority = errors.New("invalid ticket priority")
	ErrEmptyCreator    = errors.New("creator is required")
	ErrEmptyTicketID   = errors.New("ticket ID is required")
)
