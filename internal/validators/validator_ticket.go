package validators

import (
	"context"

	"github.com/fixit-helpdesk/fixit/models"
)

const (
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldStatus   = "status"
	FieldPriority = "priority"
	FieldCreator  = "creator"
	FieldTicketID = "ticket_id"
	FieldBody     = "body"
)

type TicketValidator struct {
}

func NewTicketValidator() Validator {
	return &TicketValidator{}
}

func (v *TicketValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Ticket:
		return v.validateTicket(ctx, value, fields...)
	case *models.Ticket:
		return v.validateTicket(ctx, *value, fields...)

	case models.CreateTicketRequest:
		return v.validateCreateRequest(ctx, value, fields...)
	case *models.CreateTicketRequest:
		return v.validateCreateRequest(ctx, *value, fields...)

	case models.AddCommentRequest:
		return v.validateCommentRequest(ctx, value, fields...)
	case *models.AddCommentRequest:
		return v.validateCommentRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *TicketValidator) validateTicket(_ context.Context, ticket models.Ticket, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldCategory, FieldStatus, FieldPriority, FieldCreator}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if ticket.Title == "" {
				return ErrEmptyTitle
			}
		case FieldCategory:
			if ticket.Category == "" {
				return ErrEmptyCategory
			}
		case FieldStatus:
			if !ticket.Status.Valid() {
				return ErrInvalidStatus
			}
		case FieldPriority:
			if !ticket.Priority.Valid() {
				return ErrInvalidPriority
			}
		case FieldCreator:
			if ticket.CreatorID == "" {
				return ErrEmptyCreator
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *TicketValidator) validateCreateRequest(_ context.Context, req models.CreateTicketRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldCategory, FieldPriority}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if req.Title == "" {
				return ErrEmptyTitle
			}
		case FieldCategory:
			if req.Category == "" {
				return ErrEmptyCategory
			}
		case FieldPriority:
			// empty priority is allowed, the service defaults it to medium
			if req.Priority != "" && !req.Priority.Valid() {
				return ErrInvalidPriority
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *TicketValidator) validateCommentRequest(_ context.Context, req models.AddCommentRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBody}
	}

	for _, f := range fields {
		switch f {
		case FieldBody:
			if req.Body == "" {
				return ErrEmptyBody
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
