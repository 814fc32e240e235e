package models

// LoginRequest carries user credentials for password-based authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication. The bearer token
// is also duplicated in the Authorization response header.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// OTPRequest asks the server to issue a one-time code for the given email.
type OTPRequest struct {
	Email string `json:"email"`
}

// OTPVerifyRequest exchanges a previously issued one-time code for a
// bearer token.
type OTPVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// CreateUserRequest carries the fields an administrator supplies when
// provisioning an account.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}

// UpdateUserRequest is a partial update: only non-nil fields are applied.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Role   *Role   `json:"role,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// CreateTicketRequest carries the fields a requester supplies when opening
// a ticket. The server assigns ID, number, status, and timestamps.
type CreateTicketRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Priority    TicketPriority `json:"priority"`
}

// UpdateTicketRequest is a partial update: only non-nil fields are applied.
// Status changes are validated against the ticket lifecycle and AssigneeID
// against technician roles.
type UpdateTicketRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Status      *TicketStatus   `json:"status,omitempty"`
	Priority    *TicketPriority `json:"priority,omitempty"`
	AssigneeID  *string         `json:"assignee_id,omitempty"`
}

// TicketFilter narrows ticket list queries. Zero-valued fields are
// ignored; all set fields combine with AND.
type TicketFilter struct {
	Status     TicketStatus   `json:"status,omitempty"`
	Priority   TicketPriority `json:"priority,omitempty"`
	Category   string         `json:"category,omitempty"`
	CreatorID  string         `json:"creator_id,omitempty"`
	AssigneeID string         `json:"assignee_id,omitempty"`
}

// AddCommentRequest attaches a comment to a ticket.
type AddCommentRequest struct {
	Body     string `json:"body"`
	Internal bool   `json:"internal"`
}

// ErrorResponse is the JSON body returned for every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
