package validators

import (
	"context"
	"net/mail"

	"github.com/fixit-helpdesk/fixit/models"
)

const (
	FieldEmail    = "email"
	FieldName     = "name"
	FieldRole     = "role"
	FieldPassword = "password"
)

type UserValidator struct {
}

func NewUserValidator() Validator {
	return &UserValidator{}
}

func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.User:
		return v.validateUser(ctx, value, fields...)
	case *models.User:
		return v.validateUser(ctx, *value, fields...)

	case models.CreateUserRequest:
		return v.validateCreateRequest(ctx, value, fields...)
	case *models.CreateUserRequest:
		return v.validateCreateRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *UserValidator) validateUser(_ context.Context, user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldName, FieldRole}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !isValidEmail(user.Email) {
				return ErrInvalidEmail
			}
		case FieldName:
			if user.Name == "" {
				return ErrEmptyName
			}
		case FieldRole:
			if !user.Role.Valid() {
				return ErrInvalidRole
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserValidator) validateCreateRequest(_ context.Context, req models.CreateUserRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldName, FieldRole, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !isValidEmail(req.Email) {
				return ErrInvalidEmail
			}
		case FieldName:
			if req.Name == "" {
				return ErrEmptyName
			}
		case FieldRole:
			if !req.Role.Valid() {
				return ErrInvalidRole
			}
		case FieldPassword:
			if len(req.Password) < 8 {
				return ErrWeakPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
