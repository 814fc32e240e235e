package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")
	ErrAccountDisabled     = errors.New("account is disabled")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrOTPNotFound      = errors.New("no active code for this email")
	ErrOTPExpired       = errors.New("code is expired")
	ErrOTPWrongCode     = errors.New("wrong code")
	ErrOTPAttemptsSpent = errors.New("too many failed attempts, request a new code")

	ErrInvalidStatusTransition = errors.New("invalid ticket status transition")
	ErrAssigneeNotTechnician   = errors.New("assignee must be a technician")

	// ErrSessionInvalidated is returned when a persisted session belongs
	// to an account found in the local tombstone list.
	ErrSessionInvalidated = errors.New("session belongs to a deleted account")
)
