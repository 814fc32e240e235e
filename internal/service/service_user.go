package service

import (
	"context"
	"fmt"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/internal/utils"
	"github.com/fixit-helpdesk/fixit/internal/validators"
	"github.com/fixit-helpdesk/fixit/models"
	"golang.org/x/crypto/bcrypt"
)

// userService is the concrete implementation of UserService. Account
// provisioning is an admin operation; the handler layer enforces that, the
// service only enforces data validity.
type userService struct {
	userRepository store.UserRepository
	validator      validators.Validator
	uuid           *utils.UUIDGenerator
	logger         *logger.Logger
}

// NewUserService constructs a UserService wired to the given repository.
func NewUserService(userRepository store.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		validator:      validators.NewUserValidator(),
		uuid:           utils.NewUUIDGenerator(),
		logger:         logger,
	}
}

// CreateUser provisions a new account. The password is bcrypt-hashed before
// it reaches the repository; the plain text is never stored or logged.
func (u *userService) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := u.validator.Validate(ctx, req); err != nil {
		log.Err(err).Str("email", req.Email).Msg("invalid create user request")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		ID:           u.uuid.Generate(),
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: string(hash),
		Active:       true,
	}

	created, err := u.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Str("id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

// GetUser returns one account by ID.
func (u *userService) GetUser(ctx context.Context, id string) (models.User, error) {
	if id == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	return u.userRepository.FindUserByID(ctx, id)
}

// GetAllUsers returns the whole account collection. This is what agents
// poll and reconcile their replicas against.
func (u *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return u.userRepository.GetAllUsers(ctx)
}

// UpdateUser applies the non-nil fields of req to the stored account.
func (u *userService) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if id == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	user, err := u.userRepository.FindUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("user search failed: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := u.validator.Validate(ctx, user, validators.FieldName, validators.FieldRole); err != nil {
		log.Err(err).Str("id", id).Msg("invalid update user request")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	updated, err := u.userRepository.UpdateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("id", id).Msg("user update ended with error")
		return models.User{}, fmt.Errorf("user update ended with error: %w", err)
	}

	return updated, nil
}

// DeleteUser removes the account. Agents will observe the disappearance on
// their next poll and record a tombstone locally.
func (u *userService) DeleteUser(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if id == "" {
		return ErrInvalidDataProvided
	}

	if err := u.userRepository.DeleteUser(ctx, id); err != nil {
		log.Err(err).Str("id", id).Msg("user deletion ended with error")
		return fmt.Errorf("user deletion ended with error: %w", err)
	}

	log.Info().Str("id", id).Msg("user deleted")
	return nil
}
