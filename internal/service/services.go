package service

import (
	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/notify"
	"github.com/fixit-helpdesk/fixit/internal/store"
)

// Services bundles the server-side services behind their interfaces.
// OTP is exposed as the concrete type because the composition root also
// runs it as a background worker.
type Services struct {
	AuthService   AuthService
	OTPService    *otpService
	UserService   UserService
	TicketService TicketService
}

// NewServices wires every service to the shared storages and notifier.
func NewServices(storages *store.Storages, notifier notify.Notifier, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:   NewAuthService(storages.UserRepository, cfg.App, logger),
		OTPService:    NewOTPService(storages.UserRepository, notifier, cfg.App, logger),
		UserService:   NewUserService(storages.UserRepository, logger),
		TicketService: NewTicketService(storages, notifier, logger),
	}
}
