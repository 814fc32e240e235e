package client

import "github.com/fixit-helpdesk/fixit/internal/service"

// Client is the contract for runnable agent applications: a blocking
// lifecycle plus the mutation surface exposed to whatever drives the
// agent (an embedding process or an administrative command).
type Client interface {
	// Run starts the agent and blocks until exit.
	Run() error

	// Desk returns the agent's mutation operations.
	Desk() service.DeskService
}
