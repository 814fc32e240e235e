package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fixit-helpdesk/fixit/models"
	"github.com/go-resty/resty/v2"
)

// HTTPClientConfig configures the REST adapter. A zero value gets sane
// defaults from NewHTTPServerAdapter.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpServerAdapter struct {
	client *resty.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPServerAdapter builds a ServerAdapter speaking the FixIT server's
// REST API.
func NewHTTPServerAdapter(cfg HTTPClientConfig) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli}
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.LoginRequest{Email: email, Password: password}).
		Post("/api/auth/login")
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.LoginResponse{}, err
	}

	return h.decodeLoginResponse(resp)
}

func (h *httpServerAdapter) RequestOTP(ctx context.Context, email string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.OTPRequest{Email: email}).
		Post("/api/auth/otp/request")
	if err != nil {
		return fmt.Errorf("otp request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) VerifyOTP(ctx context.Context, email, code string) (models.LoginResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.OTPVerifyRequest{Email: email, Code: code}).
		Post("/api/auth/otp/verify")
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("otp verify request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.LoginResponse{}, err
	}

	return h.decodeLoginResponse(resp)
}

func (h *httpServerAdapter) Health(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) GetAllUsers(ctx context.Context) ([]models.User, error) {
	resp, err := h.authedRequest(ctx).Get("/api/users")
	if err != nil {
		return nil, fmt.Errorf("get all users request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var users []models.User
	if err = json.Unmarshal(resp.Body(), &users); err != nil {
		return nil, fmt.Errorf("decode users response: %w", err)
	}

	return users, nil
}

func (h *httpServerAdapter) GetAllTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error) {
	req := h.authedRequest(ctx)
	if filter.Status != "" {
		req.SetQueryParam("status", string(filter.Status))
	}
	if filter.Priority != "" {
		req.SetQueryParam("priority", string(filter.Priority))
	}
	if filter.Category != "" {
		req.SetQueryParam("category", filter.Category)
	}
	if filter.CreatorID != "" {
		req.SetQueryParam("creator_id", filter.CreatorID)
	}
	if filter.AssigneeID != "" {
		req.SetQueryParam("assignee_id", filter.AssigneeID)
	}

	resp, err := req.Get("/api/tickets")
	if err != nil {
		return nil, fmt.Errorf("get all tickets request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var tickets []models.Ticket
	if err = json.Unmarshal(resp.Body(), &tickets); err != nil {
		return nil, fmt.Errorf("decode tickets response: %w", err)
	}

	return tickets, nil
}

func (h *httpServerAdapter) GetTicket(ctx context.Context, ticketID string) (models.Ticket, error) {
	resp, err := h.authedRequest(ctx).Get("/api/tickets/" + ticketID)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("get ticket request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Ticket{}, err
	}

	var ticket models.Ticket
	if err = json.Unmarshal(resp.Body(), &ticket); err != nil {
		return models.Ticket{}, fmt.Errorf("decode ticket response: %w", err)
	}

	return ticket, nil
}

func (h *httpServerAdapter) CreateTicket(ctx context.Context, req models.CreateTicketRequest) (models.Ticket, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/tickets")
	if err != nil {
		return models.Ticket{}, fmt.Errorf("create ticket request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Ticket{}, err
	}

	var ticket models.Ticket
	if err = json.Unmarshal(resp.Body(), &ticket); err != nil {
		return models.Ticket{}, fmt.Errorf("decode create ticket response: %w", err)
	}

	return ticket, nil
}

func (h *httpServerAdapter) UpdateTicket(ctx context.Context, ticketID string, req models.UpdateTicketRequest) (models.Ticket, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Patch("/api/tickets/" + ticketID)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("update ticket request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Ticket{}, err
	}

	var ticket models.Ticket
	if err = json.Unmarshal(resp.Body(), &ticket); err != nil {
		return models.Ticket{}, fmt.Errorf("decode update ticket response: %w", err)
	}

	return ticket, nil
}

func (h *httpServerAdapter) DeleteUser(ctx context.Context, userID string) error {
	resp, err := h.authedRequest(ctx).Delete("/api/users/" + userID)
	if err != nil {
		return fmt.Errorf("delete user request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) AddComment(ctx context.Context, ticketID string, req models.AddCommentRequest) (models.Comment, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/tickets/" + ticketID + "/comments")
	if err != nil {
		return models.Comment{}, fmt.Errorf("add comment request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Comment{}, err
	}

	var comment models.Comment
	if err = json.Unmarshal(resp.Body(), &comment); err != nil {
		return models.Comment{}, fmt.Errorf("decode comment response: %w", err)
	}

	return comment, nil
}

func (h *httpServerAdapter) GetTicketComments(ctx context.Context, ticketID string) ([]models.Comment, error) {
	resp, err := h.authedRequest(ctx).Get("/api/tickets/" + ticketID + "/comments")
	if err != nil {
		return nil, fmt.Errorf("get ticket comments request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err = json.Unmarshal(resp.Body(), &comments); err != nil {
		return nil, fmt.Errorf("decode comments response: %w", err)
	}

	return comments, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func (h *httpServerAdapter) decodeLoginResponse(resp *resty.Response) (models.LoginResponse, error) {
	var login models.LoginResponse
	if err := json.Unmarshal(resp.Body(), &login); err != nil {
		return models.LoginResponse{}, fmt.Errorf("decode login response: %w", err)
	}
	if login.Token == "" {
		return models.LoginResponse{}, fmt.Errorf("%w: empty token in login response", ErrUnauthorized)
	}

	h.SetToken(login.Token)
	return login, nil
}
