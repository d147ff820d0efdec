package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/identity"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN COMMAND
// Authenticates a staff account and resolves where the client should land.
// ══════════════════════════════════════════════════════════════════════════════

// LoginCommand contains staff credentials.
type LoginCommand struct {
	Email    string
	Password string
}

// Validate validates the command.
func (c LoginCommand) Validate() error {
	if c.Email == "" {
		return errors.New("login: email is required")
	}
	if c.Password == "" {
		return errors.New("login: password is required")
	}
	return nil
}

// LoginResult identifies the authenticated account.
type LoginResult struct {
	// AccountID is the authenticated account's id.
	AccountID uuid.UUID

	// Role is the account's access level.
	Role identity.Role

	// Route is the client view the account should land on.
	Route string
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	gate identity.Gate
	log  *logger.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(gate identity.Gate, log *logger.Logger) *LoginHandler {
	return &LoginHandler{gate: gate, log: log}
}

// Handle executes the login command.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("identity", "Login", shared.ErrValidation, "invalid command", err)
	}

	accountID, err := h.gate.Authenticate(ctx, cmd.Email, cmd.Password)
	if err != nil {
		// Do not log the email on failure beyond debug level; failed logins
		// are routine, not incidents.
		h.log.Debug(ctx, "authentication rejected", logger.Err(err))
		return nil, fmt.Errorf("login: %w", err)
	}

	role, err := h.gate.ResolveRole(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("login: resolve role: %w", err)
	}

	h.log.Info(ctx, "staff logged in",
		logger.F("account_id", accountID.String()),
		logger.F("role", role.String()),
	)

	return &LoginResult{
		AccountID: accountID,
		Role:      role,
		Route:     identity.RouteForRole(role),
	}, nil
}
