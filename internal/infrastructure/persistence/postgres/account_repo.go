package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/identity"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT REPOSITORY & IDENTITY GATE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const accountColumns = `id, email, password_hash, role, created_at`

// AccountRepository implements identity.Repository and identity.Gate for
// PostgreSQL, with bcrypt password verification.
type AccountRepository struct {
	conn *Connection
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(conn *Connection) *AccountRepository {
	return &AccountRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// identity.Repository
// ─────────────────────────────────────────────────────────────────────────────

// Create stores a new account.
func (r *AccountRepository) Create(ctx context.Context, a *identity.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		a.ID,
		a.Email,
		a.PasswordHash,
		string(a.Role),
		a.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return identity.ErrEmailTaken
		}
		return shared.Upstream("identity", "Create", err)
	}

	return nil
}

// GetByEmail returns the account with the given email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*identity.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1`, accountColumns)

	row := r.conn.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	return r.scanAccount(row)
}

// GetByID returns the account with the given id.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanAccount(row)
}

// ─────────────────────────────────────────────────────────────────────────────
// identity.Gate
// ─────────────────────────────────────────────────────────────────────────────

// Authenticate verifies the credentials against the stored bcrypt hash.
// Unknown email and wrong password both return ErrBadCredentials, so the
// response does not reveal whether the email is registered.
func (r *AccountRepository) Authenticate(ctx context.Context, email, password string) (uuid.UUID, error) {
	account, err := r.GetByEmail(ctx, email)
	if err != nil {
		if shared.IsUpstream(err) {
			return uuid.Nil, err
		}
		return uuid.Nil, identity.ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return uuid.Nil, identity.ErrBadCredentials
	}

	return account.ID, nil
}

// ResolveRole returns the role of the given account.
func (r *AccountRepository) ResolveRole(ctx context.Context, accountID uuid.UUID) (identity.Role, error) {
	var role string
	err := r.conn.QueryRow(ctx,
		`SELECT role FROM accounts WHERE id = $1`, accountID,
	).Scan(&role)
	if err != nil {
		if IsNoRows(err) {
			return "", identity.ErrAccountNotFound
		}
		return "", shared.Upstream("identity", "ResolveRole", err)
	}

	return identity.Role(role), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *AccountRepository) scanAccount(row pgx.Row) (*identity.Account, error) {
	var a identity.Account
	var role string

	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&role,
		&a.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, identity.ErrAccountNotFound
		}
		return nil, shared.Upstream("identity", "Scan", err)
	}

	a.Role = identity.Role(role)
	return &a, nil
}
