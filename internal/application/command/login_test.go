package command

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/identity"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
)

type fakeGate struct {
	accounts map[string]*identity.Account // email -> account
	secrets  map[string]string            // email -> password
}

func newFakeGate() *fakeGate {
	return &fakeGate{
		accounts: make(map[string]*identity.Account),
		secrets:  make(map[string]string),
	}
}

func (g *fakeGate) add(email, password string, role identity.Role) *identity.Account {
	a, err := identity.NewAccount(email, "fake-hash", role)
	if err != nil {
		panic(err)
	}
	g.accounts[a.Email] = a
	g.secrets[a.Email] = password
	return a
}

func (g *fakeGate) Authenticate(_ context.Context, email, password string) (uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a, ok := g.accounts[email]
	if !ok || g.secrets[email] != password {
		return uuid.Nil, identity.ErrBadCredentials
	}
	return a.ID, nil
}

func (g *fakeGate) ResolveRole(_ context.Context, id uuid.UUID) (identity.Role, error) {
	for _, a := range g.accounts {
		if a.ID == id {
			return a.Role, nil
		}
	}
	return "", identity.ErrAccountNotFound
}

func TestLogin_AdminLandsOnAdminView(t *testing.T) {
	ctx := context.Background()
	gate := newFakeGate()
	admin := gate.add("admin@karate.com", "s3cret", identity.RoleAdmin)
	handler := NewLoginHandler(gate, testLogger())

	res, err := handler.Handle(ctx, LoginCommand{Email: "admin@karate.com", Password: "s3cret"})
	assert.NoError(t, err)
	assert.Equal(t, admin.ID, res.AccountID)
	assert.Equal(t, identity.RoleAdmin, res.Role)
	assert.Equal(t, "#adminView", res.Route)
}

func TestLogin_TeacherLandsOnTeacherView(t *testing.T) {
	ctx := context.Background()
	gate := newFakeGate()
	gate.add("teacher@karate.com", "s3cret", identity.RoleTeacher)
	handler := NewLoginHandler(gate, testLogger())

	res, err := handler.Handle(ctx, LoginCommand{Email: "teacher@karate.com", Password: "s3cret"})
	assert.NoError(t, err)
	assert.Equal(t, "#teacherView", res.Route)
}

func TestLogin_BadCredentials(t *testing.T) {
	ctx := context.Background()
	gate := newFakeGate()
	gate.add("admin@karate.com", "s3cret", identity.RoleAdmin)
	handler := NewLoginHandler(gate, testLogger())

	// Wrong password and unknown email are indistinguishable to the caller.
	_, err := handler.Handle(ctx, LoginCommand{Email: "admin@karate.com", Password: "wrong"})
	assert.ErrorIs(t, err, identity.ErrBadCredentials)

	_, err = handler.Handle(ctx, LoginCommand{Email: "nobody@karate.com", Password: "s3cret"})
	assert.ErrorIs(t, err, identity.ErrBadCredentials)
}

func TestLogin_Validation(t *testing.T) {
	ctx := context.Background()
	handler := NewLoginHandler(newFakeGate(), testLogger())

	_, err := handler.Handle(ctx, LoginCommand{Email: "", Password: "x"})
	assert.True(t, shared.IsValidation(err))

	_, err = handler.Handle(ctx, LoginCommand{Email: "admin@karate.com", Password: ""})
	assert.True(t, shared.IsValidation(err))
}
