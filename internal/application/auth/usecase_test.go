package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tokobangunan-pos/internal/application/auth"
	"github.com/jhoicas/tokobangunan-pos/internal/application/session"
	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/guard"
	"github.com/jhoicas/tokobangunan-pos/internal/infrastructure/storage"
)

type fakeAPI struct {
	user  entity.User
	token string
	err   error
	calls int
}

func (f *fakeAPI) Login(context.Context, string, string) (entity.User, string, error) {
	f.calls++
	return f.user, f.token, f.err
}

func TestLogin_Exito(t *testing.T) {
	api := &fakeAPI{user: entity.User{ID: 2, Username: "sari", Role: entity.RoleCashier}, token: "tok"}
	store := session.NewStore(storage.NewMemory(), nil)
	uc := auth.NewUseCase(api, store, nil)

	landing, err := uc.Login(context.Background(), " sari ", "x")
	require.NoError(t, err)
	assert.Equal(t, guard.CashierLanding, landing)
	assert.Equal(t, guard.AuthenticatedCashier, store.State())
}

func TestLogin_Fallos(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		api      *fakeAPI
		kind     auth.Kind
		msg      string
	}{
		{"campos vacíos", "", "x", &fakeAPI{}, auth.KindValidation, auth.MsgRequired},
		{"credenciales", "a", "b", &fakeAPI{err: &domain.APIError{Status: 401, Message: "Password salah", Kind: domain.ErrUnauthorized}}, auth.KindCredentials, "Password salah"},
		{"credenciales sin mensaje", "a", "b", &fakeAPI{err: &domain.APIError{Status: 500}}, auth.KindCredentials, auth.MsgFailed},
		{"2xx incompleto", "a", "b", &fakeAPI{err: domain.ErrIncompleteLogin}, auth.KindCredentials, auth.MsgFailed},
		{"sin respuesta", "a", "b", &fakeAPI{err: domain.ErrUnreachable}, auth.KindUnreachable, auth.MsgUnreachable},
		{"inesperado", "a", "b", &fakeAPI{err: errors.New("boom")}, auth.KindUnexpected, auth.MsgUnexpected},
		{"rol desconocido", "a", "b", &fakeAPI{user: entity.User{Role: "owner"}, token: "t"}, auth.KindCredentials, auth.MsgFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := session.NewStore(storage.NewMemory(), nil)
			_, err := auth.NewUseCase(tc.api, store, nil).Login(context.Background(), tc.username, tc.password)

			var lerr *auth.LoginError
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, tc.kind, lerr.Kind)
			assert.Equal(t, tc.msg, lerr.Message)
			assert.False(t, store.Authenticated())
		})
	}
}

func TestLogin_ValidacionNoLlamaAlBackend(t *testing.T) {
	api := &fakeAPI{}
	_, _ = auth.NewUseCase(api, session.NewStore(storage.NewMemory(), nil), nil).Login(context.Background(), "a", "")
	assert.Equal(t, 0, api.calls)
}
