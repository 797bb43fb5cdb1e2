package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/guard"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// Mensajes de la pantalla de login.
const (
	MsgRequired    = "Username dan password harus diisi"
	MsgFailed      = "Login gagal"
	MsgUnreachable = "Tidak dapat terhubung ke server"
	MsgUnexpected  = "Terjadi kesalahan saat login"
	MsgSuccess     = "Login berhasil"
)

// Kind distingue la causa del fallo de login.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindCredentials
	KindUnreachable
	KindUnexpected
)

// LoginError fallo de login con el mensaje listo para el toast.
type LoginError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// Authenticator intercambio de credenciales (POST /api/login).
type Authenticator interface {
	Login(ctx context.Context, username, password string) (entity.User, string, error)
}

// SessionWriter destino de la sesión obtenida.
type SessionWriter interface {
	Login(ctx context.Context, user entity.User, token string) error
}

// UseCase caso de uso de login del terminal.
type UseCase struct {
	api  Authenticator
	sess SessionWriter
	log  *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(api Authenticator, sess SessionWriter, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{api: api, sess: sess, log: log.Component("auth")}
}

// Login valida los campos, llama al backend y abre la sesión.
// Devuelve la landing del rol del usuario.
func (uc *UseCase) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", &LoginError{Kind: KindValidation, Message: MsgRequired, Err: domain.ErrInvalidInput}
	}

	user, token, err := uc.api.Login(ctx, username, password)
	if err != nil {
		lerr := classify(err)
		uc.log.Warn().Err(err).Str("username", username).Int("kind", int(lerr.Kind)).Msg("login fallido")
		return "", lerr
	}
	if err := uc.sess.Login(ctx, user, token); err != nil {
		uc.log.Warn().Err(err).Str("username", username).Str("role", user.Role).Msg("sesión rechazada")
		return "", &LoginError{Kind: KindCredentials, Message: MsgFailed, Err: err}
	}
	return guard.Landing(guard.StateForRole(user.Role)), nil
}

func classify(err error) *LoginError {
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		return &LoginError{Kind: KindCredentials, Message: domain.MessageOr(err, MsgFailed), Err: err}
	case errors.Is(err, domain.ErrIncompleteLogin):
		return &LoginError{Kind: KindCredentials, Message: MsgFailed, Err: err}
	case errors.Is(err, domain.ErrUnreachable):
		return &LoginError{Kind: KindUnreachable, Message: MsgUnreachable, Err: err}
	default:
		return &LoginError{Kind: KindUnexpected, Message: MsgUnexpected, Err: err}
	}
}
