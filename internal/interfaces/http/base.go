package http

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tokobangunan-pos/internal/application/auth"
	"github.com/jhoicas/tokobangunan-pos/internal/application/session"
	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/guard"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/ledger"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// Mensajes comunes de las pantallas.
const (
	MsgSessionExpired = "Sesi Anda telah berakhir, silakan login kembali"
	MsgUnexpected     = "Terjadi kesalahan, silakan coba lagi"
	MsgInvalidForm    = "Data formulir tidak valid"
)

// Session vista del Session Store que necesitan las pantallas.
type Session interface {
	State() guard.State
	Authenticated() bool
	Current() (session.Session, bool)
	Logout(ctx context.Context) error
	Invalidate(ctx context.Context, reason string)
}

// base dependencias compartidas por todos los handlers.
type base struct {
	sess   Session
	toasts *Toasts
	store  string
	log    *logger.Logger
}

// render añade los datos del layout (usuario, avisos, ruta activa) y elige el layout por área.
func (b *base) render(c *fiber.Ctx, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Store"] = b.store
	data["Path"] = c.Path()
	data["Toasts"] = b.toasts.Drain()
	if sess, ok := b.sess.Current(); ok {
		data["User"] = sess.User
	}
	layout := "layouts/plain"
	switch b.sess.State() {
	case guard.AuthenticatedAdmin:
		layout = "layouts/admin"
	case guard.AuthenticatedCashier:
		layout = "layouts/kasir"
	}
	return c.Render(view, data, layout)
}

// fail muestra el error como toast y vuelve a back. Un 401 del backend ya cerró la sesión:
// se va directo al login.
func (b *base) fail(c *fiber.Ctx, err error, back string) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		b.sess.Invalidate(c.UserContext(), "backend 401")
		b.toasts.Error(MsgSessionExpired)
		return c.Redirect(guard.LoginPath, fiber.StatusFound)
	}
	msg := userMessage(err)
	if msg == MsgUnexpected {
		b.log.Error().Err(err).Str("path", c.Path()).Msg("error no clasificado")
	}
	b.toasts.Error(msg)
	return c.Redirect(back, fiber.StatusFound)
}

func isUnauthorized(err error) bool { return errors.Is(err, domain.ErrUnauthorized) }

// done toast de éxito y redirect (post/redirect/get).
func (b *base) done(c *fiber.Ctx, msg, to string) error {
	b.toasts.Success(msg)
	return c.Redirect(to, fiber.StatusFound)
}

var ledgerErrors = []error{
	ledger.ErrNoProduct,
	ledger.ErrFixedPrice,
	ledger.ErrNoDiscount,
	ledger.ErrNegativeAmount,
	ledger.ErrLineIndex,
}

// userMessage texto del toast para un error.
func userMessage(err error) string {
	var (
		failure *domain.Failure
		verr    *ledger.ValidationError
		lerr    *auth.LoginError
	)
	switch {
	case errors.As(err, &failure):
		return failure.Message
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &lerr):
		return lerr.Message
	case errors.Is(err, domain.ErrUnreachable):
		return domain.ErrUnreachable.Error()
	}
	for _, known := range ledgerErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return domain.MessageOr(err, MsgUnexpected)
}

// ── Lectura de formularios ──────────────────────────────────────────────────

func formInt64(c *fiber.Ctx, key string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(c.FormValue(key)), 10, 64)
	return n
}

func formInt(c *fiber.Ctx, key string) (int, error) {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.Fail(MsgInvalidForm, domain.ErrInvalidInput)
	}
	return n, nil
}

func queryInt64(v string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	return n
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Fail(domain.ErrNotFound.Error(), domain.ErrNotFound)
	}
	return id, nil
}
