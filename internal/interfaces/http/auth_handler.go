package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tokobangunan-pos/internal/application/auth"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/guard"
)

// AuthHandler pantalla de login y cierre de sesión.
type AuthHandler struct {
	base
	uc *auth.UseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(b base, uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{base: b, uc: uc}
}

// LoginPage GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.render(c, "login", fiber.Map{"Title": "Login", "Username": c.Query("username")})
}

// Login POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	landing, err := h.uc.Login(c.UserContext(), username, c.FormValue("password"))
	if err != nil {
		h.toasts.Error(userMessage(err))
		return c.Redirect(guard.LoginPath+"?username="+url.QueryEscape(username), fiber.StatusFound)
	}
	return h.done(c, auth.MsgSuccess, landing)
}

// Logout POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sess.Logout(c.UserContext()); err != nil {
		h.log.Warn().Err(err).Msg("logout")
	}
	return c.Redirect(guard.LoginPath, fiber.StatusFound)
}
