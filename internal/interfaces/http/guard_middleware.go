package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tokobangunan-pos/internal/domain/guard"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// LocalState clave en c.Locals con el guard.State de la petición.
const LocalState = "guard_state"

// GuardMiddleware aplica la tabla del guard a cada navegación. Nunca responde con una página
// de error: redirige (302) al login o a la landing del rol.
func GuardMiddleware(sess Session, toasts *Toasts, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("guard")
	return func(c *fiber.Ctx) error {
		state := sess.State()
		if state == guard.Unauthenticated && sess.Authenticated() {
			// token vencido durante la sesión
			sess.Invalidate(c.UserContext(), "token vencido")
			toasts.Error(MsgSessionExpired)
		}

		d := guard.Navigate(c.Path(), state)
		if d.Action == guard.Redirect {
			log.Debug().Str("path", c.Path()).Str("state", state.String()).Str("to", d.To).Msg("redirect")
			return c.Redirect(d.To, fiber.StatusFound)
		}
		c.Locals(LocalState, state)
		return c.Next()
	}
}

// GetState estado del guard para la petición (después del middleware).
func GetState(c *fiber.Ctx) guard.State {
	s, _ := c.Locals(LocalState).(guard.State)
	return s
}

// RequestLogger registra cada petición con su estado final y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("access")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		log.Request(c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
