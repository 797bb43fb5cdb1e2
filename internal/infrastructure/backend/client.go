// Package backend es el cliente del backend REST de la tienda (colaborador externo).
// Traduce las respuestas no 2xx a *domain.APIError con el sentinel correspondiente.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// TokenSource entrega el bearer vigente (el Session Store).
type TokenSource interface {
	Token() string
}

// UnauthorizedFunc se invoca cuando una llamada autenticada recibe 401.
type UnauthorizedFunc func(ctx context.Context, reason string)

// Config ubicación y timeout del backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client cliente HTTP sobre resty.
type Client struct {
	http           *resty.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedFunc
	log            *logger.Logger
}

// Option configura el Client.
type Option func(*Client)

// WithUnauthorized registra el cierre de sesión implícito ante un 401.
func WithUnauthorized(fn UnauthorizedFunc) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New construye el cliente.
func New(cfg Config, tokens TokenSource, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{
		http:   resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).SetTimeout(cfg.Timeout),
		tokens: tokens,
		log:    log.Component("backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.
		SetLogger(restyLogger{c.log}).
		SetHeader("Accept", "application/json").
		OnAfterResponse(c.afterResponse)
	return c
}

// restyLogger avisos internos de resty (cuerpos ilegibles, reintentos) en zerolog.
type restyLogger struct{ log *logger.Logger }

func (l restyLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }

func (c *Client) afterResponse(_ *resty.Client, resp *resty.Response) error {
	req := resp.Request
	c.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("backend")
	if resp.StatusCode() == http.StatusUnauthorized && req.Token != "" && c.onUnauthorized != nil {
		c.onUnauthorized(req.Context(), "backend 401")
	}
	return nil
}

// request petición autenticada con el bearer del Session Store.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.SetAuthToken(tok)
		}
	}
	return req
}

// do ejecuta la petición; resty decodifica el cuerpo en out (si no es nil)
// y los cuerpos de error en errorBody.
func (c *Client) do(req *resty.Request, method, path string, out any) error {
	req.SetError(&errorBody{}).ForceContentType("application/json")
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		if resp != nil && resp.RawResponse != nil {
			if len(resp.Body()) == 0 {
				return nil
			}
			// hubo respuesta 2xx pero el cuerpo no es el JSON esperado
			c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("respuesta inválida del backend")
			return fmt.Errorf("backend: respuesta inválida en %s %s: %w", method, path, err)
		}
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend inalcanzable")
		return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	if resp.IsError() {
		eb, _ := resp.Error().(*errorBody)
		return toAPIError(resp.StatusCode(), eb)
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

// Indicios de violación de clave foránea en cuerpos 400/500 (MySQL, PostgreSQL).
var conflictHints = []string{
	"foreign key",
	"a foreign key constraint fails",
	"violates foreign key",
	"er_row_is_referenced",
	"masih digunakan",
	"masih terkait",
}

func toAPIError(status int, eb *errorBody) *domain.APIError {
	msg := ""
	if eb != nil {
		switch {
		case eb.Message != "":
			msg = eb.Message
		case eb.Error != "":
			msg = eb.Error
		default:
			msg = eb.Msg
		}
	}
	return &domain.APIError{Status: status, Message: msg, Kind: kindFor(status, msg)}
}

func kindFor(status int, msg string) error {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	}
	lower := strings.ToLower(msg)
	for _, hint := range conflictHints {
		if strings.Contains(lower, hint) {
			return domain.ErrConflict
		}
	}
	if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
		return domain.ErrInvalidInput
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Login POST /api/login. No lleva bearer; un 401 aquí son credenciales, no sesión vencida.
func (c *Client) Login(ctx context.Context, username, password string) (entity.User, string, error) {
	var out loginResponse
	req := c.http.R().SetContext(ctx).SetBody(loginRequest{Username: username, Password: password})
	if err := c.do(req, resty.MethodPost, "/api/login", &out); err != nil {
		return entity.User{}, "", err
	}
	if out.Token == "" || out.User == nil {
		return entity.User{}, "", domain.ErrIncompleteLogin
	}
	return *out.User, out.Token, nil
}
