// Package session es la única fuente de verdad de "quién está logueado" en el terminal.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/guard"
	"github.com/jhoicas/tokobangunan-pos/pkg/jwt"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// Claves del almacenamiento durable. Siempre se escriben y borran juntas.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrInvalidSession token vacío o usuario sin rol conocido.
var ErrInvalidSession = errors.New("session: token o usuario inválido")

// Storage almacenamiento durable clave/valor del cliente.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Session token + usuario (ambos o ninguno).
type Session struct {
	Token string
	User  entity.User
}

// Store sesión del proceso; se inyecta en guard y pantallas.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	log     *logger.Logger
	now     func() time.Time

	token string
	user  *entity.User
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj (tests de expiración).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore construye un Store vacío. Llamar Restore una vez al arrancar.
func NewStore(storage Storage, log *logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{storage: storage, log: log.Component("session"), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login guarda usuario y token en memoria y en el almacenamiento durable, reemplazando
// cualquier sesión previa. Si la persistencia falla la sesión sigue vigente en memoria.
func (s *Store) Login(ctx context.Context, user entity.User, token string) error {
	if token == "" || !entity.ValidRole(user.Role) {
		return ErrInvalidSession
	}
	user.Password = ""

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: serializar usuario: %w", err)
	}
	if err := s.persist(ctx, token, string(raw)); err != nil {
		// la sesión queda sólo en memoria; lo guardado no puede ser de otro usuario
		s.log.Warn().Err(err).Msg("no se pudo persistir la sesión")
		if derr := s.storage.Delete(ctx, KeyToken, KeyUser); derr != nil {
			s.log.Error().Err(derr).Msg("no se pudo limpiar el almacenamiento")
		}
		return nil
	}
	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("sesión iniciada")
	return nil
}

func (s *Store) persist(ctx context.Context, token, rawUser string) error {
	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("token: %w", err)
	}
	if err := s.storage.Set(ctx, KeyUser, rawUser); err != nil {
		return fmt.Errorf("usuario: %w", err)
	}
	return nil
}

// Logout borra la sesión en memoria y en el almacenamiento durable.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("session: borrar almacenamiento: %w", err)
	}
	return nil
}

// Invalidate cierre implícito (401 del backend o token vencido).
func (s *Store) Invalidate(ctx context.Context, reason string) {
	if !s.Authenticated() {
		return
	}
	s.log.Warn().Str("reason", reason).Msg("sesión invalidada")
	if err := s.Logout(ctx); err != nil {
		s.log.Error().Err(err).Msg("invalidate")
	}
}

// Restore rehidrata la sesión desde el almacenamiento. Cualquier dato incompleto o
// malformado se trata como "sin sesión" y se limpia; nunca hace panic.
func (s *Store) Restore(ctx context.Context) {
	token, okToken, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		s.discardUnreadable(ctx, err)
		return
	}
	rawUser, okUser, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		s.discardUnreadable(ctx, err)
		return
	}
	s.restore(ctx, token, okToken, rawUser, okUser)
}

// discardUnreadable almacenamiento ilegible (documento corrupto, clave de cifrado distinta).
func (s *Store) discardUnreadable(ctx context.Context, err error) {
	s.log.Warn().Err(err).Msg("no se pudo leer la sesión guardada")
	_ = s.storage.Delete(ctx, KeyToken, KeyUser)
}

func (s *Store) restore(ctx context.Context, token string, okToken bool, rawUser string, okUser bool) {
	if !okToken && !okUser {
		return
	}

	user, reason := s.decode(token, okToken, rawUser, okUser)
	if reason != "" {
		s.log.Warn().Str("reason", reason).Msg("sesión guardada descartada")
		_ = s.storage.Delete(ctx, KeyToken, KeyUser)
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	s.log.Info().Str("username", user.Username).Msg("sesión restaurada")
}

func (s *Store) decode(token string, okToken bool, rawUser string, okUser bool) (*entity.User, string) {
	if !okToken || token == "" {
		return nil, "token ausente"
	}
	if !okUser || rawUser == "" {
		return nil, "usuario ausente"
	}
	var user entity.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, "usuario malformado"
	}
	if !entity.ValidRole(user.Role) {
		return nil, "rol desconocido"
	}
	if jwt.Expired(token, s.now()) {
		return nil, "token vencido"
	}
	return &user, ""
}

// Current devuelve una copia de la sesión vigente.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.token == "" {
		return Session{}, false
	}
	return Session{Token: s.token, User: *s.user}, true
}

// Authenticated indica si hay sesión.
func (s *Store) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Token bearer vigente ("" sin sesión).
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State estado para el guard. Un JWT vencido cuenta como no autenticado.
func (s *Store) State() guard.State {
	sess, ok := s.Current()
	if !ok || jwt.Expired(sess.Token, s.now()) {
		return guard.Unauthenticated
	}
	return guard.StateForRole(sess.User.Role)
}
