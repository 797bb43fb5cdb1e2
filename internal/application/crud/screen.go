// Package crud implementa el ciclo lista / formulario / edición / borrado común a las
// pantallas de datos maestros, genérico sobre la entidad.
package crud

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// EmptyRow texto de la fila única de una tabla vacía.
const EmptyRow = "Tidak ada data"

// Resource recurso REST de la entidad.
type Resource[E any] interface {
	List(ctx context.Context) ([]E, error)
	Create(ctx context.Context, e E) error
	Update(ctx context.Context, id int64, e E) error
	Delete(ctx context.Context, id int64) error
}

// Messages textos de la pantalla.
type Messages struct {
	Created      string
	Updated      string
	Deleted      string
	SaveFailed   string
	LoadFailed   string
	DeleteFailed string
	Confirm      string
}

// Config describe una entidad concreta.
type Config[E any] struct {
	Name     string
	Messages Messages
	ID       func(E) int64
	// Blank valores iniciales del formulario. Nil = valor cero.
	Blank func() E
	// Validate revisión local antes de enviar; editing indica modo edición.
	Validate func(e E, editing bool) error
	// Options listas de referencia del formulario (p.ej. kategori y jenis de barang).
	Options func(ctx context.Context) (any, error)
}

// View estado renderizable de la pantalla.
type View[E any] struct {
	Rows    []E
	Empty   bool
	Form    E
	Editing bool
	EditID  int64
	Options any
	Error   string
}

// Screen instancia de pantalla CRUD. Sus métodos son seguros para uso concurrente; las
// mutaciones se serializan con un semáforo de peso 1 que rechaza (no espera) la segunda.
type Screen[E any] struct {
	cfg  Config[E]
	res  Resource[E]
	gate *semaphore.Weighted
	log  *logger.Logger

	mu      sync.Mutex
	form    E
	editing bool
	editID  int64
	fresh   []E // lista obtenida tras la última mutación, pendiente de mostrar
	hasNew  bool
}

// NewScreen construye la pantalla.
func NewScreen[E any](cfg Config[E], res Resource[E], log *logger.Logger) *Screen[E] {
	if log == nil {
		log = logger.Nop()
	}
	s := &Screen[E]{
		cfg:  cfg,
		res:  res,
		gate: semaphore.NewWeighted(1),
		log:  log.Component("crud." + cfg.Name),
	}
	s.form = s.blank()
	return s
}

// Name nombre de la entidad.
func (s *Screen[E]) Name() string { return s.cfg.Name }

// Messages textos configurados.
func (s *Screen[E]) Messages() Messages { return s.cfg.Messages }

func (s *Screen[E]) blank() E {
	if s.cfg.Blank != nil {
		return s.cfg.Blank()
	}
	var zero E
	return zero
}

// List obtiene la lista y compone la vista. Tras una mutación reutiliza la lista ya
// obtenida en esa mutación en vez de pedirla otra vez.
func (s *Screen[E]) List(ctx context.Context) (View[E], error) {
	s.mu.Lock()
	rows, reuse := s.fresh, s.hasNew
	s.fresh, s.hasNew = nil, false
	v := View[E]{Form: s.form, Editing: s.editing, EditID: s.editID}
	s.mu.Unlock()

	if s.cfg.Options != nil {
		opts, err := s.cfg.Options(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return v, err
			}
			s.log.Warn().Err(err).Msg("opciones del formulario")
		}
		v.Options = opts
	}

	if !reuse {
		var err error
		rows, err = s.res.List(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("listar")
			v.Empty = true
			v.Error = s.cfg.Messages.LoadFailed
			if errors.Is(err, domain.ErrUnauthorized) {
				return v, err
			}
			return v, domain.Fail(s.cfg.Messages.LoadFailed, err)
		}
	}
	v.Rows = rows
	v.Empty = len(rows) == 0
	return v, nil
}

// Submit crea o actualiza según el modo. En éxito reinicia el formulario y vuelve a listar
// después de recibir la respuesta de la mutación. En fallo el estado no cambia.
func (s *Screen[E]) Submit(ctx context.Context, e E) (string, error) {
	if !s.gate.TryAcquire(1) {
		return "", domain.Fail(domain.MsgBusy, domain.ErrBusy)
	}
	defer s.gate.Release(1)

	s.mu.Lock()
	editing, id := s.editing, s.editID
	s.mu.Unlock()

	if s.cfg.Validate != nil {
		if err := s.cfg.Validate(e, editing); err != nil {
			s.keepForm(e)
			return "", err
		}
	}

	var err error
	msg := s.cfg.Messages.Created
	if editing {
		msg = s.cfg.Messages.Updated
		err = s.res.Update(ctx, id, e)
	} else {
		err = s.res.Create(ctx, e)
	}
	if err != nil {
		s.log.Warn().Err(err).Bool("editing", editing).Int64("id", id).Msg("guardar")
		s.keepForm(e)
		if errors.Is(err, domain.ErrUnauthorized) {
			return "", err
		}
		return "", domain.Fail(domain.MessageOr(err, s.cfg.Messages.SaveFailed), err)
	}

	s.mu.Lock()
	s.form = s.blank()
	s.editing, s.editID = false, 0
	s.mu.Unlock()
	s.refresh(ctx)
	return msg, nil
}

// keepForm conserva lo escrito para volver a mostrarlo con el error.
func (s *Screen[E]) keepForm(e E) {
	s.mu.Lock()
	s.form = e
	s.mu.Unlock()
}

// refresh re-lista tras una mutación; un fallo aquí no invalida la mutación ya hecha.
func (s *Screen[E]) refresh(ctx context.Context) {
	rows, err := s.res.List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("re-listar")
		return
	}
	s.mu.Lock()
	s.fresh, s.hasNew = rows, true
	s.mu.Unlock()
}

// StartEdit pasa a modo edición con los valores actuales de la entidad.
func (s *Screen[E]) StartEdit(e E) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = e
	s.editing = true
	s.editID = s.cfg.ID(e)
}

// StartEditByID busca la entidad en la lista del backend y pasa a modo edición.
func (s *Screen[E]) StartEditByID(ctx context.Context, id int64) error {
	rows, err := s.res.List(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
		return domain.Fail(s.cfg.Messages.LoadFailed, err)
	}
	for _, e := range rows {
		if s.cfg.ID(e) == id {
			s.StartEdit(e)
			return nil
		}
	}
	return domain.Fail(domain.ErrNotFound.Error(), domain.ErrNotFound)
}

// CancelEdit vuelve a modo creación con el formulario vacío.
func (s *Screen[E]) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = s.blank()
	s.editing, s.editID = false, 0
}

// Delete borra tras la confirmación explícita. Si el backend lo rechaza la lista no cambia.
func (s *Screen[E]) Delete(ctx context.Context, id int64, confirmed bool) (string, error) {
	if !confirmed {
		return "", domain.Fail(s.cfg.Messages.Confirm, domain.ErrConfirmation)
	}
	if !s.gate.TryAcquire(1) {
		return "", domain.Fail(domain.MsgBusy, domain.ErrBusy)
	}
	defer s.gate.Release(1)

	if err := s.res.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("borrar")
		if errors.Is(err, domain.ErrUnauthorized) {
			return "", err
		}
		return "", domain.Fail(s.cfg.Messages.DeleteFailed, err)
	}

	s.mu.Lock()
	if s.editing && s.editID == id {
		s.form = s.blank()
		s.editing, s.editID = false, 0
	}
	s.mu.Unlock()
	s.refresh(ctx)
	return s.cfg.Messages.Deleted, nil
}
