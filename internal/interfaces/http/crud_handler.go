package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tokobangunan-pos/internal/application/crud"
	"github.com/jhoicas/tokobangunan-pos/internal/domain"
)

// Column columna de la tabla de una pantalla CRUD.
type Column[E any] struct {
	Header string
	Align  string // "", "right", "center"
	Value  func(E) string
}

// Field campo del formulario.
type Field struct {
	Name        string
	Label       string
	Type        string // text, number, password, textarea, select
	Value       string
	Placeholder string
	Required    bool
	Options     []Option
}

// Option opción de un select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Page describe cómo se presenta una entidad.
type Page[E any] struct {
	Title   string
	Path    string
	Columns []Column[E]
	Fields  func(form E, editing bool, options any) []Field
	Decode  func(c *fiber.Ctx) (E, error)
	ID      func(E) int64
}

type cell struct {
	Text  string
	Align string
}

type row struct {
	ID    int64
	Class string
	Cells []cell
}

func headerCells[E any](cols []Column[E]) []cell {
	out := make([]cell, 0, len(cols))
	for _, col := range cols {
		out = append(out, cell{Text: col.Header, Align: col.Align})
	}
	return out
}

func rowCells[E any](cols []Column[E], e E) []cell {
	out := make([]cell, 0, len(cols))
	for _, col := range cols {
		out = append(out, cell{Text: col.Value(e), Align: col.Align})
	}
	return out
}

// CRUDHandler pantalla CRUD genérica sobre crud.Screen.
type CRUDHandler[E any] struct {
	base
	page   Page[E]
	screen *crud.Screen[E]
}

// NewCRUDHandler construye el handler.
func NewCRUDHandler[E any](b base, page Page[E], screen *crud.Screen[E]) *CRUDHandler[E] {
	return &CRUDHandler[E]{base: b, page: page, screen: screen}
}

// Register monta las rutas de la pantalla.
func (h *CRUDHandler[E]) Register(r fiber.Router) {
	p := h.page.Path
	r.Get(p, h.List)
	r.Post(p, h.Submit)
	r.Post(p+"/batal", h.Cancel)
	r.Get(p+"/:id/edit", h.Edit)
	r.Get(p+"/:id/hapus", h.ConfirmDelete)
	r.Post(p+"/:id/hapus", h.Delete)
}

// List GET <path>.
func (h *CRUDHandler[E]) List(c *fiber.Ctx) error {
	v, err := h.screen.List(c.UserContext())
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return h.fail(c, err, h.page.Path)
		}
		h.toasts.Error(userMessage(err))
	}

	rows := make([]row, 0, len(v.Rows))
	for _, e := range v.Rows {
		rows = append(rows, row{ID: h.page.ID(e), Cells: rowCells(h.page.Columns, e)})
	}
	headers := headerCells(h.page.Columns)
	return h.render(c, "crud", fiber.Map{
		"Title":     h.page.Title,
		"Action":    h.page.Path,
		"Headers":   headers,
		"Rows":      rows,
		"Empty":     v.Empty,
		"EmptyText": crud.EmptyRow,
		"ColSpan":   len(headers) + 2,
		"Fields":    h.page.Fields(v.Form, v.Editing, v.Options),
		"Editing":   v.Editing,
	})
}

// Submit POST <path>: crea o actualiza según el modo de la pantalla.
func (h *CRUDHandler[E]) Submit(c *fiber.Ctx) error {
	e, err := h.page.Decode(c)
	if err != nil {
		return h.fail(c, err, h.page.Path)
	}
	msg, err := h.screen.Submit(c.UserContext(), e)
	if err != nil {
		return h.fail(c, err, h.page.Path)
	}
	return h.done(c, msg, h.page.Path)
}

// Cancel POST <path>/batal: vuelve a modo creación.
func (h *CRUDHandler[E]) Cancel(c *fiber.Ctx) error {
	h.screen.CancelEdit()
	return c.Redirect(h.page.Path, fiber.StatusFound)
}

// Edit GET <path>/:id/edit: carga la entidad en el formulario.
func (h *CRUDHandler[E]) Edit(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.fail(c, err, h.page.Path)
	}
	if err := h.screen.StartEditByID(c.UserContext(), id); err != nil {
		return h.fail(c, err, h.page.Path)
	}
	return c.Redirect(h.page.Path, fiber.StatusFound)
}

// ConfirmDelete GET <path>/:id/hapus: pide confirmación antes de borrar.
func (h *CRUDHandler[E]) ConfirmDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.fail(c, err, h.page.Path)
	}
	return h.render(c, "confirm", fiber.Map{
		"Title":   h.page.Title,
		"Message": h.screen.Messages().Confirm,
		"Action":  h.page.Path + "/" + strconv.FormatInt(id, 10) + "/hapus",
		"Back":    h.page.Path,
	})
}

// Delete POST <path>/:id/hapus con confirm=ya.
func (h *CRUDHandler[E]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.fail(c, err, h.page.Path)
	}
	msg, err := h.screen.Delete(c.UserContext(), id, c.FormValue("confirm") == "ya")
	if err != nil {
		return h.fail(c, err, h.page.Path)
	}
	return h.done(c, msg, h.page.Path)
}
