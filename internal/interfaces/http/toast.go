package http

import "sync"

// Toast aviso para la siguiente página renderizada.
type Toast struct {
	Kind    string // success | error | warning | info
	Message string
}

// Toasts cola de avisos del terminal. La consume la siguiente página que se renderiza,
// lo que permite mostrar el resultado de un POST después del redirect.
type Toasts struct {
	mu    sync.Mutex
	items []Toast
}

// NewToasts crea una cola vacía.
func NewToasts() *Toasts { return &Toasts{} }

func (t *Toasts) push(kind, msg string) {
	if msg == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, Toast{Kind: kind, Message: msg})
}

func (t *Toasts) Success(msg string) { t.push("success", msg) }
func (t *Toasts) Error(msg string)   { t.push("error", msg) }
func (t *Toasts) Warning(msg string) { t.push("warning", msg) }
func (t *Toasts) Info(msg string)    { t.push("info", msg) }

// Drain devuelve y vacía la cola.
func (t *Toasts) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.items
	t.items = nil
	return out
}
