package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("data tidak ditemukan")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("sesi tidak valid atau telah berakhir")
	ErrForbidden         = errors.New("akses ditolak")
	ErrConflict          = errors.New("data masih digunakan oleh data lain")
	ErrUnreachable       = errors.New("tidak dapat terhubung ke server")
	ErrInsufficientStock = errors.New("stok tidak mencukupi")
	ErrBusy              = errors.New("permintaan sebelumnya masih diproses")
	ErrConfirmation      = errors.New("konfirmasi diperlukan")
	ErrIncompleteLogin   = errors.New("respons login tanpa token atau pengguna")
)

// APIError respuesta no 2xx del backend. Kind es el sentinel que corresponde al status
// (o nil para un fallo genérico); Message es el texto del backend, vacío si no envió ninguno.
type APIError struct {
	Status  int
	Message string
	Kind    error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend %d", e.Status)
}

// Unwrap permite errors.Is(err, ErrConflict) etc.
func (e *APIError) Unwrap() error { return e.Kind }

// MessageOr devuelve el mensaje del backend si existe; si no, fallback.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Failure error con el mensaje que ve el usuario (toast). Err conserva la causa.
type Failure struct {
	Message string
	Err     error
}

// Fail construye un *Failure.
func Fail(message string, err error) *Failure {
	return &Failure{Message: message, Err: err}
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// MsgBusy aviso del bloqueo por petición en curso.
const MsgBusy = "Permintaan sebelumnya masih diproses"
