package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// ErrSealed el valor guardado no se puede abrir con la clave actual.
var ErrSealed = errors.New("storage: valor cifrado inválido")

type backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Sealed cifra cada valor en reposo con secretbox (XSalsa20-Poly1305).
// La clave de 32 bytes se deriva del secreto configurado con SHA-256.
type Sealed struct {
	inner backend
	key   [32]byte
}

// NewSealed envuelve un almacenamiento existente.
func NewSealed(inner backend, secret string) *Sealed {
	return &Sealed{inner: inner, key: sha256.Sum256([]byte(secret))}
}

func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.open(v)
	if err != nil {
		return "", false, err
	}
	return plain, true, nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("storage: nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(box))
}

func (s *Sealed) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}

func (s *Sealed) open(encoded string) (string, error) {
	box, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(box) < 24+secretbox.Overhead {
		return "", ErrSealed
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plain, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", ErrSealed
	}
	return string(plain), nil
}
