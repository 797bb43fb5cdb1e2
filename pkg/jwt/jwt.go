package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT indica que el token no tiene forma de JWT (el backend puede emitir tokens opacos).
var ErrNotJWT = errors.New("jwt: token opaco o malformado")

// Claims incluye los claims estándar JWT más los campos que emite el backend de la tienda.
// El terminal no conoce el secreto: sólo lee los claims para detectar expiración.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"` // "admin" | "kasir"
}

// Generate genera un token firmado. Lo usan los tests y el backend simulado de desarrollo.
func Generate(secret, subject, username, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: username,
		Role:     role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Inspect decodifica los claims sin verificar la firma.
func Inspect(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	return claims, nil
}

// Expired indica si el token es un JWT cuyo exp ya pasó en now.
// Un token opaco o sin exp nunca se considera expirado aquí; la última palabra la tiene el backend (401).
func Expired(tokenString string, now time.Time) bool {
	claims, err := Inspect(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
