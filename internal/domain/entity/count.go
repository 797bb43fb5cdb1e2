package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Count entero que el backend puede enviar como número o como texto ("12").
// null y "" se leen como 0.
type Count int

// UnmarshalJSON implementa json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	var n json.Number
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*c = 0
			return nil
		}
		n = json.Number(s)
	} else if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("count: %w", err)
	}
	if v, err := strconv.Atoi(n.String()); err == nil {
		*c = Count(v)
		return nil
	}
	// "12.00" de columnas DECIMAL
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || f != float64(int(f)) {
		return fmt.Errorf("count: valor no entero %q", n.String())
	}
	*c = Count(int(f))
	return nil
}

// Int valor como int.
func (c Count) Int() int { return int(c) }
