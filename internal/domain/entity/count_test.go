package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
)

func TestCount_NumeroOTexto(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want entity.Count
	}{
		{"número", `12`, 12},
		{"texto", `"12"`, 12},
		{"texto con espacios", `" 7 "`, 7},
		{"decimal entero", `"12.00"`, 12},
		{"null", `null`, 0},
		{"vacío", `""`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c entity.Count
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &c))
			assert.Equal(t, tc.want, c)
		})
	}
}

func TestCount_Invalido(t *testing.T) {
	var c entity.Count
	assert.Error(t, json.Unmarshal([]byte(`"dua"`), &c))
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &c))
}

func TestItem_StokComoTexto(t *testing.T) {
	var it entity.Item
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"nama_barang":"Semen","stok":"4","min_stok":"5"}`), &it))
	assert.Equal(t, 4, it.Stock.Int())
	assert.True(t, it.LowStock())
}
