package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/infrastructure/backend"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newClient(t *testing.T, h http.Handler, tok string, opts ...backend.Option) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backend.New(backend.Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, staticToken(tok), nil, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_OK(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "login no lleva bearer")
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "budi", body["username"])
		writeJSON(w, 200, map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"id": 1, "nama": "Budi", "username": "budi", "role": "admin"},
		})
	})
	c := newClient(t, mux, "viejo")

	user, tok, err := c.Login(context.Background(), "budi", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, entity.RoleAdmin, user.Role)
}

func TestLogin_RespuestaSinToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"user": map[string]any{"id": 1, "role": "admin"}})
	})
	_, _, err := newClient(t, mux, "").Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, domain.ErrIncompleteLogin)
}

func TestLogin_401NoInvalidaSesion(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"message": "Username atau password salah"})
	})
	c := newClient(t, mux, "", backend.WithUnauthorized(func(context.Context, string) { called = true }))

	_, _, err := c.Login(context.Background(), "a", "b")
	assert.Equal(t, "Username atau password salah", domain.MessageOr(err, "Login gagal"))
	assert.False(t, called)
}

func TestLogin_Inalcanzable(t *testing.T) {
	c := backend.New(backend.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil, nil)
	_, _, err := c.Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, domain.ErrUnreachable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recursos
// ──────────────────────────────────────────────────────────────────────────────

func TestResource_CRUD(t *testing.T) {
	var got []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/kategori", func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if r.Method == http.MethodGet {
			writeJSON(w, 200, []map[string]any{{"id": 1, "nama_kategori": "Semen"}})
			return
		}
		writeJSON(w, 201, map[string]any{"id": 2})
	})
	mux.HandleFunc("/api/kategori/{id}", func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		writeJSON(w, 200, map[string]string{"message": "ok"})
	})
	c := newClient(t, mux, "tok")
	res := c.Categories()
	ctx := context.Background()

	list, err := res.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Semen", list[0].Name)

	require.NoError(t, res.Create(ctx, entity.Category{Name: "Cat"}))
	require.NoError(t, res.Update(ctx, 7, entity.Category{ID: 7, Name: "Cat"}))
	require.NoError(t, res.Delete(ctx, 7))
	assert.Equal(t, []string{
		"GET /api/kategori", "POST /api/kategori", "PUT /api/kategori/7", "DELETE /api/kategori/7",
	}, got)
}

func TestErrores_Mapeo(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   any
		kind   error
		msg    string
	}{
		{"409", 409, map[string]string{"message": "Supplier dipakai"}, domain.ErrConflict, "Supplier dipakai"},
		{"fk en 500", 500, map[string]string{"error": "Cannot delete or update a parent row: a foreign key constraint fails"}, domain.ErrConflict, "Cannot delete or update a parent row: a foreign key constraint fails"},
		{"404", 404, map[string]string{"message": "Tidak ditemukan"}, domain.ErrNotFound, "Tidak ditemukan"},
		{"400", 400, map[string]string{"message": "Nama wajib diisi"}, domain.ErrInvalidInput, "Nama wajib diisi"},
		{"500 sin cuerpo", 500, nil, nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/supplier/{id}", func(w http.ResponseWriter, r *http.Request) {
				if tc.body == nil {
					w.WriteHeader(tc.status)
					return
				}
				writeJSON(w, tc.status, tc.body)
			})
			err := newClient(t, mux, "tok").Suppliers().Delete(context.Background(), 3)

			var apiErr *domain.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.msg, apiErr.Message)
			if tc.kind != nil {
				assert.ErrorIs(t, err, tc.kind)
			} else {
				assert.Nil(t, apiErr.Kind)
			}
		})
	}
}

func TestUnauthorized_InvocaHook(t *testing.T) {
	var reason string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/barang", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"message": "Token expired"})
	})
	c := newClient(t, mux, "tok", backend.WithUnauthorized(func(_ context.Context, r string) { reason = r }))

	_, err := c.SearchItems(context.Background(), backend.ItemFilter{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.NotEmpty(t, reason)
}

func TestSearchItems_Filtros(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/barang", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "4", r.URL.Query().Get("id_kategori"))
		assert.Equal(t, "true", r.URL.Query().Get("low_stock"))
		writeJSON(w, 200, []map[string]any{
			{"id": 1, "nama_barang": "Semen", "harga_beli": "40000.00", "harga_jual": 55000, "stok": 2, "min_stok": 5},
		})
	})
	items, err := newClient(t, mux, "tok").SearchItems(context.Background(), backend.ItemFilter{CategoryID: 4, LowStock: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].PurchasePrice.Equal(decimal.NewFromInt(40000)))
	assert.True(t, items[0].LowStock())
}

func TestItems_StokComoTexto(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/barang", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{
			{"id": 1, "nama_barang": "Semen", "harga_beli": "40000", "harga_jual": "55000", "stok": "12"},
			{"id": 2, "nama_barang": "Pasir", "harga_beli": 1, "harga_jual": 2, "stok": 3, "min_stok": "3"},
		})
	})
	items, err := newClient(t, mux, "tok").Items().List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 12, items[0].Stock.Int())
	assert.False(t, items[0].LowStock())
	assert.True(t, items[1].LowStock())
}

func TestRespuestaInvalida(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/barang", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>proxy</html>"))
	})
	_, err := newClient(t, mux, "tok").Items().List(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnreachable)
	assert.Contains(t, err.Error(), "respuesta inválida")
}

func TestCreateSale(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/penjualan", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 5, body["id_pelanggan"])
		assert.Equal(t, "Cash", body["metode_pembayaran"])
		assert.Equal(t, "45000", body["total_harga"])
		assert.Len(t, body["details"], 1)
		writeJSON(w, 201, map[string]any{"id": 31, "message": "Penjualan berhasil"})
	})
	id, err := newClient(t, mux, "tok").CreateSale(context.Background(), entity.SaleRequest{
		CustomerID:    5,
		PaymentMethod: "Cash",
		Total:         decimal.NewFromInt(45000),
		Discount:      decimal.NewFromInt(5000),
		Details: []entity.TransactionDetail{
			{ItemID: 1, Quantity: 5, UnitPrice: decimal.NewFromInt(10000), Subtotal: decimal.NewFromInt(50000)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
}

func TestPurchaseReport_Periodo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/pembelian", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-03-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-03-15", r.URL.Query().Get("end_date"))
		writeJSON(w, 200, []map[string]any{
			{"id": 1, "tanggal": "2026-03-02T10:00:00.000Z", "nama_supplier": "PT Maju", "total_harga": "150000.00"},
		})
	})
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	rows, err := newClient(t, mux, "tok").PurchaseReport(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PO-1", rows[0].Number())
	assert.Equal(t, 2026, rows[0].Date.Year())
}
