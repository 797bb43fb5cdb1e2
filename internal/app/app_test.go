package app_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tokobangunan-pos/internal/app"
	"github.com/jhoicas/tokobangunan-pos/internal/application/session"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/infrastructure/backend"
	"github.com/jhoicas/tokobangunan-pos/internal/infrastructure/storage"
)

// ──────────────────────────────────────────────────────────────────────────────
// Backend simulado
// ──────────────────────────────────────────────────────────────────────────────

type fakeBackend struct {
	mu        sync.Mutex
	suppliers []entity.Supplier
	customers []entity.Customer
	items     []entity.Item
	sales     []entity.SaleRequest
	expired   bool // responde 401 a toda llamada autenticada
}

func (f *fakeBackend) setSuppliers(rows []entity.Supplier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suppliers = rows
}

func (f *fakeBackend) supplierCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.suppliers)
}

func (f *fakeBackend) savedSales() []entity.SaleRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.SaleRequest(nil), f.sales...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "rahasia" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Username atau password salah"})
			return
		}
		role := entity.RoleAdmin
		if body.Username == "kasir1" {
			role = entity.RoleCashier
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok-" + body.Username,
			"user":  entity.User{ID: 7, Name: "Uji " + body.Username, Username: body.Username, Role: role},
		})
	})

	authed := func(fn http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			expired := f.expired
			f.mu.Unlock()
			if expired || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer tok-") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token tidak valid"})
				return
			}
			fn(w, r)
		}
	}

	mux.HandleFunc("GET /api/dashboard", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"summary":              map[string]any{"totalPenjualanBulan": "1500000", "totalPembelianBulan": "900000", "totalBarang": 3},
			"penjualanPerKategori": []map[string]any{{"nama_kategori": "Semen", "total_penjualan": "1500000"}},
			"barangHampirHabis":    []map[string]any{},
		})
	}))
	mux.HandleFunc("GET /api/supplier", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.suppliers)
	}))
	mux.HandleFunc("POST /api/supplier", authed(func(w http.ResponseWriter, r *http.Request) {
		var s entity.Supplier
		_ = json.NewDecoder(r.Body).Decode(&s)
		f.mu.Lock()
		s.ID = int64(len(f.suppliers) + 1)
		f.suppliers = append(f.suppliers, s)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"id": s.ID})
	}))
	mux.HandleFunc("DELETE /api/supplier/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ER_ROW_IS_REFERENCED_2: a foreign key constraint fails"})
	}))
	mux.HandleFunc("GET /api/pelanggan", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.customers)
	}))
	mux.HandleFunc("GET /api/barang", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.items)
	}))
	mux.HandleFunc("GET /api/penjualan", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []entity.Sale{})
	}))
	mux.HandleFunc("POST /api/penjualan", authed(func(w http.ResponseWriter, r *http.Request) {
		var in entity.SaleRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.sales = append(f.sales, in)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"id": 41})
	}))
	return mux
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type terminal struct {
	app     *fiber.App
	sess    *session.Store
	backend *fakeBackend
}

func newTerminal(t *testing.T) *terminal {
	t.Helper()
	fb := &fakeBackend{
		customers: []entity.Customer{{ID: 3, Name: "Pak Joko"}},
		items: []entity.Item{
			{ID: 1, Name: "Semen 50kg", PurchasePrice: decimal.RequireFromString("8000"), SalePrice: decimal.RequireFromString("10000"), Stock: 20},
		},
	}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	sess := session.NewStore(storage.NewMemory(), nil)
	web := app.New(app.Options{
		Name:      "test",
		StoreName: "Toko Uji",
		Backend:   backend.Config{BaseURL: srv.URL, Timeout: 2 * time.Second},
		Session:   sess,
	})
	return &terminal{app: web, sess: sess, backend: fb}
}

func (tm *terminal) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := tm.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (tm *terminal) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := tm.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (tm *terminal) login(t *testing.T, username string) {
	t.Helper()
	resp := tm.post(t, "/login", url.Values{"username": {username}, "password": {"rahasia"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login y guard
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_AdminAterrizaEnDashboard(t *testing.T) {
	tm := newTerminal(t)

	resp := tm.post(t, "/login", url.Values{"username": {"admin"}, "password": {"rahasia"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
	assert.True(t, tm.sess.Authenticated())

	resp, body := tm.get(t, "/admin/dashboard")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Login berhasil")
	assert.Contains(t, body, "Rp 1.500.000")
	assert.Contains(t, body, "Toko Uji")
}

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	tm := newTerminal(t)

	resp := tm.post(t, "/login", url.Values{"username": {"admin"}, "password": {"salah"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?username=admin", resp.Header.Get("Location"))
	assert.False(t, tm.sess.Authenticated())

	_, body := tm.get(t, "/login?username=admin")
	assert.Contains(t, body, "Username atau password salah")
}

func TestLogin_KasirAterrizaEnPenjualan(t *testing.T) {
	tm := newTerminal(t)
	resp := tm.post(t, "/login", url.Values{"username": {"kasir1"}, "password": {"rahasia"}})
	assert.Equal(t, "/kasir/penjualan", resp.Header.Get("Location"))

	resp, _ = tm.get(t, "/admin/supplier")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/kasir/penjualan", resp.Header.Get("Location"))
}

func TestRutaDesconocida(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "admin")

	resp, _ := tm.get(t, "/admin/tidak-ada")
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
	resp, _ = tm.get(t, "/lain")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLogout(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "admin")

	resp := tm.post(t, "/logout", nil)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.False(t, tm.sess.Authenticated())
}

// Un 401 del backend en una llamada autenticada cierra la sesión y vuelve al login.
func TestBackend401CierraSesion(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "admin")

	tm.backend.mu.Lock()
	tm.backend.expired = true
	tm.backend.mu.Unlock()

	resp, _ := tm.get(t, "/admin/supplier")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.False(t, tm.sess.Authenticated())

	_, body := tm.get(t, "/login")
	assert.Contains(t, body, "Sesi Anda telah berakhir")
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestSupplier_CrearYListar(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "admin")

	_, body := tm.get(t, "/admin/supplier")
	assert.Contains(t, body, "Tidak ada data")

	resp := tm.post(t, "/admin/supplier", url.Values{"nama_supplier": {"CV Maju"}, "kontak": {"0812"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/supplier", resp.Header.Get("Location"))

	_, body = tm.get(t, "/admin/supplier")
	assert.Contains(t, body, "Supplier berhasil ditambahkan")
	assert.Contains(t, body, "CV Maju")
}

func TestSupplier_ValidacionLocal(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "admin")

	tm.post(t, "/admin/supplier", url.Values{"nama_supplier": {"  "}})
	_, body := tm.get(t, "/admin/supplier")
	assert.Contains(t, body, "Nama supplier harus diisi")
	assert.Zero(t, tm.backend.supplierCount())
}

// Borrar un supplier referenciado muestra el aviso y la lista no cambia.
func TestSupplier_BorradoRechazado(t *testing.T) {
	tm := newTerminal(t)
	tm.backend.setSuppliers([]entity.Supplier{{ID: 1, Name: "CV Maju"}})
	tm.login(t, "admin")

	_, body := tm.get(t, "/admin/supplier/1/hapus")
	assert.Contains(t, body, "Apakah Anda yakin ingin menghapus supplier ini?")

	resp := tm.post(t, "/admin/supplier/1/hapus", url.Values{"confirm": {"ya"}})
	assert.Equal(t, "/admin/supplier", resp.Header.Get("Location"))

	_, body = tm.get(t, "/admin/supplier")
	assert.Contains(t, body, "Gagal menghapus supplier")
	assert.Contains(t, body, "CV Maju")
}

// ──────────────────────────────────────────────────────────────────────────────
// Penjualan
// ──────────────────────────────────────────────────────────────────────────────

// Dos capturas del mismo barang (2 y 3 a 10000) con diskon 5000 envían una sola línea.
func TestPenjualan_FusionYDiskon(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "kasir1")

	resp, _ := tm.get(t, "/kasir/penjualan/tambah")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	form := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(form, "/kasir/penjualan/tambah/"))

	header := func(extra url.Values) url.Values {
		v := url.Values{"id_pelanggan": {"3"}, "metode_pembayaran": {"Tunai"}, "diskon": {"5000"}}
		for k, vals := range extra {
			v[k] = vals
		}
		return v
	}
	tm.post(t, form, header(url.Values{"action": {"add"}, "id_barang": {"1"}, "jumlah": {"2"}}))
	tm.post(t, form, header(url.Values{"action": {"add"}, "id_barang": {"1"}, "jumlah": {"3"}, "jumlah_0": {"2"}}))

	resp, body := tm.get(t, form)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Rp 45.000")

	resp = tm.post(t, form, header(url.Values{"action": {"save"}, "jumlah_0": {"5"}}))
	assert.Equal(t, "/kasir/penjualan", resp.Header.Get("Location"))

	sales := tm.backend.savedSales()
	require.Len(t, sales, 1)
	sale := sales[0]
	assert.Equal(t, int64(3), sale.CustomerID)
	assert.Equal(t, "Tunai", sale.PaymentMethod)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("45000")))
	assert.True(t, sale.Discount.Equal(decimal.RequireFromString("5000")))
	require.Len(t, sale.Details, 1)
	assert.Equal(t, 5, sale.Details[0].Quantity)
	assert.True(t, sale.Details[0].Subtotal.Equal(decimal.RequireFromString("50000")))

	// el borrador se descarta tras guardar
	resp, _ = tm.get(t, form)
	assert.Equal(t, "/kasir/penjualan", resp.Header.Get("Location"))
}

func TestPenjualan_SinPelanggan(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "kasir1")

	resp, _ := tm.get(t, "/kasir/penjualan/tambah")
	form := resp.Header.Get("Location")
	tm.post(t, form, url.Values{"action": {"add"}, "id_barang": {"1"}, "jumlah": {"1"}})
	resp = tm.post(t, form, url.Values{"action": {"save"}})
	assert.Equal(t, form, resp.Header.Get("Location"))

	_, body := tm.get(t, form)
	assert.Contains(t, body, "Silakan pilih pelanggan")
	assert.Empty(t, tm.backend.savedSales())
}

func TestSesionRestauradaAlArrancar(t *testing.T) {
	mem := storage.NewMemory()
	first := session.NewStore(mem, nil)
	require.NoError(t, first.Login(context.Background(), entity.User{ID: 1, Name: "A", Username: "a", Role: entity.RoleAdmin}, "tok-a"))

	second := session.NewStore(mem, nil)
	second.Restore(context.Background())
	cur, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, "tok-a", cur.Token)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestLaporanStok_TablaEImpresion(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "admin")

	resp, body := tm.get(t, "/admin/laporan/stok")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Semen 50kg")
	assert.Contains(t, body, "Nilai Persediaan")
	assert.Contains(t, body, "Rp 160.000", "20 x harga beli 8000")
	assert.Contains(t, body, "/admin/laporan/stok/cetak")

	resp, body = tm.get(t, "/admin/laporan/stok/cetak")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Toko Uji")
	assert.Contains(t, body, "Laporan Stok Barang")
	assert.Contains(t, body, "window.print()")
}

func TestLaporan_ImprimirSinDatosVuelveAlReporte(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "admin")

	resp, _ := tm.get(t, "/admin/laporan/penjualan/cetak")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/laporan/penjualan", resp.Header.Get("Location"))

	_, body := tm.get(t, "/admin/laporan/penjualan")
	assert.Contains(t, body, "Tidak ada data untuk dicetak")
}

func TestLaporan_RangoInvertido(t *testing.T) {
	tm := newTerminal(t)
	tm.login(t, "admin")

	_, body := tm.get(t, "/admin/laporan/pembelian?start_date=2026-05-10&end_date=2026-05-01")
	assert.Contains(t, body, "Tanggal awal tidak boleh melebihi tanggal akhir")
}
