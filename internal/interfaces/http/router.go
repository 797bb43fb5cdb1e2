package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/jhoicas/tokobangunan-pos/internal/application/auth"
	"github.com/jhoicas/tokobangunan-pos/internal/application/crud"
	"github.com/jhoicas/tokobangunan-pos/internal/application/dashboard"
	"github.com/jhoicas/tokobangunan-pos/internal/application/report"
	"github.com/jhoicas/tokobangunan-pos/internal/application/transaction"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/guard"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StoreName string
	Session   Session
	Toasts    *Toasts
	Log       *logger.Logger

	AuthUC      *auth.UseCase
	DashboardUC *dashboard.UseCase
	Transaction *transaction.Service

	Categories      *crud.Screen[entity.Category]
	ItemTypes       *crud.Screen[entity.ItemType]
	Items           *crud.Screen[entity.Item]
	Suppliers       *crud.Screen[entity.Supplier]
	AdminCustomers  *crud.Screen[entity.Customer]
	CashierCustomer *crud.Screen[entity.Customer]
	Users           *crud.Screen[entity.User]

	// Listas de los selects (supplier, pelanggan, kategori) leídas sin pasar por la pantalla.
	SupplierList Lister[entity.Supplier]
	CustomerList Lister[entity.Customer]
	CategoryList Lister[entity.Category]

	PurchaseReport *report.Screen[entity.Purchase]
	SaleReport     *report.Screen[entity.Sale]
	StockReport    *report.Screen[entity.Item]
}

// Router registra las pantallas. El guard corre antes que cualquier ruta; lo que no
// coincide con ninguna termina en la landing del área o en el login.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Toasts == nil {
		deps.Toasts = NewToasts()
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	b := base{sess: deps.Session, toasts: deps.Toasts, store: deps.StoreName, log: deps.Log.Component("http")}

	app.Use(RequestLogger(deps.Log))
	app.Use(GuardMiddleware(deps.Session, deps.Toasts, deps.Log))
	app.Use(guard.StaticPath, filesystem.New(filesystem.Config{Root: StaticFS()}))

	// Auth (público)
	authHandler := NewAuthHandler(b, deps.AuthUC)
	app.Get(guard.LoginPath, authHandler.LoginPage)
	app.Post(guard.LoginPath, authHandler.Login)
	app.Post(guard.LogoutPath, authHandler.Logout)

	// Admin
	app.Get(guard.AdminLanding, NewDashboardHandler(b, deps.DashboardUC).Show)
	NewCRUDHandler(b, UserPage(), deps.Users).Register(app)
	NewCRUDHandler(b, CategoryPage(), deps.Categories).Register(app)
	NewCRUDHandler(b, ItemTypePage(), deps.ItemTypes).Register(app)
	NewCRUDHandler(b, ItemPage(), deps.Items).Register(app)
	NewCRUDHandler(b, SupplierPage(), deps.Suppliers).Register(app)
	NewCRUDHandler(b, CustomerPage("/admin"), deps.AdminCustomers).Register(app)

	NewReportHandler(b, PurchaseReportPage(), deps.PurchaseReport).Register(app)
	NewReportHandler(b, SaleReportPage(), deps.SaleReport).Register(app)
	NewReportHandler(b, StockReportPage(categoryOptions(b, deps.CategoryList)), deps.StockReport).Register(app)

	// Pembelian (admin) y penjualan (kasir)
	NewTransactionHandler(b, deps.Transaction, deps.SupplierList, deps.CustomerList).Register(app)

	// Kasir
	NewCRUDHandler(b, CustomerPage("/kasir"), deps.CashierCustomer).Register(app)

	// Comodines
	toAdmin := func(c *fiber.Ctx) error { return c.Redirect(guard.AdminLanding, fiber.StatusFound) }
	toCashier := func(c *fiber.Ctx) error { return c.Redirect(guard.CashierLanding, fiber.StatusFound) }
	app.All("/admin", toAdmin)
	app.All("/admin/*", toAdmin)
	app.All("/kasir", toCashier)
	app.All("/kasir/*", toCashier)
	app.All("/*", func(c *fiber.Ctx) error { return c.Redirect(guard.LoginPath, fiber.StatusFound) })
}
