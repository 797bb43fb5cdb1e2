// Package app arma el terminal: cliente del backend, pantallas y router sobre una sesión ya creada.
package app

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/tokobangunan-pos/internal/application/auth"
	"github.com/jhoicas/tokobangunan-pos/internal/application/crud"
	"github.com/jhoicas/tokobangunan-pos/internal/application/dashboard"
	"github.com/jhoicas/tokobangunan-pos/internal/application/report"
	"github.com/jhoicas/tokobangunan-pos/internal/application/session"
	"github.com/jhoicas/tokobangunan-pos/internal/application/transaction"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/infrastructure/backend"
	apphttp "github.com/jhoicas/tokobangunan-pos/internal/interfaces/http"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// DefaultDraftMaxAge vida de un formulario de transacción abandonado.
const DefaultDraftMaxAge = 12 * time.Hour

// Options dependencias externas del terminal.
type Options struct {
	Name        string
	StoreName   string
	Backend     backend.Config
	Session     *session.Store
	Log         *logger.Logger
	DraftMaxAge time.Duration
}

// New construye la aplicación Fiber con todas las pantallas montadas.
func New(opts Options) *fiber.App {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	if opts.DraftMaxAge == 0 {
		opts.DraftMaxAge = DefaultDraftMaxAge
	}

	client := backend.New(opts.Backend, opts.Session, log, backend.WithUnauthorized(opts.Session.Invalidate))

	categories := client.Categories()
	itemTypes := client.ItemTypes()
	items := client.Items()
	suppliers := client.Suppliers()
	customers := client.Customers()

	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		Views:        apphttp.NewViews(),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: opts.Backend.Timeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	apphttp.Router(app, apphttp.RouterDeps{
		StoreName: opts.StoreName,
		Session:   opts.Session,
		Toasts:    apphttp.NewToasts(),
		Log:       log,

		AuthUC:      auth.NewUseCase(client, opts.Session, log),
		DashboardUC: dashboard.NewUseCase(client, log),
		Transaction: transaction.NewService(client, items, transaction.NewRegistry(opts.DraftMaxAge), log),

		Categories:      crud.NewCategoryScreen(categories, log),
		ItemTypes:       crud.NewItemTypeScreen(itemTypes, log),
		Items:           crud.NewItemScreen(items, categories, itemTypes, log),
		Suppliers:       crud.NewSupplierScreen(suppliers, log),
		AdminCustomers:  crud.NewCustomerScreen(customers, log),
		CashierCustomer: crud.NewCustomerScreen(customers, log),
		Users:           crud.NewUserScreen(client.Users(), log),

		SupplierList: suppliers,
		CustomerList: customers,
		CategoryList: categories,

		PurchaseReport: report.NewPurchaseReport(client.PurchaseReport, log),
		SaleReport:     report.NewSaleReport(client.SaleReport, log),
		StockReport: report.NewStockReport(func(ctx context.Context, categoryID int64, lowStock bool) ([]entity.Item, error) {
			return client.SearchItems(ctx, backend.ItemFilter{CategoryID: categoryID, LowStock: lowStock})
		}, log),
	})
	return app
}
