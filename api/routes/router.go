package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dulcismaison/dulcis-backend/api/controllers"
	"github.com/dulcismaison/dulcis-backend/api/middleware"
	"github.com/dulcismaison/dulcis-backend/internal/catalog"
	"github.com/dulcismaison/dulcis-backend/internal/inventory"
	"github.com/dulcismaison/dulcis-backend/internal/location"
	"github.com/dulcismaison/dulcis-backend/internal/orders"
	"github.com/dulcismaison/dulcis-backend/internal/parties"
	"github.com/dulcismaison/dulcis-backend/pkg/config"
	"github.com/dulcismaison/dulcis-backend/pkg/logger"
	"github.com/dulcismaison/dulcis-backend/pkg/metrics"
	"github.com/dulcismaison/dulcis-backend/pkg/redis"
)

// NewRouter wires every HTTP route. A nil redisClient disables idempotent
// replay and the redis readiness check.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	metricsHandler http.Handler,
	httpMetrics *metrics.HTTPMetrics,
	locationSvc location.Service,
	partiesSvc parties.Service,
	catalogSvc catalog.Service,
	inventorySvc inventory.Service,
	ordersSvc orders.Service,
) http.Handler {
	var (
		idempotencyStore redis.IdempotencyStore
		redisP           controllers.Pinger
	)
	if redisClient != nil {
		idempotencyStore = redisClient
		redisP = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/barangays", func(r chi.Router) {
			r.Get("/", controllers.ListBarangays(locationSvc, logg))
			r.Post("/", controllers.CreateBarangay(locationSvc, logg))
			r.Delete("/{id}", controllers.DeleteBarangay(locationSvc, logg))
			r.Get("/{id}/streets", controllers.ListStreets(locationSvc, logg))
			r.Post("/{id}/streets", controllers.CreateStreet(locationSvc, logg))
		})
		r.Route("/streets/{id}/addresses", func(r chi.Router) {
			r.Get("/", controllers.ListAddresses(locationSvc, logg))
			r.Post("/", controllers.CreateAddress(locationSvc, logg))
		})
		r.Get("/addresses/{id}", controllers.ResolveAddress(locationSvc, logg))
		r.Delete("/addresses/{id}", controllers.DeleteAddress(locationSvc, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(partiesSvc, logg))
			r.Get("/{id}", controllers.GetCustomer(partiesSvc, logg))
			r.Put("/{id}", controllers.UpdateCustomer(partiesSvc, logg))
			r.Delete("/{id}", controllers.DeleteCustomer(partiesSvc, logg))
			r.Get("/{id}/contacts", controllers.ListCustomerContacts(partiesSvc, logg))
			r.Post("/{id}/contacts", controllers.AddCustomerContact(partiesSvc, logg))
			r.Delete("/{id}/contacts/{contactID}", controllers.RemoveCustomerContact(partiesSvc, logg))
			r.Get("/{id}/orders", controllers.ListCustomerOrders(ordersSvc, logg))
		})
		r.Route("/employees", func(r chi.Router) {
			r.Post("/", controllers.CreateEmployee(partiesSvc, logg))
			r.Get("/{id}", controllers.GetEmployee(partiesSvc, logg))
			r.Put("/{id}", controllers.UpdateEmployee(partiesSvc, logg))
			r.Delete("/{id}", controllers.DeleteEmployee(partiesSvc, logg))
			r.Get("/{id}/contacts", controllers.ListEmployeeContacts(partiesSvc, logg))
			r.Post("/{id}/contacts", controllers.AddEmployeeContact(partiesSvc, logg))
			r.Delete("/{id}/contacts/{contactID}", controllers.RemoveEmployeeContact(partiesSvc, logg))
		})
		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", controllers.CreateSupplier(partiesSvc, logg))
			r.Get("/{id}", controllers.GetSupplier(partiesSvc, logg))
			r.Put("/{id}", controllers.UpdateSupplier(partiesSvc, logg))
			r.Delete("/{id}", controllers.DeleteSupplier(partiesSvc, logg))
		})

		r.Route("/menus", func(r chi.Router) {
			r.Get("/", controllers.ListMenus(catalogSvc, logg))
			r.Post("/", controllers.CreateMenu(catalogSvc, logg))
			r.Get("/{id}", controllers.GetMenu(catalogSvc, logg))
			r.Delete("/{id}", controllers.DeleteMenu(catalogSvc, logg))
			r.Get("/{id}/prices", controllers.PriceHistory(catalogSvc, logg))
			r.Post("/{id}/prices", controllers.SetPrice(catalogSvc, logg))
			r.Get("/{id}/price", controllers.CurrentPrice(catalogSvc, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(ordersSvc, logg))
			r.Get("/{id}", controllers.GetOrder(ordersSvc, logg))
			r.Delete("/{id}", controllers.CancelOrder(ordersSvc, logg))
			r.Get("/{id}/total", controllers.OrderTotal(ordersSvc, logg))
			r.Patch("/{id}/lines/{menuID}", controllers.UpdateOrderLine(ordersSvc, logg))
			r.Delete("/{id}/lines/{menuID}", controllers.RemoveOrderLine(ordersSvc, logg))
			r.Post("/{id}/delivery", controllers.AddDelivery(ordersSvc, logg))
			r.Post("/{id}/delivery/arrival", controllers.RecordArrival(ordersSvc, logg))
			r.Post("/{id}/packaging", controllers.AddPackaging(ordersSvc, logg))
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", controllers.ListIngredients(inventorySvc, logg))
			r.Post("/", controllers.CreateIngredient(inventorySvc, logg))
			r.Get("/critical", controllers.ListCriticalIngredients(inventorySvc, logg))
			r.Get("/{id}", controllers.GetIngredient(inventorySvc, logg))
			r.Post("/{id}/consume", controllers.ConsumeIngredient(inventorySvc, logg))
			r.Get("/{id}/movements", controllers.ListMovements(inventorySvc, logg))
		})
		r.Route("/supply-receipts", func(r chi.Router) {
			r.Post("/", controllers.RecordSupplyReceipt(inventorySvc, logg))
			r.Get("/{id}", controllers.GetSupplyReceipt(inventorySvc, logg))
			r.Delete("/{id}", controllers.VoidSupplyReceipt(inventorySvc, logg))
		})
	})

	return r
}
