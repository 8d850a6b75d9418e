package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kamleshjangid/bakery-backend/api/controllers"
	"github.com/kamleshjangid/bakery-backend/api/middleware"
	"github.com/kamleshjangid/bakery-backend/internal/carts"
	"github.com/kamleshjangid/bakery-backend/internal/catalog"
	"github.com/kamleshjangid/bakery-backend/internal/customers"
	"github.com/kamleshjangid/bakery-backend/internal/delivery"
	"github.com/kamleshjangid/bakery-backend/internal/standing"
	"github.com/kamleshjangid/bakery-backend/pkg/config"
	"github.com/kamleshjangid/bakery-backend/pkg/db"
	"github.com/kamleshjangid/bakery-backend/pkg/logger"
	"github.com/kamleshjangid/bakery-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	catalogService *catalog.Service,
	customersService *customers.Service,
	deliveryService *delivery.Service,
	standingService *standing.Service,
	cartsService *carts.Service,
	dayResolver *carts.DayResolver,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/item-groups", func(r chi.Router) {
			r.Get("/", controllers.ItemGroupList(catalogService, logg))
			r.Post("/", controllers.ItemGroupCreate(catalogService, logg))
		})
		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(catalogService, logg))
			r.Post("/", controllers.ItemCreate(catalogService, logg))
			r.Get("/{itemId}", controllers.ItemGet(catalogService, logg))
			r.Put("/{itemId}", controllers.ItemUpdate(catalogService, logg))
			r.Delete("/{itemId}", controllers.ItemDelete(catalogService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(customersService, logg))
			r.Post("/", controllers.CustomerCreate(customersService, logg))
			r.Get("/{customerId}", controllers.CustomerGet(customersService, logg))
			r.Put("/{customerId}", controllers.CustomerUpdate(customersService, logg))
			r.Delete("/{customerId}", controllers.CustomerDelete(customersService, logg))
		})
		r.Route("/addresses", func(r chi.Router) {
			r.Post("/", controllers.AddressCreate(customersService, logg))
			r.Get("/{addressId}", controllers.AddressGet(customersService, logg))
			r.Put("/{addressId}", controllers.AddressUpdate(customersService, logg))
			r.Put("/{addressId}/delivery-days", controllers.AddressSetDeliveryDays(customersService, logg))
			r.Get("/{addressId}/next-delivery-date", controllers.NextDeliveryDate(deliveryService, logg))
		})

		r.Route("/delivery-rule-sets", func(r chi.Router) {
			r.Get("/", controllers.RuleSetList(deliveryService, logg))
			r.Post("/", controllers.RuleSetCreate(deliveryService, logg))
			r.Get("/{ruleSetId}", controllers.RuleSetGet(deliveryService, logg))
			r.Put("/{ruleSetId}", controllers.RuleSetUpdate(deliveryService, logg))
			r.Delete("/{ruleSetId}", controllers.RuleSetDelete(deliveryService, logg))
		})

		r.Route("/standing-orders", func(r chi.Router) {
			r.Post("/", controllers.StandingUpsert(standingService, logg))
			r.Get("/{orderId}", controllers.StandingGet(standingService, logg))
			r.Delete("/{orderId}", controllers.StandingDelete(standingService, logg))
			r.Get("/by-pair/{customerId}/{addressId}", controllers.StandingGetByPair(standingService, logg))
		})

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", controllers.CartCheckout(cartsService, logg))
			r.Get("/{cartId}", controllers.CartGet(cartsService, logg))
			r.Delete("/{cartId}", controllers.CartDelete(cartsService, logg))
			r.Post("/{cartId}/publish", controllers.CartPublish(cartsService, logg))
		})

		r.Get("/day-view/{customerId}/{addressId}", controllers.CartDayView(dayResolver, logg))
	})

	return r
}
