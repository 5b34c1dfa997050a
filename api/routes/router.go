package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/boq-builder/api/controllers"
	"github.com/angelmondragon/boq-builder/api/middleware"
	"github.com/angelmondragon/boq-builder/internal/catalog"
	"github.com/angelmondragon/boq-builder/internal/projects"
	"github.com/angelmondragon/boq-builder/pkg/config"
	"github.com/angelmondragon/boq-builder/pkg/logger"
	"github.com/angelmondragon/boq-builder/pkg/metrics"
	"github.com/angelmondragon/boq-builder/pkg/validation"
)

type database interface {
	controllers.Pinger
	controllers.StatsSource
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient database,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	validationMetrics *metrics.ValidationMetrics,
	rules *validation.Context,
	catalogService catalog.Service,
	projectService projects.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS),
		middleware.Logging(logg, httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient))
	})

	if cfg.Metrics.Enabled && gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/validate", func(r chi.Router) {
			r.Get("/config", controllers.ValidationConfig(rules))
			r.Post("/{kind}", controllers.ValidateRecord(rules, validationMetrics, logg))
			r.Post("/{kind}/fields/{field}", controllers.ValidateField(rules, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(catalogService, logg))
			r.Post("/", controllers.CreateItem(catalogService, logg))
			r.Get("/{itemId}", controllers.GetItem(catalogService, logg))
			r.Patch("/{itemId}", controllers.UpdateItem(catalogService, logg))
			r.Delete("/{itemId}", controllers.DeleteItem(catalogService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(catalogService, logg))
			r.Post("/", controllers.CreateCategory(catalogService, logg))
			r.Delete("/{categoryId}", controllers.DeleteCategory(catalogService, logg))
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", controllers.ListProjects(projectService, logg))
			r.Post("/", controllers.CreateProject(projectService, logg))
			r.Route("/{projectId}", func(r chi.Router) {
				r.Get("/", controllers.GetProject(projectService, logg))
				r.Patch("/", controllers.UpdateProject(projectService, logg))
				r.Delete("/", controllers.DeleteProject(projectService, logg))

				r.Post("/lines", controllers.AddLine(projectService, logg))
				r.Patch("/lines/{itemId}", controllers.UpdateLine(projectService, logg))
				r.Delete("/lines/{itemId}", controllers.RemoveLine(projectService, logg))

				r.Get("/missing-dependencies", controllers.MissingDependencies(projectService, logg))
				r.Post("/missing-dependencies/{itemId}/accept", controllers.AcceptDependency(projectService, logg))
			})
		})

		r.Route("/db/stats", func(r chi.Router) {
			r.Get("/", controllers.DBStats(dbClient))
			r.Delete("/", controllers.ResetDBStats(dbClient))
		})
	})

	return r
}
