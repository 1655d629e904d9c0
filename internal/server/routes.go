package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smartdeals/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			// unauthorized zone
			r.Post("/auth/login", handler(s.postV1AuthLogin))

			// authorized zone
			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Route("/config", func(r chi.Router) {
					r.Get("/", handler(s.getV1Config))
					r.Put("/", handler(s.putV1Config))
				})

				r.Route("/sources", func(r chi.Router) {
					r.Get("/", handler(s.getV1Sources))
					r.Put("/{name}", handler(s.putV1Source))
					r.Post("/test", handler(s.postV1SourcesTest))
				})

				r.Post("/scan/run", handler(s.postV1ScanRun))

				r.Route("/deals", func(r chi.Router) {
					r.Get("/", handler(s.getV1Deals))
					r.Post("/{id}/approve", handler(s.postV1DealApprove))
					r.Post("/{id}/reject", handler(s.postV1DealReject))
					r.Post("/{id}/post", handler(s.postV1DealPost))
				})

				r.Get("/posts", handler(s.getV1Posts))
				r.Get("/runs", handler(s.getV1Runs))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
