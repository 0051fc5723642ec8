package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/metrics"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireCredential)

		r.Route("/users/me", func(r chi.Router) {
			r.Post("/", handler.CreateMe)
			r.Get("/", handler.GetMe)
			r.Patch("/", handler.UpdateMe)
			r.Put("/avatar", handler.ChangeAvatar)
		})

		r.Route("/pets", func(r chi.Router) {
			r.Get("/", handler.ListPets)
			r.Post("/with-photo", handler.CreatePetWithPhoto)
			r.Get("/{id}", handler.GetPet)
			r.Patch("/{id}", handler.UpdatePet)
			r.Delete("/{id}", handler.DeletePet)
			r.Get("/{id}/health-records", handler.ListHealthRecords)
			r.Post("/{id}/health-records", handler.CreateHealthRecord)
			r.Post("/{id}/health-records/certificate", handler.CreateHealthRecordWithCertificate)
		})

		r.Get("/sagas/{id}", handler.GetSaga)
	})
	return r
}
