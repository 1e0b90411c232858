package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemsvc/pkg/app"
	"github.com/ghuser/itemsvc/pkg/auth"
	"github.com/ghuser/itemsvc/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemsvc/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
// Reads of public data are anonymous; mutations and self-scoped reads
// require an authenticated user.
func ItemRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	requireUser := auth.RequireUser(a.TokenVerifier, a.SessionStore, a.Logger)

	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(svcs).Execute)
		r.Get("/{id}", handlers.NewGetItemHandler(svcs).Execute)
		r.Get("/user/{userId}", handlers.NewListItemsByUserHandler(svcs).Execute)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/user", handlers.NewListItemsByUserHandler(svcs).ExecuteSelf)
			r.Post("/", handlers.NewPostItemHandler(svcs).Execute)
			r.Put("/{id}", handlers.NewPutItemHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDeleteItemHandler(svcs).Execute)
		})
	})
}
