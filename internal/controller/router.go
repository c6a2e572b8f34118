package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/unclebandit/spinwin-backend/internal/handler"
	"github.com/unclebandit/spinwin-backend/internal/service"
)

// NewRouter wires every campaign route.
func NewRouter(svc *service.CampaignService) http.Handler {
	c := &CampaignController{CampaignService: svc}
	h := handler.NewCampaignHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/campaigns/{id}", func(r chi.Router) {
		r.Get("/", h.GetCampaign)
		r.Get("/report", h.GetReport)
		r.Post("/save", c.Save)
		r.Post("/reload", c.Reload)

		r.Post("/actions", c.AddAction)
		r.Post("/actions/reorder", c.ReorderActions)
		r.Put("/actions/{actionID}", c.UpdateAction)
		r.Delete("/actions/{actionID}", c.RemoveAction)

		r.Post("/rewards", c.AddReward)
		r.Put("/rewards/{rewardID}", c.UpdateReward)
		r.Delete("/rewards/{rewardID}", c.RemoveReward)
		r.Put("/winning-mode", c.SetWinningMode)

		r.Put("/conditions/global", c.SetGlobalCondition)
		r.Put("/conditions/purchase", c.SetPurchase)
		r.Post("/conditions", c.AddCondition)
		r.Put("/conditions/{condID}", c.UpdateCondition)
		r.Delete("/conditions/{condID}", c.RemoveCondition)

		r.Put("/pin", c.CommitPin)
		r.Put("/settings", c.UpdateSettings)
		r.Put("/customization", c.UpdateCustomization)
	})
	return r
}
