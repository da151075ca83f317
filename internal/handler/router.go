package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/opora-ai/opora-bot/internal/service/session"
	"github.com/opora-ai/opora-bot/pkg/utils"
)

// NewRouter exposes the operational HTTP surface: liveness and a session
// counter. Conversations never flow through HTTP; they live on the Telegram
// transport.
func NewRouter(sessions *session.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]int{
				"activeSessions": sessions.ActiveSessions(),
			})
		})
	})

	return r
}
