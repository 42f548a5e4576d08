package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"maya-backend/internal/infra/handlers"
)

type Routes struct {
	Mux         *mux.Router
	ApiHandlers *handlers.ApiHandlers
}

func NewRoutes(mux *mux.Router, apiHandlers *handlers.ApiHandlers) *Routes {
	return &Routes{mux, apiHandlers}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/api", r.ApiHandlers.Root).Methods(http.MethodGet)
	r.Mux.HandleFunc("/api/transcribe", r.ApiHandlers.Transcribe).Methods(http.MethodPost)
	r.Mux.HandleFunc("/api/set-language", r.ApiHandlers.SetLanguage).Methods(http.MethodPost)
	r.Mux.HandleFunc("/api/get-user-persona", r.ApiHandlers.GetUserPersona).Methods(http.MethodGet)
	r.Mux.HandleFunc("/api/update-user-persona", r.ApiHandlers.UpdateUserPersona).Methods(http.MethodPost)
	r.Mux.HandleFunc("/api/end-chat", r.ApiHandlers.EndChat).Methods(http.MethodPost)
	r.Mux.HandleFunc("/api/get-pdf", r.ApiHandlers.GetPDF).Methods(http.MethodGet)
	r.Mux.HandleFunc("/api/recommendation", r.ApiHandlers.Recommend).Methods(http.MethodPost)

	r.Mux.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
