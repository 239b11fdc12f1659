package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func Router(h *Handler) http.Handler {
	r := mux.NewRouter()

	// The gateway posts inbound replies here; it knows nothing about the
	// versioned API.
	r.HandleFunc("/webhook", h.Webhook).Methods(http.MethodPost)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	v1.HandleFunc("/dispatches", h.DispatchBatch).Methods(http.MethodPost)
	v1.HandleFunc("/dispatches", h.ListDispatches).Methods(http.MethodGet)
	v1.HandleFunc("/replies", h.ListReplies).Methods(http.MethodGet)

	v1.HandleFunc("/template", h.GetTemplate).Methods(http.MethodGet)
	v1.HandleFunc("/template", h.UpdateTemplate).Methods(http.MethodPut)

	v1.HandleFunc("/gateway/reset", h.ResetGateway).Methods(http.MethodPost)
	v1.HandleFunc("/gateway/qrcode", h.GatewayQRCode).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})

	return c.Handler(r)
}
