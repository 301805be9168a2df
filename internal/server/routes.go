// Package server wires HTTP handlers into a gorilla/mux router.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// SetupRoutes returns the relay's router. Upgrade requests on "/" reach the
// relay; plain GETs on "/" and "/healthz" reach the health check.
func SetupRoutes(rl *Relay) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", rl.WebSocketHandler).
		Methods(http.MethodGet).
		MatcherFunc(isUpgrade)
	r.HandleFunc("/", rl.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", rl.HealthHandler).Methods(http.MethodGet)
	return r
}

func isUpgrade(r *http.Request, _ *mux.RouteMatch) bool {
	return websocket.IsWebSocketUpgrade(r)
}
