package rest

import (
	"buzz/internal/service"
	"buzz/internal/transport/rest/handler"
	"buzz/internal/transport/rest/middleware"
	"buzz/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService *service.AuthService
	GameService *service.GameService
	RoomService *service.RoomService
	WSHub       *ws.Hub
	WSHandler   *ws.Handler
	CORSOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	gameHandler := handler.NewGameHandler(c.GameService)
	roomHandler := handler.NewRoomHandler(c.RoomService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware(c.CORSOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Public routes
	r.HandleFunc("/register", authHandler.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/token", authHandler.Token).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	r.HandleFunc("/ws/{code}", c.WSHandler.RoomWS).Methods("GET")

	// Authenticated routes
	authed := r.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/me", authHandler.Me).Methods("GET", "OPTIONS")
	authed.HandleFunc("/profile", authHandler.UpdateProfile).Methods("PUT", "OPTIONS")

	authed.HandleFunc("/games", gameHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/games/{slug}", gameHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/categories", gameHandler.Categories).Methods("GET", "OPTIONS")

	authed.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{code}/ready", roomHandler.ToggleReady).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{code}/leave", roomHandler.Leave).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{code}/start", roomHandler.Start).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{code}/restart", roomHandler.Restart).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{code}/chat", roomHandler.Chat).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(origins string) mux.MiddlewareFunc {
	if origins == "" {
		origins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
