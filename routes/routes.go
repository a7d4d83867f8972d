package routes

import (
	"database/sql"
	"net/http"
	"net/http/pprof"

	"posts-api/controllers"
	"posts-api/middlewares"
	"posts-api/repository"

	"github.com/gorilla/mux"
)

// SetupRoutes sets up the application routes and middlewares.
func SetupRoutes(database *sql.DB, environment string) http.Handler {
	router := mux.NewRouter()

	// Apply global middlewares
	router.Use(middlewares.CorsMiddleware(&middlewares.CorsConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	router.Use(middlewares.LoggingMiddleware)
	router.NotFoundHandler = middlewares.NotFoundHandler()

	postsHandler := &controllers.PostsHandler{
		Repo: repository.NewPostRepository(database),
	}
	postsHandler.SetupPostRoutes(router)

	healthHandler := controllers.NewHealthHandler(database, environment)
	healthHandler.SetupHealthRoutes(router)

	controllers.SetupStaticRoutes(router, "static")

	// Register pprof routes to enable profiling
	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
