// Package routes wires controllers, middleware and sessions into the HTTP
// handler of the front end.
package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"inkpot/app/controllers"
	"inkpot/app/markdown"
	"inkpot/app/middleware"
	"inkpot/app/sessions"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Blog           controllers.API
	Renderer       *markdown.Renderer
	Sessions       *sessions.Store[*controllers.Visitor]
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// SetupRoutes defines the application's routes and returns the root handler.
func SetupRoutes(d Deps) (http.Handler, error) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Renderer == nil {
		d.Renderer = markdown.NewRenderer()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 15 * time.Second
	}
	tmpl, err := controllers.LoadTemplates(d.Renderer, d.Logger)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.Recoverer(d.Logger))
	router.Use(middleware.Timeout(d.RequestTimeout))

	router.HandleFunc("/healthz", controllers.Health).Methods(http.MethodGet)

	// API routes get CORS ahead of route matching so preflights are answered.
	apiController := controllers.NewAPIController(d.Blog, d.Renderer)
	apiRouter := mux.NewRouter()
	api := apiRouter.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.HandleFunc("/posts", apiController.ListPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts", apiController.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}", apiController.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", apiController.UpdatePost).Methods(http.MethodPatch)
	api.HandleFunc("/posts/{id}", apiController.DeletePost).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id}/comments", apiController.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}/comments", apiController.AddComment).Methods(http.MethodPost)
	api.HandleFunc("/tags", apiController.ListTags).Methods(http.MethodGet)
	api.HandleFunc("/tags/{slug}/posts", apiController.ListTagPosts).Methods(http.MethodGet)
	api.HandleFunc("/preview", apiController.Preview).Methods(http.MethodPost)
	api.HandleFunc("/excerpt", apiController.Excerpt).Methods(http.MethodPost)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
	router.PathPrefix("/api").Handler(corsHandler(apiRouter))

	// Web routes carry per-visitor view state.
	pages := controllers.NewPageController(tmpl, d.Logger)
	web := router.PathPrefix("/").Subrouter()
	web.Use(middleware.Session(d.Sessions))
	web.HandleFunc("/", pages.Home).Methods(http.MethodGet)
	web.HandleFunc("/more", pages.More).Methods(http.MethodPost)
	web.HandleFunc("/posts/new", pages.Compose).Methods(http.MethodGet)
	web.HandleFunc("/posts/new", pages.Submit).Methods(http.MethodPost)
	web.HandleFunc("/posts/{id}", pages.ShowPost).Methods(http.MethodGet)
	web.HandleFunc("/posts/{id}/comments", pages.AddComment).Methods(http.MethodPost)
	web.HandleFunc("/tags", pages.Tags).Methods(http.MethodGet)
	web.HandleFunc("/tags/{slug}", pages.Tag).Methods(http.MethodGet)
	web.HandleFunc("/tags/{slug}/more", pages.TagMore).Methods(http.MethodPost)

	return router, nil
}
