package controllers

import (
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
)

// SetupStaticRoutes serves the single-page frontend: index.html at the
// root and any assets under /static/.
func SetupStaticRoutes(router *mux.Router, dir string) {
	fileServer := http.FileServer(http.Dir(dir))
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fileServer))

	index := filepath.Join(dir, "index.html")
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	}).Methods("GET")
}
