package controllers

import (
	"net/http"

	"posts-api/middlewares"
	"posts-api/models"
	"posts-api/repository"
	"posts-api/validation"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

// PostsHandler binds the post routes to the repository.
type PostsHandler struct {
	Repo *repository.PostRepository
}

// SetupPostRoutes registers the post endpoints. The literal /search
// and /stats paths go in before /{id} so mux matches them first.
func (h *PostsHandler) SetupPostRoutes(r *mux.Router) {
	postsRouter := r.PathPrefix("/posts").Subrouter()
	postsRouter.HandleFunc("", h.GetPosts).Methods("GET")
	postsRouter.HandleFunc("/search", h.SearchPosts).Methods("GET")
	postsRouter.HandleFunc("/stats", h.GetStats).Methods("GET")
	postsRouter.HandleFunc("/{id}", h.GetPost).Methods("GET")
	postsRouter.HandleFunc("", h.CreatePost).Methods("POST")
	postsRouter.HandleFunc("/{id}", h.UpdatePost).Methods("PUT")
	postsRouter.HandleFunc("/{id}", h.DeletePost).Methods("DELETE")
}

// GetPosts lists every post, newest first.
func (h *PostsHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Repo.FindAll(r.Context())
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	middlewares.RespondJSON(w, map[string]interface{}{
		"success": true,
		"data":    posts,
		"count":   len(posts),
	}, http.StatusOK)
}

// SearchPosts filters, sorts and paginates posts.
func (h *PostsHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	input, err := validation.ParseSearchInput(r.URL.Query())
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	result, err := h.Repo.Search(r.Context(), input)
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	middlewares.RespondJSON(w, map[string]interface{}{
		"success":    true,
		"data":       result.Data,
		"pagination": result.Pagination,
	}, http.StatusOK)
}

// GetStats reports published/draft counts, fetched concurrently.
func (h *PostsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var published, drafts int
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		published, err = h.Repo.CountPublished(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		drafts, err = h.Repo.CountDrafts(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	middlewares.RespondJSON(w, map[string]interface{}{
		"success": true,
		"data": models.Stats{
			Published: published,
			Drafts:    drafts,
			Total:     published + drafts,
		},
	}, http.StatusOK)
}

// GetPost fetches one post by id.
func (h *PostsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(mux.Vars(r)["id"])
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	post, err := h.Repo.FindByID(r.Context(), id)
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	middlewares.RespondJSON(w, map[string]interface{}{
		"success": true,
		"data":    post,
	}, http.StatusOK)
}

// CreatePost validates the body and persists a new post.
func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	input, err := validation.ParseCreateInput(r.Body)
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	post, err := h.Repo.Create(r.Context(), input)
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	middlewares.RespondJSON(w, map[string]interface{}{
		"success": true,
		"message": "Post created successfully",
		"data":    post,
	}, http.StatusCreated)
}

// UpdatePost applies a partial update to an existing post.
func (h *PostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(mux.Vars(r)["id"])
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	input, err := validation.ParseUpdateInput(r.Body)
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	post, err := h.Repo.Update(r.Context(), id, input)
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	middlewares.RespondJSON(w, map[string]interface{}{
		"success": true,
		"message": "Post updated successfully",
		"data":    post,
	}, http.StatusOK)
}

// DeletePost removes a post permanently.
func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(mux.Vars(r)["id"])
	if err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		middlewares.WriteError(w, r, err)
		return
	}

	middlewares.RespondJSON(w, map[string]interface{}{
		"success": true,
		"message": "Post deleted successfully",
	}, http.StatusOK)
}
