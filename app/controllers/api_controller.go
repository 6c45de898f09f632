package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"inkpot/app/markdown"
	"inkpot/app/models"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// APIController serves the JSON API under /api.
type APIController struct {
	blog     API
	renderer *markdown.Renderer
}

// NewAPIController creates a new APIController
func NewAPIController(blog API, renderer *markdown.Renderer) *APIController {
	return &APIController{blog: blog, renderer: renderer}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, fallback int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// ListPosts handles GET /api/posts?limit&offset
func (c *APIController) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := c.blog.ListPosts(r.Context(), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, page)
}

// GetPost handles GET /api/posts/{id}
func (c *APIController) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := c.blog.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// createPostRequest is PostDraft plus the tag ids, which the draft keeps out of JSON.
type createPostRequest struct {
	models.PostDraft
	TagIDs []string `json:"tag_ids"`
}

// CreatePost handles POST /api/posts
func (c *APIController) CreatePost(w http.ResponseWriter, r *http.Request) {
	// published defaults to true when the body omits it
	req := createPostRequest{PostDraft: models.PostDraft{Published: true}}
	if !decodeJSON(w, r, &req) {
		return
	}
	draft := req.PostDraft
	draft.TagIDs = req.TagIDs
	post, err := c.blog.CreatePost(r.Context(), &draft)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/api/posts/"+post.ID)
	sendJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PATCH /api/posts/{id}
func (c *APIController) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var patch models.PostPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	post, err := c.blog.UpdatePost(r.Context(), mux.Vars(r)["id"], &patch)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/{id}
func (c *APIController) DeletePost(w http.ResponseWriter, r *http.Request) {
	if _, err := c.blog.DeletePost(r.Context(), mux.Vars(r)["id"]); err != nil {
		sendServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListComments handles GET /api/posts/{id}/comments
func (c *APIController) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := c.blog.ListComments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /api/posts/{id}/comments
func (c *APIController) AddComment(w http.ResponseWriter, r *http.Request) {
	var draft models.CommentDraft
	if !decodeJSON(w, r, &draft) {
		return
	}
	draft.PostID = mux.Vars(r)["id"]
	comment, err := c.blog.AddComment(r.Context(), &draft)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, comment)
}

// ListTags handles GET /api/tags
func (c *APIController) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.blog.ListTags(r.Context())
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, tags)
}

// ListTagPosts handles GET /api/tags/{slug}/posts
func (c *APIController) ListTagPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := c.blog.ListPostsByTag(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		sendServiceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

type markdownRequest struct {
	Content string `json:"content"`
}

// Preview handles POST /api/preview. The html field is sanitized.
func (c *APIController) Preview(w http.ResponseWriter, r *http.Request) {
	var req markdownRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"html": c.renderer.SafePreview(req.Content)})
}

// Excerpt handles POST /api/excerpt
func (c *APIController) Excerpt(w http.ResponseWriter, r *http.Request) {
	var req markdownRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"excerpt": markdown.Excerpt(req.Content)})
}
