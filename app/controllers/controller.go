package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"inkpot/app/markdown"
	"inkpot/app/models"
	"inkpot/app/services"
	"inkpot/app/templates"
	"inkpot/app/views"
)

// API is the blog service surface the JSON controller needs.
type API interface {
	views.Blog
	UpdatePost(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id string) (bool, error)
	ListPostsByTag(ctx context.Context, slug string) ([]models.Post, error)
}

// Visitor is the view state kept per browser session.
type Visitor struct {
	Home    *views.HomeView
	Post    *views.PostView
	Compose *views.ComposeView
	Tags    *views.TagsView
	Tag     *views.TagView
}

// NewVisitorFunc returns a constructor for fresh visitor state.
func NewVisitorFunc(blog views.Blog, pageSize int) func() *Visitor {
	return func() *Visitor {
		return &Visitor{
			Home:    views.NewHomeView(blog, pageSize),
			Post:    views.NewPostView(blog),
			Compose: views.NewComposeView(blog),
			Tags:    views.NewTagsView(blog),
			Tag:     views.NewTagView(blog, pageSize),
		}
	}
}

// FuncMap returns the template helpers. Markdown output is sanitized before
// it is marked safe.
func FuncMap(r *markdown.Renderer, log *slog.Logger) template.FuncMap {
	return template.FuncMap{
		"ago": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return humanize.Time(t)
		},
		"markdown": func(src string) template.HTML {
			out, err := r.Render(src)
			if err != nil {
				log.Warn("render markdown", "err", err)
				return template.HTML(template.HTMLEscapeString(src))
			}
			return template.HTML(out)
		},
		"preview": func(src string) template.HTML {
			return template.HTML(r.SafePreview(src))
		},
		"more": func(hasMore, isLoading bool, action string) map[string]any {
			return map[string]any{"HasMore": hasMore, "IsLoading": isLoading, "Action": action}
		},
	}
}

// LoadTemplates parses the embedded pages with FuncMap.
func LoadTemplates(r *markdown.Renderer, log *slog.Logger) (map[string]*template.Template, error) {
	return templates.Parse(FuncMap(r, log))
}

// Helper methods for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Error  string                 `json:"error"`
	Fields models.ValidationErrors `json:"fields,omitempty"`
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, errorBody{Error: message})
}

// sendServiceError maps a service error onto the error taxonomy: validation
// is 422 with field messages, a missing record is 404, anything else is a
// retryable upstream failure.
func sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case services.IsValidation(err):
		sendJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: services.FieldErrors(err)})
	case services.IsNotFound(err):
		sendError(w, http.StatusNotFound, "not found")
	case errors.Is(err, context.DeadlineExceeded):
		sendError(w, http.StatusGatewayTimeout, views.RetryNotice)
	default:
		sendError(w, http.StatusBadGateway, views.RetryNotice)
	}
}
