package controllers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"inkpot/app/middleware"
	"inkpot/app/models"
	"inkpot/app/services"
	"inkpot/app/views"
)

// PageController renders the HTML pages from the visitor's view state.
type PageController struct {
	templates map[string]*template.Template
	log       *slog.Logger
}

// NewPageController creates a new PageController
func NewPageController(templates map[string]*template.Template, log *slog.Logger) *PageController {
	return &PageController{templates: templates, log: log}
}

func (pc *PageController) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := pc.templates[page]
	if !ok {
		http.Error(w, "Template error: unknown page "+page, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		pc.log.Error("render page", "page", page, "err", err)
	}
}

func (pc *PageController) notFound(w http.ResponseWriter, message string) {
	pc.render(w, http.StatusNotFound, "notfound", message)
}

func (pc *PageController) visitor(w http.ResponseWriter, r *http.Request) (*Visitor, bool) {
	v, ok := middleware.SessionFrom[*Visitor](r.Context())
	if !ok {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return v, true
}

// failStatus is the HTTP status of a page whose collaborator call failed.
func failStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return http.StatusBadGateway
}

// Home handles GET /
func (pc *PageController) Home(w http.ResponseWriter, r *http.Request) {
	v, ok := pc.visitor(w, r)
	if !ok {
		return
	}
	err := v.Home.Activate(r.Context())
	pc.render(w, failStatus(err), "home", v.Home.Snapshot())
}

// More handles POST /more
func (pc *PageController) More(w http.ResponseWriter, r *http.Request) {
	v, ok := pc.visitor(w, r)
	if !ok {
		return
	}
	if v.Home.Snapshot().Status == views.Idle {
		if err := v.Home.Activate(r.Context()); err != nil {
			pc.render(w, failStatus(err), "home", v.Home.Snapshot())
			return
		}
	}
	_, err := v.Home.LoadMore(r.Context())
	pc.render(w, failStatus(err), "home", v.Home.Snapshot())
}

type postPage struct {
	views.PostState
	Draft string
	Error string
}

// ShowPost handles GET /posts/{id}
func (pc *PageController) ShowPost(w http.ResponseWriter, r *http.Request) {
	v, ok := pc.visitor(w, r)
	if !ok {
		return
	}
	err := v.Post.Activate(r.Context(), mux.Vars(r)["id"])
	pc.renderPost(w, v.Post.Snapshot(), err, "", "")
}

func (pc *PageController) renderPost(w http.ResponseWriter, s views.PostState, err error, draft, msg string) {
	switch s.Status {
	case views.NotFound:
		pc.notFound(w, "This post does not exist.")
	case views.Failed:
		pc.render(w, http.StatusBadGateway, "error", s.Notice)
	default:
		status := failStatus(err)
		if msg != "" {
			status = http.StatusUnprocessableEntity
		}
		pc.render(w, status, "post", postPage{PostState: s, Draft: draft, Error: msg})
	}
}

// AddComment handles POST /posts/{id}/comments
func (pc *PageController) AddComment(w http.ResponseWriter, r *http.Request) {
	v, ok := pc.visitor(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	s := v.Post.Snapshot()
	if s.Post == nil || s.Post.ID != id {
		if err := v.Post.Activate(r.Context(), id); err != nil || v.Post.Snapshot().Status != views.Loaded {
			pc.renderPost(w, v.Post.Snapshot(), err, "", "")
			return
		}
	}

	text := r.FormValue("content")
	_, err := v.Post.SubmitComment(r.Context(), text)
	var fields models.ValidationErrors
	switch {
	case err == nil:
		http.Redirect(w, r, "/posts/"+id+"#comments", http.StatusSeeOther)
	case errors.As(err, &fields):
		pc.renderPost(w, v.Post.Snapshot(), nil, text, fields.Error())
	case errors.Is(err, views.ErrBusy):
		pc.renderPost(w, v.Post.Snapshot(), nil, text, err.Error())
	default:
		pc.renderPost(w, v.Post.Snapshot(), err, text, "")
	}
}

// Compose handles GET /posts/new
func (pc *PageController) Compose(w http.ResponseWriter, r *http.Request) {
	v, ok := pc.visitor(w, r)
	if !ok {
		return
	}
	pc.render(w, http.StatusOK, "compose", v.Compose.Snapshot())
}

// Submit handles POST /posts/new. action=preview toggles the preview.
func (pc *PageController) Submit(w http.ResponseWriter, r *http.Request) {
	v, ok := pc.visitor(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	v.Compose.SetForm(views.ComposeForm{
		Title:      r.PostFormValue("title"),
		Excerpt:    r.PostFormValue("excerpt"),
		Content:    r.PostFormValue("content"),
		CoverImage: r.PostFormValue("cover_image"),
		Published:  r.PostFormValue("published") == "true",
	})

	if r.PostFormValue("action") == "preview" {
		v.Compose.TogglePreview()
		pc.render(w, http.StatusOK, "compose", v.Compose.Snapshot())
		return
	}

	id, err := v.Compose.Submit(r.Context())
	switch {
	case err == nil:
		http.Redirect(w, r, "/posts/"+id, http.StatusSeeOther)
	case services.IsValidation(err):
		pc.render(w, http.StatusUnprocessableEntity, "compose", v.Compose.Snapshot())
	case errors.Is(err, views.ErrBusy):
		pc.render(w, http.StatusConflict, "compose", v.Compose.Snapshot())
	default:
		pc.render(w, http.StatusBadGateway, "compose", v.Compose.Snapshot())
	}
}

// Tags handles GET /tags
func (pc *PageController) Tags(w http.ResponseWriter, r *http.Request) {
	v, ok := pc.visitor(w, r)
	if !ok {
		return
	}
	err := v.Tags.Activate(r.Context())
	pc.render(w, failStatus(err), "tags", v.Tags.Snapshot())
}

// Tag handles GET /tags/{slug}
func (pc *PageController) Tag(w http.ResponseWriter, r *http.Request) {
	v, ok := pc.visitor(w, r)
	if !ok {
		return
	}
	err := v.Tag.Activate(r.Context(), mux.Vars(r)["slug"])
	pc.renderTag(w, v.Tag.Snapshot(), err)
}

// TagMore handles POST /tags/{slug}/more
func (pc *PageController) TagMore(w http.ResponseWriter, r *http.Request) {
	v, ok := pc.visitor(w, r)
	if !ok {
		return
	}
	slug := mux.Vars(r)["slug"]
	s := v.Tag.Snapshot()
	if s.Tag == nil || s.Tag.Slug != slug || s.Status != views.Loaded {
		err := v.Tag.Activate(r.Context(), slug)
		pc.renderTag(w, v.Tag.Snapshot(), err)
		return
	}
	_, err := v.Tag.LoadMore(r.Context())
	pc.renderTag(w, v.Tag.Snapshot(), err)
}

func (pc *PageController) renderTag(w http.ResponseWriter, s views.TagState, err error) {
	if s.Status == views.NotFound {
		pc.notFound(w, "This tag does not exist.")
		return
	}
	pc.render(w, failStatus(err), "tag", s)
}

// Health handles GET /healthz
func Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
