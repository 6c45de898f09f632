package views

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inkpot/app/markdown"
	"inkpot/app/models"
	"inkpot/app/services"
)

// ComposeForm is the editable state of the post composition form.
type ComposeForm struct {
	Title      string
	Excerpt    string
	Content    string
	CoverImage string
	Published  bool
}

// ComposeView holds the post form, its preview toggle and submission state.
type ComposeView struct {
	blog Blog
	now  func() time.Time

	mu         sync.Mutex
	form       ComposeForm
	preview    bool
	submitting bool
	errors     models.ValidationErrors
	notice     string
}

// ComposeState is a snapshot for rendering.
type ComposeState struct {
	Form       ComposeForm
	Preview    bool
	Submitting bool
	Errors     models.ValidationErrors
	Notice     string
}

// NewComposeView starts with an empty form that publishes on submit.
func NewComposeView(blog Blog) *ComposeView {
	return &ComposeView{blog: blog, now: time.Now, form: newComposeForm()}
}

func newComposeForm() ComposeForm { return ComposeForm{Published: true} }

// SetForm replaces the form fields.
func (v *ComposeView) SetForm(f ComposeForm) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = f
}

// TogglePreview flips between editing and previewing and returns the new mode.
func (v *ComposeView) TogglePreview() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preview = !v.preview
	return v.preview
}

// Preview renders the current content with the preview rule list.
// The result is not sanitized.
func (v *ComposeView) Preview() string {
	v.mu.Lock()
	content := v.form.Content
	v.mu.Unlock()
	return markdown.Preview(content)
}

// Submit validates the form locally, fills the excerpt when it is empty and
// creates an anonymous post. It returns the new post's id. Validation
// failures never reach the blog.
func (v *ComposeView) Submit(ctx context.Context) (string, error) {
	v.mu.Lock()
	if v.submitting {
		v.mu.Unlock()
		return "", ErrBusy
	}
	draft := &models.PostDraft{
		Title:      v.form.Title,
		Excerpt:    v.form.Excerpt,
		Content:    v.form.Content,
		CoverImage: v.form.CoverImage,
		Published:  v.form.Published,
		CreatedAt:  v.now().UTC(),
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		fields, _ := err.(models.ValidationErrors)
		v.errors = fields
		v.mu.Unlock()
		return "", fmt.Errorf("compose: %w: %w", services.ErrValidation, err)
	}
	draft.Excerpt = markdown.ExcerptOrDefault(draft.Excerpt, draft.Content)
	v.errors = nil
	v.notice = ""
	v.submitting = true
	v.mu.Unlock()

	post, err := v.blog.CreatePost(ctx, draft)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitting = false
	if err != nil {
		if fields := services.FieldErrors(err); fields != nil {
			v.errors = fields
		} else {
			v.notice = RetryNotice
		}
		return "", err
	}
	v.form = newComposeForm()
	v.preview = false
	return post.ID, nil
}

func (v *ComposeView) Snapshot() ComposeState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ComposeState{
		Form:       v.form,
		Preview:    v.preview,
		Submitting: v.submitting,
		Errors:     v.errors,
		Notice:     v.notice,
	}
}
