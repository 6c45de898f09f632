package routes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkpot/app/controllers"
	"inkpot/app/models"
	"inkpot/app/repositories"
	"inkpot/app/services"
	"inkpot/app/sessions"

	"github.com/stretchr/testify/require"
)

type testApp struct {
	handler http.Handler
	store   *repositories.Store
	blog    *services.BlogService
	posts   []*models.Post
	cookie  *http.Cookie
}

func newTestApp(t *testing.T, published int) *testApp {
	t.Helper()
	store, err := repositories.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	blog := services.NewBlogService(store.Posts(), store.Comments(), store.Tags()).WithLogger(log)
	app := &testApp{store: store, blog: blog}

	ctx := context.Background()
	goTag, err := store.Tags().Create(ctx, "Go", "go")
	require.NoError(t, err)
	base := time.Now().Add(-time.Duration(published) * time.Hour)
	for i := 0; i < published; i++ {
		post, err := store.Posts().Create(ctx, &models.PostDraft{
			Title:     fmt.Sprintf("Post number %d", i),
			Content:   fmt.Sprintf("# Heading %d\n\nSome **strong** words.", i),
			Excerpt:   fmt.Sprintf("Excerpt %d", i),
			Published: true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			TagIDs:    []string{goTag.ID},
		})
		require.NoError(t, err)
		app.posts = append(app.posts, post)
	}

	app.handler, err = SetupRoutes(Deps{
		Blog:           blog,
		Sessions:       sessions.NewStore("test-secret", 100, time.Minute, controllers.NewVisitorFunc(blog, 6)),
		Logger:         log,
		AllowedOrigins: []string{"https://allowed.example"},
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return app
}

// do sends a request, carrying and refreshing the session cookie.
func (a *testApp) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == sessions.CookieName {
			a.cookie = c
		}
	}
	return w
}

func (a *testApp) get(target string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, target, nil, "")
}

func (a *testApp) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, target, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (a *testApp) postJSON(method, target, body string) *httptest.ResponseRecorder {
	return a.do(method, target, strings.NewReader(body), "application/json")
}
