package views

import (
	"context"
	"sync"

	"inkpot/app/loader"
	"inkpot/app/models"
)

// HomeView lists published posts newest first with "load more" paging.
type HomeView struct {
	loader *loader.Loader[models.Post]

	mu     sync.Mutex
	status Status
	notice string
}

// HomeState is a snapshot for rendering.
type HomeState struct {
	Status    Status
	Posts     []models.Post
	HasMore   bool
	IsLoading bool
	Notice    string
}

func NewHomeView(blog Blog, pageSize int) *HomeView {
	return &HomeView{loader: loader.New[models.Post](blog.ListPosts, pageSize)}
}

// Activate resets the list and loads the first page.
func (v *HomeView) Activate(ctx context.Context) error {
	v.mu.Lock()
	v.loader.Reset()
	v.status = Loading
	v.notice = ""
	v.mu.Unlock()

	out, err := v.loader.LoadNext(ctx)
	v.settle(out, err)
	return err
}

// LoadMore appends the next page. A failure keeps the loaded posts and sets a notice.
func (v *HomeView) LoadMore(ctx context.Context) (loader.Outcome, error) {
	out, err := v.loader.LoadNext(ctx)
	v.settle(out, err)
	return out, err
}

func (v *HomeView) settle(out loader.Outcome, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch out {
	case loader.Merged, loader.Exhausted:
		v.status = Loaded
		v.notice = ""
	case loader.Failed:
		if v.status != Loaded {
			v.status = Failed
		}
		v.notice = RetryNotice
	}
}

func (v *HomeView) Snapshot() HomeState {
	s := v.loader.Snapshot()
	v.mu.Lock()
	defer v.mu.Unlock()
	return HomeState{
		Status:    v.status,
		Posts:     s.Items,
		HasMore:   s.HasMore,
		IsLoading: s.IsLoading,
		Notice:    v.notice,
	}
}
