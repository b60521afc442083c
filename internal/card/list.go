package card

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

// LoadViews resolves a card per item concurrently and returns their views in
// item order. Cards still loading when ctx ends render as spinners.
func LoadViews(ctx context.Context, items []domain.SavedItem, deps Deps) []View {
	views := make([]View, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		i, item := i, item
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := New(item, deps)
			defer c.Close()
			_ = c.Load(ctx)
			_ = c.Wait(ctx)
			views[i] = c.View()
		}()
	}
	wg.Wait()
	return views
}
