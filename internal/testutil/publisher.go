package testutil

import (
	"context"
	"sync"

	"github.com/sharath018/eventify-backend/internal/activity"
)

// Recorder is an activity.Publisher that keeps everything it is given.
type Recorder struct {
	mu    sync.Mutex
	items []activity.Activity
}

func (r *Recorder) Publish(_ context.Context, a activity.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, a)
	return nil
}

func (r *Recorder) Activities() []activity.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]activity.Activity(nil), r.items...)
}

// OfType filters the recorded activities by type.
func (r *Recorder) OfType(t activity.Type) []activity.Activity {
	var out []activity.Activity
	for _, a := range r.Activities() {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}
