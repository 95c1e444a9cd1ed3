package reactive

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/reactor/internal/errors"
)

// newTestStore returns a store with a silent logger and the list of
// warning codes it reports.
func newTestStore(t *testing.T) (*Store, *[]string) {
	t.Helper()
	var codes []string
	s := NewStore(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithWarningHandler(func(err *errors.ReactorError) {
			codes = append(codes, err.Code)
		}),
	)
	return s, &codes
}

func hasCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

type fakeFlusher struct {
	pre  []func()
	post []func()
}

func (f *fakeFlusher) QueuePreFlush(fn func())  { f.pre = append(f.pre, fn) }
func (f *fakeFlusher) QueuePostFlush(fn func()) { f.post = append(f.post, fn) }

func (f *fakeFlusher) flush() {
	for len(f.pre) > 0 || len(f.post) > 0 {
		pre := f.pre
		f.pre = nil
		for _, fn := range pre {
			fn()
		}
		post := f.post
		f.post = nil
		for _, fn := range post {
			fn()
		}
	}
}
