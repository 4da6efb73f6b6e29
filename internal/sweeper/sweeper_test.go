package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCloser struct {
	swept  chan time.Time
	closed int64
	err    error
}

func (f *fakeCloser) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	select {
	case f.swept <- now:
	default:
	}
	return f.closed, f.err
}

func TestStart_RunsImmediateSweep(t *testing.T) {
	f := &fakeCloser{swept: make(chan time.Time, 1), closed: 3}
	s := New(f, 1)
	defer s.Stop()

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case now := <-f.swept:
		if time.Since(now) > time.Minute {
			t.Errorf("sweep time %v is stale", now)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no sweep ran after Start")
	}
}

func TestRunSweep_ErrorDoesNotPanic(t *testing.T) {
	f := &fakeCloser{swept: make(chan time.Time, 1), err: errors.New("db down")}
	s := New(f, 1)

	s.runSweep(context.Background())

	select {
	case <-f.swept:
	default:
		t.Fatal("CloseExpired was not called")
	}
}
