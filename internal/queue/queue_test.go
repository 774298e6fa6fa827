package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func mustJob(t *testing.T, submitter string) Job {
	t.Helper()
	job, err := NewTextJob(submitter, "title", "some text")
	if err != nil {
		t.Fatalf("NewTextJob() error = %v", err)
	}
	return job
}

func TestSubmitPositions(t *testing.T) {
	q := New(3)

	for i := 0; i < 3; i++ {
		pos, err := q.Submit(mustJob(t, fmt.Sprintf("s%d", i)))
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if pos != i {
			t.Errorf("Submit() position = %d, want %d", pos, i)
		}
	}

	_, err := q.Submit(mustJob(t, "s3"))
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("Submit() on full queue error = %v, want ErrQueueFull", err)
	}
	if got := q.Stats(); got != (Stats{Queued: 3, Capacity: 3}) {
		t.Errorf("Stats() = %+v", got)
	}
}

func TestSubmitDuplicateSubmitter(t *testing.T) {
	q := New(5)
	ctx := context.Background()

	if _, err := q.Submit(mustJob(t, "alice")); err != nil {
		t.Fatal(err)
	}
	if _, err := q.Submit(mustJob(t, "alice")); !errors.Is(err, ErrDuplicateSubmitter) {
		t.Errorf("second queued Submit() error = %v, want ErrDuplicateSubmitter", err)
	}

	job, err := q.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := q.Submit(mustJob(t, "alice")); !errors.Is(err, ErrDuplicateSubmitter) {
		t.Errorf("Submit() while in flight error = %v, want ErrDuplicateSubmitter", err)
	}
	if got := q.Stats().InFlight; got != 1 {
		t.Errorf("InFlight = %d, want 1", got)
	}

	q.Done(job)
	if _, err := q.Submit(mustJob(t, "alice")); err != nil {
		t.Errorf("Submit() after Done error = %v, want nil", err)
	}
	if got := q.Stats().InFlight; got != 0 {
		t.Errorf("InFlight = %d, want 0", got)
	}
}

func TestSubmitFullNeverBlocks(t *testing.T) {
	q := New(1)
	if _, err := q.Submit(mustJob(t, "a")); err != nil {
		t.Fatal(err)
	}

	job := mustJob(t, "b")
	done := make(chan error, 1)
	go func() {
		_, err := q.Submit(job)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrQueueFull) {
			t.Errorf("Submit() error = %v, want ErrQueueFull", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Submit() blocked on a full queue")
	}
}

func TestConcurrentSameSubmitter(t *testing.T) {
	q := New(100)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		dups     int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job, _ := NewTextJob("same", "t", "text")
			_, err := q.Submit(job)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, ErrDuplicateSubmitter):
				dups++
			default:
				t.Errorf("Submit() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted != 1 || dups != 49 {
		t.Errorf("accepted = %d, duplicates = %d, want 1 and 49", accepted, dups)
	}
}

func TestConcurrentDistinctSubmitters(t *testing.T) {
	q := New(10)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		positions = make(map[int]bool)
		full      int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			job, _ := NewTextJob(fmt.Sprintf("s%d", i), "t", "text")
			pos, err := q.Submit(job)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				if positions[pos] {
					t.Errorf("position %d handed out twice", pos)
				}
				positions[pos] = true
			case errors.Is(err, ErrQueueFull):
				full++
			default:
				t.Errorf("Submit() unexpected error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if len(positions) != 10 || full != 30 {
		t.Errorf("accepted = %d, full = %d, want 10 and 30", len(positions), full)
	}
}

func TestNextFIFO(t *testing.T) {
	q := New(5)
	ctx := context.Background()

	var want []string
	for i := 0; i < 5; i++ {
		job := mustJob(t, fmt.Sprintf("s%d", i))
		want = append(want, job.ID.String())
		if _, err := q.Submit(job); err != nil {
			t.Fatal(err)
		}
	}

	for i, id := range want {
		job, err := q.Next(ctx)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if job.ID.String() != id {
			t.Errorf("Next() #%d = %s, want %s", i, job.ID, id)
		}
		q.Done(job)
	}
}

func TestNextCancelled(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestClose(t *testing.T) {
	q := New(2)
	ctx := context.Background()

	if _, err := q.Submit(mustJob(t, "a")); err != nil {
		t.Fatal(err)
	}
	q.Close()
	q.Close()

	if _, err := q.Submit(mustJob(t, "b")); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit() after Close error = %v, want ErrClosed", err)
	}
	if job, err := q.Next(ctx); err != nil || job.SubmitterID != "a" {
		t.Errorf("Next() = %v, %v, want the queued job", job.SubmitterID, err)
	}
	if _, err := q.Next(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Next() on drained queue error = %v, want ErrClosed", err)
	}
}

func TestNewJobs(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (Job, error)
		wantErr bool
	}{
		{"text", func() (Job, error) { return NewTextJob("a", "t", "text") }, false},
		{"empty text", func() (Job, error) { return NewTextJob("a", "t", "  ") }, true},
		{"no submitter", func() (Job, error) { return NewTextJob("", "t", "text") }, true},
		{"source", func() (Job, error) { return NewSourceJob("a", "t", " https://x ") }, false},
		{"empty source", func() (Job, error) { return NewSourceJob("a", "t", "") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := tt.build()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidJob) {
					t.Errorf("error = %v, want ErrInvalidJob", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if job.SubmittedAt.IsZero() || job.ID.String() == "" {
				t.Errorf("job not stamped: %+v", job)
			}
		})
	}

	job, _ := NewSourceJob("a", "", " https://x ")
	if !job.IsSource() || job.SourceURL != "https://x" || job.Title != "https://x" {
		t.Errorf("NewSourceJob() = %+v", job)
	}
}

func TestIsAdmissionRejected(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrQueueFull, true},
		{fmt.Errorf("submit: %w", ErrDuplicateSubmitter), true},
		{ErrClosed, true},
		{ErrInvalidJob, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsAdmissionRejected(tt.err); got != tt.want {
			t.Errorf("IsAdmissionRejected(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
