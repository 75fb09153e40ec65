package mutation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingNotifier captures toasts for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func TestRunSuccessNotifiesAndReconciles(t *testing.T) {
	notifier := &recordingNotifier{}
	reconciled := false
	m := New("update-user", notifier,
		func(ctx context.Context, in string) (string, error) { return in + "-saved", nil },
		func(ctx context.Context, out string) error { reconciled = true; return nil },
		"User account was successfully updated",
	)

	out, err := m.Run(context.Background(), "profile")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "profile-saved" {
		t.Errorf("out = %q", out)
	}
	if !reconciled {
		t.Error("reconcile step must run on success")
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "User account was successfully updated" {
		t.Errorf("successes = %v", notifier.successes)
	}
	if len(notifier.errors) != 0 {
		t.Errorf("no error toast expected, got %v", notifier.errors)
	}
}

func TestRunFailureSkipsCacheAndCarriesMessageVerbatim(t *testing.T) {
	notifier := &recordingNotifier{}
	reconciled := false
	remoteErr := errors.New("duplicate entry 'guest@x.io' for key 'guests.email'")
	m := New("add-booking", notifier,
		func(ctx context.Context, in int) (int, error) { return 0, remoteErr },
		func(ctx context.Context, out int) error { reconciled = true; return nil },
		"Booking Successfully Created!",
	)

	if _, err := m.Run(context.Background(), 1); !errors.Is(err, remoteErr) {
		t.Fatalf("expected remote error back, got %v", err)
	}
	if reconciled {
		t.Error("no cache mutation may occur on failure")
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != remoteErr.Error() {
		t.Errorf("error toast must carry the remote message verbatim: %v", notifier.errors)
	}
	if len(notifier.successes) != 0 {
		t.Errorf("no success toast expected, got %v", notifier.successes)
	}
}

func TestRunRejectsConcurrentSubmission(t *testing.T) {
	notifier := &recordingNotifier{}
	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once
	m := New("slow", notifier,
		func(ctx context.Context, in int) (int, error) {
			startedOnce.Do(func() { close(started) })
			<-release
			return in, nil
		},
		nil, "done",
	)

	done := make(chan error, 1)
	go func() {
		_, err := m.Run(context.Background(), 1)
		done <- err
	}()
	<-started

	if !m.Busy() {
		t.Error("Busy must report true while a run is outstanding")
	}
	if _, err := m.Run(context.Background(), 2); !errors.Is(err, ErrInFlight) {
		t.Errorf("second submission should fail fast with ErrInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
	if m.Busy() {
		t.Error("Busy must reset after the run finishes")
	}

	// The flag is per logical operation, not global: a new run works.
	if _, err := m.Run(context.Background(), 3); err != nil {
		t.Errorf("run after release: %v", err)
	}
}

func TestRunReconcileFailureDoesNotFailTheWrite(t *testing.T) {
	notifier := &recordingNotifier{}
	m := New("update-settings", notifier,
		func(ctx context.Context, in int) (int, error) { return in, nil },
		func(ctx context.Context, out int) error { return errors.New("redis down") },
		"Settings updated",
	)

	if _, err := m.Run(context.Background(), 9); err != nil {
		t.Fatalf("reconcile failure must not fail the run: %v", err)
	}
	if len(notifier.successes) != 1 {
		t.Errorf("success toast still expected, got %v", notifier.successes)
	}
}

func TestBusyFlagSettlesQuickly(t *testing.T) {
	m := New("noop", &recordingNotifier{},
		func(ctx context.Context, in int) (int, error) { return in, nil },
		nil, "",
	)
	if _, err := m.Run(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for m.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("busy flag stuck")
		}
	}
}
