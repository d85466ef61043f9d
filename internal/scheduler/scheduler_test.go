package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	released []string
	err      error
}

func (f *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	if f.held[key] {
		return nil, false, nil
	}
	f.held[key] = true
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.held, key)
		f.released = append(f.released, key)
	}, true, nil
}

func TestCronExpr(t *testing.T) {
	assert.Equal(t, "@every 30m0s", CronExpr(30*time.Minute))
	assert.Equal(t, "@every 24h0m0s", CronExpr(24*time.Hour))
}

func TestAdd_Validation(t *testing.T) {
	s := New(Options{})
	ctx := context.Background()
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add(ctx, Job{Name: "import", Interval: time.Minute, Run: noop}))
	assert.Error(t, s.Add(ctx, Job{Name: "import", Interval: time.Minute, Run: noop}), "duplicate name")
	assert.Error(t, s.Add(ctx, Job{Name: "", Interval: time.Minute, Run: noop}))
	assert.Error(t, s.Add(ctx, Job{Name: "archive", Interval: 0, Run: noop}))
	assert.Error(t, s.Add(ctx, Job{Name: "cleanup", Interval: time.Minute}))
}

func TestRunNow_NoOverlap(t *testing.T) {
	s := New(Options{})
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	runs := 0
	require.NoError(t, s.Add(ctx, Job{Name: "import", Interval: time.Hour, Run: func(context.Context) error {
		runs++
		close(started)
		<-release
		return nil
	}}))

	done := make(chan Outcome)
	go func() {
		out, _ := s.RunNow(ctx, "import")
		done <- out
	}()
	<-started

	out, err := s.RunNow(ctx, "import")
	require.NoError(t, err)
	assert.Equal(t, SkippedRunning, out)

	close(release)
	assert.Equal(t, Ran, <-done)
	assert.Equal(t, 1, runs)

	status := s.Status()
	require.Len(t, status, 1)
	assert.Equal(t, 1, status[0].Runs)
	assert.Equal(t, 1, status[0].Skipped)
	assert.False(t, status[0].Running)
}

func TestRunNow_UnknownJob(t *testing.T) {
	s := New(Options{})
	_, err := s.RunNow(context.Background(), "nope")
	assert.ErrorContains(t, err, "unknown job")
}

func TestRunNow_Locker(t *testing.T) {
	locker := &fakeLocker{held: map[string]bool{}}
	s := New(Options{Locker: locker})
	ctx := context.Background()

	runs := 0
	require.NoError(t, s.Add(ctx, Job{Name: "archive", Interval: time.Minute, Run: func(context.Context) error {
		runs++
		return nil
	}}))

	out, err := s.RunNow(ctx, "archive")
	require.NoError(t, err)
	assert.Equal(t, Ran, out)
	assert.Equal(t, []string{"archive"}, locker.released)

	locker.held["archive"] = true
	out, err = s.RunNow(ctx, "archive")
	require.NoError(t, err)
	assert.Equal(t, SkippedLocked, out)
	assert.Equal(t, 1, runs)

	locker.err = errors.New("redis down")
	_, err = s.RunNow(ctx, "archive")
	assert.ErrorContains(t, err, "redis down")
	assert.Equal(t, 1, runs)
}

func TestRunNow_RecordsFailure(t *testing.T) {
	s := New(Options{})
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, Job{Name: "cleanup", Interval: time.Hour, Run: func(context.Context) error {
		return errors.New("database unavailable")
	}}))

	out, err := s.RunNow(ctx, "cleanup")
	assert.Equal(t, Ran, out)
	assert.Error(t, err)

	status := s.Status()
	require.Len(t, status, 1)
	assert.Equal(t, "database unavailable", status[0].LastError)
	assert.NotNil(t, status[0].LastRun)
}

func TestStart_RunOnStart(t *testing.T) {
	s := New(Options{RunOnStart: true})
	ctx := context.Background()

	ran := make(chan string, 2)
	for _, name := range []string{"import", "archive"} {
		name := name
		require.NoError(t, s.Add(ctx, Job{Name: name, Interval: time.Hour, Run: func(context.Context) error {
			ran <- name
			return nil
		}}))
	}

	s.Start(ctx)
	s.Stop()

	close(ran)
	var got []string
	for name := range ran {
		got = append(got, name)
	}
	assert.ElementsMatch(t, []string{"import", "archive"}, got)
}

func TestHealthHandler(t *testing.T) {
	s := New(Options{})
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, Job{Name: "import", Interval: time.Hour, Run: func(context.Context) error {
		return errors.New("vendor down")
	}}))

	server := httptest.NewServer(s.NewMux("vacancy-importer", "emply"))
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "emply", body.Source)
	require.Len(t, body.Jobs, 1)

	_, _ = s.RunNow(ctx, "import")

	resp2, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)

	post, err := http.Post(server.URL+"/health", "application/json", nil)
	require.NoError(t, err)
	defer post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}
