package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

type recordingJob struct {
	name string
	runs int
	err  error
}

func (j *recordingJob) Name() string { return j.name }

func (j *recordingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

type fakeLock struct {
	granted  bool
	acquires int
	releases int
}

func (l *fakeLock) Acquire(context.Context) (bool, error) {
	l.acquires++
	return l.granted, nil
}

func (l *fakeLock) Release(context.Context) error {
	l.releases++
	return nil
}

func newTestRunner(t *testing.T, registry *Registry, lock Lock) *Runner {
	t.Helper()
	runner, err := NewRunner(RunnerParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Registry: registry,
		Lock:     lock,
		Interval: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner
}

func TestRunnerRunsRegisteredJobsInOrder(t *testing.T) {
	t.Parallel()

	first := &recordingJob{name: "first"}
	second := &recordingJob{name: "second"}
	lock := &fakeLock{granted: true}
	runner := newTestRunner(t, NewRegistry(first, second), lock)

	if err := runner.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if first.runs != 1 || second.runs != 1 {
		t.Fatalf("runs = %d/%d, want 1/1", first.runs, second.runs)
	}
	if lock.releases != 1 {
		t.Fatal("lock not released")
	}
}

func TestRunnerSkipsCycleWithoutLock(t *testing.T) {
	t.Parallel()

	job := &recordingJob{name: "job"}
	runner := newTestRunner(t, NewRegistry(job), &fakeLock{granted: false})

	if err := runner.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatal("job ran without the lock")
	}
}

func TestRunnerContinuesAfterJobFailure(t *testing.T) {
	t.Parallel()

	failing := &recordingJob{name: "failing", err: errors.New("boom")}
	trailing := &recordingJob{name: "trailing"}
	runner := newTestRunner(t, NewRegistry(failing, trailing), &fakeLock{granted: true})

	if err := runner.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if trailing.runs != 1 {
		t.Fatal("job after a failure did not run")
	}
}

func TestRegistrySkipsNilJobs(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, &recordingJob{name: "only"})
	registry.Register(nil)
	if got := len(registry.Jobs()); got != 1 {
		t.Fatalf("registry holds %d jobs, want 1", got)
	}
}
