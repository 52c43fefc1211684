package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcavalcanti/radar/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	runs     atomic.Int32
	fail     bool
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }
func (j *countingJob) Run(_ context.Context) error {
	j.runs.Add(1)
	if j.fail {
		return assert.AnError
	}
	return nil
}

func TestAddJob_RejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())

	job := &countingJob{name: "nightly", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))

	err := s.AddJob(&countingJob{name: "nightly", schedule: "@daily"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddJob_RejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())

	err := s.AddJob(&countingJob{name: "broken", schedule: "not a cron expr"})
	require.Error(t, err)
}

func TestRunJob_ExecutesImmediately(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := &countingJob{name: "manual", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("manual"))

	assert.Eventually(t, func() bool {
		return job.runs.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	history, err := s.GetJobHistory("manual")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		results := history.GetLatestResults(1)
		return len(results) == 1 && results[0].Success
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunJob_RetriesOnFailure(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := &countingJob{name: "flaky", schedule: "@daily", fail: true}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("flaky"))

	assert.Eventually(t, func() bool {
		// initial attempt plus three retries
		return job.runs.Load() == 4
	}, 2*time.Second, 10*time.Millisecond)

	history, err := s.GetJobHistory("flaky")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		results := history.GetLatestResults(1)
		return len(results) == 1 && !results[0].Success && results[0].Error != ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunJob_UnknownJob(t *testing.T) {
	s := New(logger.NewNop())
	require.Error(t, s.RunJob("missing"))
}

func TestJobHistory_Capped(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: "x", Success: true})
	}
	assert.Len(t, h.Results, 100)
	assert.Len(t, h.GetLatestResults(10), 10)
	assert.Empty(t, h.GetLatestResults(0))
}
