package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(log *[]string, name string) Task {
	return TaskFunc(func(time.Duration) { *log = append(*log, name) })
}

func TestDeadlineOrderWithFIFOTies(t *testing.T) {
	s := New()
	var fired []string
	s.RunAt(record(&fired, "a@5"), 5*time.Second)
	s.RunAt(record(&fired, "b@5"), 5*time.Second)
	s.RunAt(record(&fired, "c@3"), 3*time.Second)

	n, err := s.Update(6 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"c@3", "a@5", "b@5"}, fired)
	assert.Zero(t, s.Len())
}

func TestNotDueStaysQueued(t *testing.T) {
	s := New()
	var fired []string
	s.RunAt(record(&fired, "late"), 10*time.Second)

	n, err := s.Update(9 * time.Second)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, fired)
	assert.Equal(t, 1, s.Len())

	_, err = s.Update(10 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"late"}, fired)
}

func TestRescheduleWaitsForNextPoll(t *testing.T) {
	s := New()
	runs := 0
	var task Task
	task = TaskFunc(func(now time.Duration) {
		runs++
		// already due, but must not fire in this poll
		s.RunAt(task, now)
	})
	s.RunAfter(task, time.Second)

	_, err := s.Update(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, s.Len())

	_, err = s.Update(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
}

func TestRunAfterIsRelativeToLastUpdate(t *testing.T) {
	s := New()
	_, err := s.Update(4 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, s.Now())

	s.RunAfter(TaskFunc(func(time.Duration) {}), 500*time.Millisecond)
	pending := s.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 4500*time.Millisecond, pending[0].Deadline)
}

func TestUpdateFromTaskIsRejected(t *testing.T) {
	s := New()
	var inner error
	s.RunAt(TaskFunc(func(now time.Duration) {
		_, inner = s.Update(now)
	}), 0)

	_, err := s.Update(time.Second)
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrReentrant)
}

func TestPendingOrder(t *testing.T) {
	s := New()
	noop := TaskFunc(func(time.Duration) {})
	s.RunAt(noop, 3*time.Second)
	s.RunAt(noop, time.Second)
	s.RunAt(noop, 2*time.Second)
	s.RunAt(noop, time.Second)

	var got []time.Duration
	var seqs []uint64
	for _, e := range s.Pending() {
		got = append(got, e.Deadline)
		seqs = append(seqs, e.Seq)
	}
	assert.Equal(t, []time.Duration{time.Second, time.Second, 2 * time.Second, 3 * time.Second}, got)
	assert.Equal(t, []uint64{2, 4, 3, 1}, seqs)
	assert.Equal(t, 4, s.Len())
}
