package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrainKeepsOrder(t *testing.T) {
	q := NewQueue()
	q.Push(DisableActions{})
	q.Log("door opening")
	q.Push(HideStorage{})

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []Event{DisableActions{}, LogMessage{Text: "door opening"}, HideStorage{}}, q.Drain())
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestPushDuringDrainGoesToNextFrame(t *testing.T) {
	q := NewQueue()
	q.Push(DisableActions{})

	for range q.Drain() {
		q.Push(HideStorage{})
	}
	assert.Equal(t, []Event{HideStorage{}}, q.Drain())
}
