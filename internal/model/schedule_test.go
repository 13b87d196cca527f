package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotValid(t *testing.T) {
	assert.True(t, SlotMorning.Valid())
	assert.True(t, SlotEvening.Valid())
	assert.False(t, Slot("noon").Valid())
	assert.False(t, Slot("").Valid())
}

func TestPrivacyValid(t *testing.T) {
	assert.True(t, PrivacyPublic.Valid())
	assert.True(t, PrivacyUnlisted.Valid())
	assert.True(t, PrivacyPrivate.Valid())
	assert.False(t, Privacy("secret").Valid())
}

func TestStatusTransitions(t *testing.T) {
	// forward edges
	assert.True(t, StatusScheduled.CanTransitionTo(StatusStreaming))
	assert.True(t, StatusScheduled.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusStreaming.CanTransitionTo(StatusStreamed))

	// skipping the streaming phase is not a thing
	assert.False(t, StatusScheduled.CanTransitionTo(StatusStreamed))

	// cancellation is only reachable before dispatch fires
	assert.False(t, StatusStreaming.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusStreamed.CanTransitionTo(StatusCancelled))

	// terminal states stay put
	assert.False(t, StatusCancelled.CanTransitionTo(StatusScheduled))
	assert.False(t, StatusStreamed.CanTransitionTo(StatusStreaming))
}

func TestStatusTransitionIdempotent(t *testing.T) {
	// re-applying the current status always succeeds, so cancelling an
	// already-cancelled schedule is not an error
	for _, s := range []Status{StatusScheduled, StatusStreaming, StatusStreamed, StatusCancelled} {
		assert.True(t, s.CanTransitionTo(s), "expected %s -> %s to be legal", s, s)
	}
}
