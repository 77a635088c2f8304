package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardPath(t *testing.T) {
	// The happy path walks the full chain without ever stepping back
	steps := []struct {
		from, to Status
		actor    Actor
	}{
		{StatusPending, StatusAssigned, ActorRider},
		{StatusAssigned, StatusReady, ActorAdmin},
		{StatusReady, StatusPickedUp, ActorRider},
		{StatusPickedUp, StatusDelivered, ActorRider},
	}
	for _, s := range steps {
		require.NoError(t, CanTransition(s.from, s.to, s.actor))
	}
}

func TestNoBackwardTransitions(t *testing.T) {
	order := []Status{StatusPending, StatusAssigned, StatusReady, StatusPickedUp, StatusDelivered}
	for _, actor := range []Actor{ActorCustomer, ActorRider, ActorAdmin} {
		for i, from := range order {
			for _, to := range order[:i] {
				assert.Error(t, CanTransition(from, to, actor),
					"%s → %s should be rejected for %s", from, to, actor)
			}
		}
	}
}

func TestCancelReachableFromNonTerminal(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusAssigned, StatusReady, StatusPickedUp} {
		assert.NoError(t, CanTransition(from, StatusCancelled, ActorAdmin), "admin cancel from %s", from)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []Status{StatusDelivered, StatusCancelled} {
		assert.True(t, Terminal(from))
		for _, actor := range []Actor{ActorCustomer, ActorRider, ActorAdmin} {
			assert.Empty(t, NextFor(actor, from), "%s should offer no actions from %s", actor, from)
		}
	}
}

func TestCustomerCanOnlyCancelEarly(t *testing.T) {
	assert.NoError(t, CanTransition(StatusPending, StatusCancelled, ActorCustomer))
	assert.NoError(t, CanTransition(StatusAssigned, StatusCancelled, ActorCustomer))
	assert.Error(t, CanTransition(StatusPickedUp, StatusCancelled, ActorCustomer))
	assert.Error(t, CanTransition(StatusPending, StatusAssigned, ActorCustomer))
}

func TestNextForRider(t *testing.T) {
	assert.Equal(t, []Status{StatusAssigned}, NextFor(ActorRider, StatusPending))
	assert.Equal(t, []Status{StatusPickedUp}, NextFor(ActorRider, StatusReady))
	assert.Equal(t, []Status{StatusDelivered}, NextFor(ActorRider, StatusPickedUp))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(StatusPending))
	assert.True(t, Valid(StatusCancelled))
	assert.False(t, Valid(Status("shipped")))
	assert.False(t, Valid(Status("")))
}

func TestLabelFallsBackToRawStatus(t *testing.T) {
	assert.Equal(t, "Out for Delivery", Label(StatusPickedUp))
	assert.Equal(t, "weird", Label(Status("weird")))
}
