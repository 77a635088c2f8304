package lifecycle

import "errors"

// Status represents all possible states of a delivery order
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusReady     Status = "ready"
	StatusPickedUp  Status = "picked_up"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Actor identifies who is requesting a transition
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorRider    Actor = "rider"
	ActorAdmin    Actor = "admin"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  Status
	To    Status
	Actor Actor
}

// validTransitions is the authoritative state machine definition.
// Forward-only: there are no backward edges, and the terminal states
// delivered/cancelled have no outgoing edges at all.
var validTransitions = []Transition{
	// Rider claims a pending order; admin can also assign
	{From: StatusPending, To: StatusAssigned, Actor: ActorRider},
	{From: StatusPending, To: StatusAssigned, Actor: ActorAdmin},
	// Restaurant (admin surface) marks the order prepared
	{From: StatusAssigned, To: StatusReady, Actor: ActorAdmin},
	// Rider picks up and delivers
	{From: StatusReady, To: StatusPickedUp, Actor: ActorRider},
	{From: StatusReady, To: StatusPickedUp, Actor: ActorAdmin},
	{From: StatusPickedUp, To: StatusDelivered, Actor: ActorRider},
	{From: StatusPickedUp, To: StatusDelivered, Actor: ActorAdmin},
	// Cancellation is reachable from every non-terminal state
	{From: StatusPending, To: StatusCancelled, Actor: ActorCustomer},
	{From: StatusAssigned, To: StatusCancelled, Actor: ActorCustomer},
	{From: StatusPending, To: StatusCancelled, Actor: ActorAdmin},
	{From: StatusAssigned, To: StatusCancelled, Actor: ActorAdmin},
	{From: StatusReady, To: StatusCancelled, Actor: ActorAdmin},
	{From: StatusPickedUp, To: StatusCancelled, Actor: ActorAdmin},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  Status
	To    Status
	Actor Actor
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// Valid reports whether s is a known order status.
func Valid(s Status) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusReady, StatusPickedUp, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func Terminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// NextFor returns the states an actor may move an order to from the given
// state. Terminal states return nil, which is what keeps transition
// actions off the screen for delivered and cancelled orders.
func NextFor(actor Actor, status Status) []Status {
	var nexts []Status
	seen := map[Status]bool{}
	for _, t := range validTransitions {
		if t.From == status && t.Actor == actor && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to Status, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + string(actor) + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from, actor),
	)
}

func describeValidFrom(status Status, actor Actor) string {
	nexts := NextFor(actor, status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// Label returns the customer-facing description of a status, matching the
// tracking screen wording.
func Label(s Status) string {
	switch s {
	case StatusPending:
		return "Order Placed (Waiting for Confirmation)"
	case StatusAssigned:
		return "Rider Assigned"
	case StatusReady:
		return "Preparing / Ready for Pickup"
	case StatusPickedUp:
		return "Out for Delivery"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// AllTransitions returns the full state machine for documentation
func AllTransitions() []Transition {
	return validTransitions
}
