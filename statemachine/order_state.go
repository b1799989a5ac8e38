package statemachine

import (
	"errors"

	"food-ordering-api/models"
)

// Actor identifies who is requesting a transition.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
	ActorSystem   Actor = "system" // payment verification
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Admin drives the order forward, one step at a time
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorAdmin},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: ActorAdmin},
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: ActorAdmin},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorAdmin},
	// Cancellation window closes once preparation starts
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorAdmin},
	// Payment verification confirms; a definitive gateway failure dead-ends
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorSystem},
	{From: models.StatusPending, To: models.StatusPaymentFailed, Actor: ActorSystem},
	{From: models.StatusPending, To: models.StatusPaymentFailed, Actor: ActorAdmin},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
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

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves the given state.
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + string(actor) + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
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

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
