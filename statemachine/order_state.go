package statemachine

import (
	"errors"

	"souq-delivery-api/models"
)

// Transition defines a valid forward state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// validTransitions is the advisory state machine definition. The order state
// owner applies any status unconditionally; this table decides which "next
// status" actions each actor is offered, enforced at the HTTP layer.
var validTransitions = []Transition{
	// Vendor moves the order through preparation
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: models.RoleVendor},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: models.RoleVendor},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: models.RoleVendor},
	// Driver takes over from ready through delivery
	{From: models.StatusReady, To: models.StatusPickup, Actor: models.RoleDriver},
	{From: models.StatusPickup, To: models.StatusDelivering, Actor: models.RoleDriver},
	{From: models.StatusDelivering, To: models.StatusDelivered, Actor: models.RoleDriver},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
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
// for the given actor.
func ValidTransitionsFrom(status models.OrderStatus, actor models.UserRole) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status && t.Actor == actor {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move an order from one state to
// another. Cancellation is not part of the forward table; see CanCancel.
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " to " + string(to) +
			" is not allowed for role '" + string(actor) + "'",
	)
}

// IsTerminal reports whether no further transitions exist from status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// CanCancel reports whether an order in the given status may still be
// cancelled. Any non-terminal status qualifies; customers are further
// restricted at the HTTP layer to orders the vendor has not readied yet.
func CanCancel(status models.OrderStatus) bool {
	return !IsTerminal(status)
}

// GetAllTransitions returns the full forward state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
