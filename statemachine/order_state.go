package statemachine

import (
	"strings"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"
)

// Transition defines a valid kitchen status change
type Transition struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
	Note string             `json:"note"`
}

// validTransitions is the authoritative order lifecycle; completed is terminal
var validTransitions = []Transition{
	{From: models.StatusReceived, To: models.StatusPreparing, Note: "kitchen starts the order"},
	{From: models.StatusPreparing, To: models.StatusReady, Note: "order is packed and waiting"},
	{From: models.StatusReady, To: models.StatusCompleted, Note: "handed over or delivered"},
}

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition returns a business rule error unless from → to is in the table.
func CanTransition(from, to models.OrderStatus) error {
	if !to.Valid() {
		return apperr.BusinessRule("Invalid status '%s'. Must be one of: %s", to, joinStatuses(models.OrderStatuses))
	}
	if transitionMap[transitionKey{From: from, To: to}] {
		return nil
	}
	return apperr.BusinessRule("Invalid transition: %s → %s is not allowed. Valid transitions from %s are: %s",
		from, to, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	return joinStatuses(nexts)
}

func joinStatuses(statuses []models.OrderStatus) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
