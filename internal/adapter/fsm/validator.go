package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/busops/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// Validator implements domain.TransitionValidator using looplab/fsm.
// looplab/fsm machines hold their current state, so each call builds a
// short-lived machine seeded with the tenant's status.
type Validator struct {
	events []loopfsm.EventDesc
	order  []domain.TenantEvent // first appearance in the transition table
}

// New creates a validator for domain.TenantTransitions.
func New() *Validator {
	return NewFromTable(domain.TenantTransitions)
}

// NewFromTable creates a validator for an arbitrary transition table.
// Rows sharing an event and destination become one EventDesc with
// several sources.
func NewFromTable(table []domain.TenantTransition) *Validator {
	type key struct {
		event domain.TenantEvent
		dst   domain.TenantStatus
	}
	sources := make(map[key][]string)
	var keys []key
	var order []domain.TenantEvent
	seen := make(map[domain.TenantEvent]bool)

	for _, t := range table {
		k := key{event: t.Event, dst: t.Dst}
		if _, ok := sources[k]; !ok {
			keys = append(keys, k)
		}
		sources[k] = append(sources[k], string(t.Src))
		if !seen[t.Event] {
			seen[t.Event] = true
			order = append(order, t.Event)
		}
	}

	events := make([]loopfsm.EventDesc, 0, len(keys))
	for _, k := range keys {
		events = append(events, loopfsm.EventDesc{
			Name: string(k.event),
			Src:  sources[k],
			Dst:  string(k.dst),
		})
	}
	return &Validator{events: events, order: order}
}

func (v *Validator) machine(current domain.TenantStatus) *loopfsm.FSM {
	return loopfsm.NewFSM(string(current), v.events, nil)
}

// Apply checks if the given event is valid from the current status and
// returns the destination status. Returns a domain.TransitionError if
// the transition is not allowed.
func (v *Validator) Apply(ctx context.Context, current domain.TenantStatus, event domain.TenantEvent) (domain.TenantStatus, error) {
	m := v.machine(current)

	if err := m.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) || errors.As(err, &noTransition) {
			return "", &domain.TransitionError{
				Event:   event,
				Current: current,
			}
		}
		return "", err
	}

	return domain.TenantStatus(m.Current()), nil
}

// Available lists the events accepted from current, in table order.
func (v *Validator) Available(current domain.TenantStatus) []domain.TenantEvent {
	m := v.machine(current)

	var out []domain.TenantEvent
	for _, event := range v.order {
		if m.Can(string(event)) {
			out = append(out, event)
		}
	}
	return out
}
