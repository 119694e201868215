package ports

import "context"

// Action enumerates the swap operations guarded by the access gate.
type Action int

const (
	// ActionInitiate ...
	ActionInitiate Action = iota
	// ActionComplete ...
	ActionComplete
	// ActionRefund ...
	ActionRefund
)

func (a Action) String() string {
	switch a {
	case ActionInitiate:
		return "initiate"
	case ActionComplete:
		return "complete"
	case ActionRefund:
		return "refund"
	default:
		return "unknown"
	}
}

// AccessGate is the interface to the external authorization system consulted
// before operating on swaps. It is always an explicit dependency of the
// service, never an ambient registry.
type AccessGate interface {
	// IsAuthorized returns whether the given identity may perform the given
	// action.
	IsAuthorized(ctx context.Context, identity string, action Action) (bool, error)
	// IsPaused returns whether the system is administratively paused.
	IsPaused(ctx context.Context) (bool, error)
}
