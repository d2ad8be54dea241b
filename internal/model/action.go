package model

// Action is a human-friendly operating mode for a timestep.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionInject   Action = "INJECT"
	ActionHold     Action = "HOLD"
	ActionWithdraw Action = "WITHDRAW"
)

// ActionFromQuantity maps a signed inventory change to an action.
// Positive = injection, negative = withdrawal.
func ActionFromQuantity(delta float64) Action {
	switch {
	case delta > 0:
		return ActionInject
	case delta < 0:
		return ActionWithdraw
	default:
		return ActionHold
	}
}
