package attendance

// Confirmer answers a yes/no prompt before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt)
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	// Confirmed says yes to every prompt. Use it when the UI already asked.
	Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })
	// Declined says no to every prompt.
	Declined Confirmer = ConfirmFunc(func(string) bool { return false })
)

func confirmed(c Confirmer, prompt string) bool {
	return c != nil && c.Confirm(prompt)
}
