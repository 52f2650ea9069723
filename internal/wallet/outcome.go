package wallet

// Outcome is the structured result of every ledger operation: a confirmation
// message on success, or the ordered list of user-facing errors that blocked
// it. Callers render both verbatim; operations never raise across this
// boundary for domain failures.
type Outcome struct {
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Balance string   `json:"balance,omitempty"`
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return len(o.Errors) == 0
}

func rejected(messages ...string) Outcome {
	return Outcome{Errors: messages}
}
