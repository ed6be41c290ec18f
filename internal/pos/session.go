package pos

// Session identifies the operator behind the register. It is optional: a nil
// session renders as the placeholder name below.
type Session struct {
	Name  string
	Email string
	Role  string
	Token string
}

// DefaultOperatorName is shown when no session is attached.
const DefaultOperatorName = "Cashier"

// DisplayName returns the operator's name, falling back to the placeholder
// when the session is absent or anonymous.
func (s *Session) DisplayName() string {
	if s == nil || s.Name == "" {
		return DefaultOperatorName
	}
	return s.Name
}
