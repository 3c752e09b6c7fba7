// Package guard decides what a protected view shows for a given
// authentication state.
package guard

// State is the authentication state of a client session: exactly one of
// Loading, Authenticated or Unauthenticated.
type State interface {
	state()
	String() string
}

// Loading means the session has not been resolved yet.
type Loading struct{}

// Authenticated carries the identity of a resolved session.
type Authenticated struct {
	UserID uint
	Email  string
}

// Unauthenticated means the session resolved without a valid identity.
type Unauthenticated struct{}

func (Loading) state()         {}
func (Authenticated) state()   {}
func (Unauthenticated) state() {}

func (Loading) String() string         { return "loading" }
func (Authenticated) String() string   { return "authenticated" }
func (Unauthenticated) String() string { return "unauthenticated" }

// Action is what the guarded view should do.
type Action string

const (
	// RenderPlaceholder shows a placeholder and does not navigate.
	RenderPlaceholder Action = "placeholder"
	// RenderContent shows the guarded view unchanged.
	RenderContent Action = "render"
	// Redirect navigates to Decision.Location.
	Redirect Action = "redirect"
)

// Decision is the outcome of guarding a view.
type Decision struct {
	Action   Action `json:"action"`
	Location string `json:"location,omitempty"`
	// Replace asks for the current history entry to be replaced so the
	// guarded view cannot be reached with back navigation.
	Replace bool `json:"replace,omitempty"`
}

// Decide maps an authentication state to a decision. entry is the page
// unauthenticated sessions are sent to. A nil state is treated as Loading.
func Decide(s State, entry string) Decision {
	switch s.(type) {
	case Authenticated:
		return Decision{Action: RenderContent}
	case Unauthenticated:
		return Decision{Action: Redirect, Location: entry, Replace: true}
	default:
		return Decision{Action: RenderPlaceholder}
	}
}
