package service

import "github.com/samarth/admin-console/internal/core/domain"

// Decision is the outcome of a route guard evaluation.
type Decision int

const (
	// DecisionLoading means hydration is still running; show a placeholder.
	DecisionLoading Decision = iota
	// DecisionRedirectLogin means nobody is logged in.
	DecisionRedirectLogin
	// DecisionForbidden means the operator's role is not on the allow-list.
	DecisionForbidden
	// DecisionRender means the requested view may be rendered.
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionForbidden:
		return "forbidden"
	case DecisionRender:
		return "render"
	default:
		return "unknown"
	}
}

// Evaluate decides what a navigation should show for the given session and
// route allow-list. It holds no state and may be called any number of times.
func Evaluate(session domain.Session, allowed []domain.Role) Decision {
	switch {
	case session.Hydrating:
		return DecisionLoading
	case session.Identity == nil:
		return DecisionRedirectLogin
	case !domain.RoleAllowed(session.Identity.Role, allowed):
		return DecisionForbidden
	default:
		return DecisionRender
	}
}
