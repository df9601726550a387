package routes

// View is a top-level view a navigation request can resolve to
type View string

const (
	ViewLoading   View = "loading"
	ViewLanding   View = "landing"
	ViewLogin     View = "login"
	ViewSignup    View = "signup"
	ViewReset     View = "reset-password"
	ViewSetup     View = "setup"
	ViewPayment   View = "payment"
	ViewDashboard View = "dashboard"
	ViewAdmin     View = "admin"
)

// Canonical paths
const (
	PathLanding   = "/"
	PathLogin     = "/login"
	PathSignup    = "/signup"
	PathReset     = "/reset-password"
	PathSetup     = "/setup"
	PathPayment   = "/payment"
	PathDashboard = "/dashboard"
	PathAdmin     = "/admin"
)

// Session is the snapshot of session state a resolution depends on
type Session struct {
	Loading           bool
	Authenticated     bool
	IsAdmin           bool
	IsPaid            bool
	HasCompletedSetup bool
}

// Resolution is the outcome of resolving a navigation request. Path is the
// canonical path of the resolved view; when it differs from the requested
// path the caller should treat the resolution as a redirect. RedirectedFrom
// carries the originally intended path when an unauthenticated request was
// sent to login, so a later successful sign-in can return there.
type Resolution struct {
	View           View
	Path           string
	RedirectedFrom string
}

var viewPaths = map[View]string{
	ViewLanding:   PathLanding,
	ViewLogin:     PathLogin,
	ViewSignup:    PathSignup,
	ViewReset:     PathReset,
	ViewSetup:     PathSetup,
	ViewPayment:   PathPayment,
	ViewDashboard: PathDashboard,
	ViewAdmin:     PathAdmin,
}

func resolved(v View) Resolution {
	return Resolution{View: v, Path: viewPaths[v]}
}

// Resolve is a pure decision function mapping session state and a requested
// path to the view that renders. It never consults anything beyond its
// arguments.
func Resolve(s Session, path string) Resolution {
	if s.Loading {
		return Resolution{View: ViewLoading, Path: path}
	}

	if !s.Authenticated {
		switch path {
		case PathLanding:
			return resolved(ViewLanding)
		case PathLogin:
			return resolved(ViewLogin)
		case PathSignup:
			return resolved(ViewSignup)
		case PathReset:
			return resolved(ViewReset)
		default:
			r := resolved(ViewLogin)
			r.RedirectedFrom = path
			return r
		}
	}

	switch path {
	case PathLanding:
		// The landing page stays reachable when signed in.
		return resolved(ViewLanding)
	case PathSetup:
		// Setup doubles as the settings view: anyone mid-onboarding can open
		// it, and a complete-but-unpaid user can still edit company info.
		// Only a fully onboarded user bounces to the dashboard.
		if s.IsAdmin {
			return resolved(ViewAdmin)
		}
		if s.HasCompletedSetup && s.IsPaid {
			return resolved(ViewDashboard)
		}
		return resolved(ViewSetup)
	case PathReset:
		return resolved(ViewReset)
	default:
		return home(s)
	}
}

// home settles an authenticated session into its gate-aware landing view:
// admins bypass the setup and payment gates entirely, setup comes before
// payment, and a fully onboarded user lands on the dashboard.
func home(s Session) Resolution {
	switch {
	case s.IsAdmin:
		return resolved(ViewAdmin)
	case !s.HasCompletedSetup:
		return resolved(ViewSetup)
	case !s.IsPaid:
		return resolved(ViewPayment)
	default:
		return resolved(ViewDashboard)
	}
}
