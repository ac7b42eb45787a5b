package router

// Well-known paths.
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
)

// Route names.
const (
	NameLogin     = "Login"
	NameRegister  = "Register"
	NameDashboard = "Dashboard"
	NameCard      = "Card"
)

// CardPath returns the detail path of a card.
func CardPath(id string) string {
	return "/cards/" + id
}

// DefaultRoutes is the application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: PathRoot, Redirect: PathDashboard},
		{Pattern: PathLogin, Name: NameLogin, Title: "Login"},
		{Pattern: PathRegister, Name: NameRegister, Title: "Register"},
		{Pattern: PathDashboard, Name: NameDashboard, Title: "Dashboard", RequiresAuth: true},
		{Pattern: "/cards/:id", Name: NameCard, Title: "Card", RequiresAuth: true},
		{Pattern: "*", Redirect: PathLogin},
	}
}
