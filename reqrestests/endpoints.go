package reqrestests

// Paths are relative to the configured base URL.
const (
	ListResourcePath           = "api/unknown"
	SingleResourcePath         = "api/unknown/2"
	SingleResourceNotFoundPath = "api/unknown/23"
	ListUsersPath              = "api/users"
	SingleUserPath             = "api/users/2"
	SingleUserNotFoundPath     = "api/users/23"
	RegisterPath               = "api/register"
	LoginPath                  = "api/login"
	CreateUserPath             = "api/users"
	UpdateUserPath             = "api/users/2"
	DeleteUserPath             = "api/users/2"
)

const (
	listUsersPage          = "2"
	emailDomainSuffix      = "reqres.in"
	avatarSuffix           = "-image.jpg"
	minimumResourceYear    = 2000
	colorPrefix            = "#"
	missingPasswordMessage = "Missing password"
)
