package config

import "os"

// Environment carries the deployment-dependent settings for auth cookies.
type Environment struct {
	IsDevelopment bool
	Domain        string
	CookieSecure  bool
}

var Env Environment

func init() {
	domain := os.Getenv("COOKIE_DOMAIN")

	// No cookie domain means a local development run.
	isDev := domain == ""
	if isDev {
		domain = "localhost"
	}

	Env = Environment{
		IsDevelopment: isDev,
		Domain:        domain,
		CookieSecure:  !isDev,
	}
}
