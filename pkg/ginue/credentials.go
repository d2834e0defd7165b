package ginue

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMissingCredentials reports an environment without domain, username or
// password.
var ErrMissingCredentials = errors.New("ginue: credentials not configured")

// Credentials authenticate against one kintone environment.
type Credentials struct {
	Domain        string
	Username      string
	Password      string
	BasicUsername string
	BasicPassword string
}

// Validate checks the mandatory values.
func (c Credentials) Validate(env string) error {
	var missing []string
	if c.Domain == "" {
		missing = append(missing, "domain")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w for %s: missing %s", ErrMissingCredentials, env, strings.Join(missing, ", "))
	}
	return nil
}

// HasBasic reports whether basic authentication is configured.
func (c Credentials) HasBasic() bool {
	return c.BasicUsername != "" && c.BasicPassword != ""
}

// CredentialSource resolves credentials per environment.
type CredentialSource interface {
	Credentials(env string) (Credentials, error)
}

// CredentialFunc adapts a function to CredentialSource.
type CredentialFunc func(env string) (Credentials, error)

func (fn CredentialFunc) Credentials(env string) (Credentials, error) {
	return fn(env)
}

// EnvCredentials reads KINTONE_<ENV>_DOMAIN, _USERNAME, _PASSWORD,
// _BASIC_USERNAME and _BASIC_PASSWORD through Lookup (os.LookupEnv when nil).
type EnvCredentials struct {
	Lookup func(string) (string, bool)
}

func (e EnvCredentials) Credentials(env string) (Credentials, error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(suffix string) string {
		value, _ := lookup(EnvKey(env, suffix))
		return strings.TrimSpace(value)
	}
	return Credentials{
		Domain:        get("DOMAIN"),
		Username:      get("USERNAME"),
		Password:      get("PASSWORD"),
		BasicUsername: get("BASIC_USERNAME"),
		BasicPassword: get("BASIC_PASSWORD"),
	}, nil
}

// EnvKey builds the variable name for env and suffix, e.g. KINTONE_DEV_DOMAIN.
func EnvKey(env, suffix string) string {
	return "KINTONE_" + strings.ToUpper(env) + "_" + suffix
}
