package driver

import "os"

// OSEnv satisfies eval.EnvProvider by delegating to the process environment.
type OSEnv struct{}

func (OSEnv) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}
