package search

import "os"

// Environment supplies the two process facts root normalization depends on.
type Environment interface {
	// HomeDir returns the user's home directory, used to expand "~".
	HomeDir() (string, error)

	// Getwd returns the directory relative roots are resolved against.
	Getwd() (string, error)
}

// OSEnvironment reads the home and working directories from the process.
type OSEnvironment struct{}

func (OSEnvironment) HomeDir() (string, error) { return os.UserHomeDir() }
func (OSEnvironment) Getwd() (string, error)   { return os.Getwd() }

// FixedEnvironment reports fixed directories. An empty field makes the
// corresponding lookup fail.
type FixedEnvironment struct {
	Home string
	Wd   string
}

func (e FixedEnvironment) HomeDir() (string, error) {
	if e.Home == "" {
		return "", errNoDirectory
	}
	return e.Home, nil
}

func (e FixedEnvironment) Getwd() (string, error) {
	if e.Wd == "" {
		return "", errNoDirectory
	}
	return e.Wd, nil
}

var (
	_ Environment = OSEnvironment{}
	_ Environment = FixedEnvironment{}
)
