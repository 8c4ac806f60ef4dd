package utils

import (
	"os"
	"os/user"
)

// GetUsername returns the current username, falling back to $USER when the
// user database is unavailable (for example in minimal containers).
func GetUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		if name := os.Getenv("USER"); name != "" {
			return name, nil
		}
		return "", err
	}
	return u.Username, nil
}
