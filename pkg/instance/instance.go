package instance

import (
	"fmt"
	"os"
)

// GetID returns the process instance identifier, falling back to the
// hostname and finally a fixed default.
func GetID() string {
	if id := os.Getenv("ARGVISION_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return fmt.Sprintf("%s-%d", host, os.Getpid())
	}
	return "instance-0"
}
