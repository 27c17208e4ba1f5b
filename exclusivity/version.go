package exclusivity

import "github.com/kolkov/exclusivity/internal/exclusivity/engine"

// Version information for the exclusivity-tracking runtime.
const (
	Version      = "0.1.0"
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// Info describes the runtime's current configuration.
type Info struct {
	Version string
	Enabled bool
}

// GetInfo returns information about the exclusivity runtime.
func GetInfo() Info {
	return Info{
		Version: Version,
		Enabled: engine.Enabled(),
	}
}
