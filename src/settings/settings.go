package settings

import "sync"

type Arguments struct {
	// Strongly verbose logging
	Verbose bool

	// Debug switches the logger to the development configuration
	Debug bool

	// DumpFile is where the `dump` command writes its snapshot
	DumpFile string

	// SeedOnStart controls whether the store is seeded at startup
	SeedOnStart bool
}

var (
	instance *Arguments
	once     sync.Once
)

// GetSettings returns the global settings instance, creating it with
// defaults on first use.
func GetSettings() *Arguments {
	once.Do(func() {
		instance = &Arguments{
			DumpFile:    "store.dump",
			SeedOnStart: true,
		}
	})
	return instance
}
