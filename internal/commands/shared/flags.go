// Package shared holds state and helpers used by every quicktrace command.
package shared

var (
	verboseFlag bool
	jsonFlag    bool
	configFlag  string

	// Build-time version information
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// RegisterFlagPointers returns pointers for the global flags so the root
// command can bind them.
func RegisterFlagPointers() (*bool, *bool, *string) {
	return &verboseFlag, &jsonFlag, &configFlag
}

// SetVersion sets the build information reported by the version command.
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// GetVersion returns version, commit and build date.
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// GetVerbose reports whether --verbose was given.
func GetVerbose() bool {
	return verboseFlag
}

// GetJSON reports whether --json was given.
func GetJSON() bool {
	return jsonFlag
}

// GetConfigPath returns the --config path, or "" when unset.
func GetConfigPath() string {
	return configFlag
}

// ResetFlagsForTest restores the global flags to their zero values.
func ResetFlagsForTest() {
	verboseFlag = false
	jsonFlag = false
	configFlag = ""
}
