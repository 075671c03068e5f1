package lingonberry

import "fmt"

// ExtensionType identifies the payload kind inside an extension envelope.
// The format reserves a single application extension: generic maps.
type ExtensionType int8

const (
	// ExtGenericMap marks an extension payload holding a generic key/value map.
	// Structs are encoded as bare maps without an envelope; only generic maps
	// carry this wrapper, which is how the two are told apart on the wire.
	ExtGenericMap ExtensionType = 1
)

// IsValid returns true if the extension type is known.
func (t ExtensionType) IsValid() bool {
	return t == ExtGenericMap
}

// String returns a string representation of the extension type.
func (t ExtensionType) String() string {
	if t == ExtGenericMap {
		return "GenericMap"
	}
	return fmt.Sprintf("ExtensionType(%d)", int8(t))
}

// Limits defines resource limits for decoding.
type Limits struct {
	// MaxDepth is the maximum nesting depth for arrays/maps/structs.
	// A value of 0 means no limit.
	MaxDepth int

	// MaxStringLength is the maximum length of a string in bytes.
	// A value of 0 means no limit.
	MaxStringLength int

	// MaxBytesLength is the maximum length of a byte blob.
	// A value of 0 means no limit.
	MaxBytesLength int

	// MaxArrayLength is the maximum number of elements in an array.
	// A value of 0 means no limit.
	MaxArrayLength int

	// MaxMapSize is the maximum number of entries in a map or struct.
	// A value of 0 means no limit.
	MaxMapSize int
}

// DefaultLimits are the default resource limits.
// These are generous limits suitable for most use cases.
var DefaultLimits = Limits{
	MaxDepth:        100,
	MaxStringLength: 10 * 1024 * 1024,  // 10 MB
	MaxBytesLength:  100 * 1024 * 1024, // 100 MB
	MaxArrayLength:  1_000_000,
	MaxMapSize:      1_000_000,
}

// SecureLimits are conservative limits for untrusted input.
var SecureLimits = Limits{
	MaxDepth:        32,
	MaxStringLength: 1 * 1024 * 1024,  // 1 MB
	MaxBytesLength:  10 * 1024 * 1024, // 10 MB
	MaxArrayLength:  10_000,
	MaxMapSize:      10_000,
}

// NoLimits disables all resource limits.
// Use with caution - only for trusted input.
var NoLimits = Limits{}

// Options configures encoding/decoding behavior.
type Options struct {
	// Limits specifies resource limits applied while decoding.
	Limits Limits

	// StrictMode rejects unknown struct fields during decoding.
	StrictMode bool

	// ValidateUTF8 validates that strings are valid UTF-8 on both paths.
	ValidateUTF8 bool

	// OmitEmpty omits struct fields tagged omitempty when they hold
	// their zero value.
	OmitEmpty bool

	// Deterministic sorts generic map keys during reflection-based encoding
	// so that equal values produce identical bytes.
	Deterministic bool
}

// DefaultOptions are the default encoding/decoding options.
var DefaultOptions = Options{
	Limits:        DefaultLimits,
	StrictMode:    false,
	ValidateUTF8:  true,
	OmitEmpty:     true,
	Deterministic: true,
}

// SecureOptions are conservative options for untrusted input.
var SecureOptions = Options{
	Limits:        SecureLimits,
	StrictMode:    false,
	ValidateUTF8:  true,
	OmitEmpty:     true,
	Deterministic: true,
}

// StrictOptions reject unknown struct fields and validate strings.
var StrictOptions = Options{
	Limits:        DefaultLimits,
	StrictMode:    true,
	ValidateUTF8:  true,
	OmitEmpty:     true,
	Deterministic: true,
}

// FastOptions prioritize performance over determinism.
// Use when decoding output from the same encoder (map order doesn't matter).
var FastOptions = Options{
	Limits:        DefaultLimits,
	StrictMode:    false,
	ValidateUTF8:  false,
	OmitEmpty:     true,
	Deterministic: false,
}

// Version information, set by ldflags at build time.
var (
	// Version is the semantic version of the library.
	Version = "dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// VersionInfo returns a formatted version string.
func VersionInfo() string {
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}
