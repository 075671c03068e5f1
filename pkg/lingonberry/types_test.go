package lingonberry

import "testing"

func TestExtensionType(t *testing.T) {
	if !ExtGenericMap.IsValid() {
		t.Error("ExtGenericMap must be valid")
	}
	if ExtGenericMap.String() != "GenericMap" {
		t.Errorf("ExtGenericMap.String() = %q", ExtGenericMap.String())
	}
	if ExtensionType(9).String() == "GenericMap" {
		t.Error("unknown extension types must not share the GenericMap name")
	}
}

func TestLimitPresets(t *testing.T) {
	// Secure limits must be at least as tight as the defaults everywhere.
	if SecureLimits.MaxDepth > DefaultLimits.MaxDepth {
		t.Error("SecureLimits.MaxDepth looser than default")
	}
	if SecureLimits.MaxStringLength > DefaultLimits.MaxStringLength {
		t.Error("SecureLimits.MaxStringLength looser than default")
	}
	if SecureLimits.MaxBytesLength > DefaultLimits.MaxBytesLength {
		t.Error("SecureLimits.MaxBytesLength looser than default")
	}
	if SecureLimits.MaxArrayLength > DefaultLimits.MaxArrayLength {
		t.Error("SecureLimits.MaxArrayLength looser than default")
	}
	if SecureLimits.MaxMapSize > DefaultLimits.MaxMapSize {
		t.Error("SecureLimits.MaxMapSize looser than default")
	}

	// NoLimits disables every bound.
	if NoLimits.MaxDepth != 0 || NoLimits.MaxStringLength != 0 ||
		NoLimits.MaxBytesLength != 0 || NoLimits.MaxArrayLength != 0 ||
		NoLimits.MaxMapSize != 0 {
		t.Errorf("NoLimits must be all zero: %+v", NoLimits)
	}
}

func TestOptionPresets(t *testing.T) {
	if !StrictOptions.StrictMode {
		t.Error("StrictOptions must set StrictMode")
	}
	if DefaultOptions.StrictMode {
		t.Error("DefaultOptions must not set StrictMode")
	}
	if FastOptions.ValidateUTF8 {
		t.Error("FastOptions must skip UTF-8 validation")
	}
	if !SecureOptions.Deterministic {
		t.Error("SecureOptions must be deterministic")
	}
}

func TestVersionInfo(t *testing.T) {
	if VersionInfo() == "" {
		t.Error("VersionInfo must not be empty")
	}
}
