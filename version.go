package chatteroo

import "fmt"

// ChatterooVersion identifies which revision of the wire protocol a
// Transmission uses. It rides on the SSID of the destination address in
// the link-layer envelope (see the channel package), not as a separate
// field on the wire.
//
// There is deliberately no compatibility shim between versions: a
// decoder that doesn't recognize the version fails closed.
type ChatterooVersion uint8

const (
	// VersionTest is used for development and experimentation.
	VersionTest ChatterooVersion = 0
	// VersionV1 is the first stable protocol revision.
	VersionV1 ChatterooVersion = 1
)

// SSID returns the destination-address SSID this version is carried as.
func (v ChatterooVersion) SSID() uint8 {
	return uint8(v)
}

// ParseChatterooVersion maps a destination-address SSID back to a
// ChatterooVersion, failing for any value outside the closed enum.
func ParseChatterooVersion(ssid uint8) (ChatterooVersion, error) {
	switch ChatterooVersion(ssid) {
	case VersionTest, VersionV1:
		return ChatterooVersion(ssid), nil
	default:
		return 0, &InvalidChatterooVersionError{SSID: ssid}
	}
}

func (v ChatterooVersion) String() string {
	switch v {
	case VersionTest:
		return "Test"
	case VersionV1:
		return "V1"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(v))
	}
}

// InvalidChatterooVersionError reports a destination-address SSID that
// does not correspond to any recognized ChatterooVersion.
type InvalidChatterooVersionError struct {
	SSID uint8
}

func (e *InvalidChatterooVersionError) Error() string {
	return fmt.Sprintf("chatteroo: invalid version ssid %d", e.SSID)
}
