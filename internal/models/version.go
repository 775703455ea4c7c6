package models

// MetalinkVersion represents the detected schema revision of a document
type MetalinkVersion int

const (
	VersionUnknown MetalinkVersion = iota
	VersionThree
	VersionFour
)

// String returns the string representation of MetalinkVersion
func (v MetalinkVersion) String() string {
	switch v {
	case VersionThree:
		return "3.0"
	case VersionFour:
		return "4.0"
	default:
		return "unknown"
	}
}
