package models

/*
Provider status and operation constants used across the codebase.
*/

type ProviderStatus int

const (
	ProviderStatusUnknown  ProviderStatus = iota // Default zero value
	ProviderStatusActive                         // Provider is configured and has a client
	ProviderStatusDisabled                       // Provider is not configured or explicitly disabled
)

func (s ProviderStatus) String() string {
	switch s {
	case ProviderStatusActive:
		return "active"
	case ProviderStatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Operation type constants for cost tracking
const (
	OperationAssist = "assist"
)
