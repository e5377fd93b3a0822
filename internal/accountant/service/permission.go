package service

import "github.com/zzpboek/zzpboek/internal/accountant/domain"

// CapabilitiesFor returns the capability set for a resolved tenant context.
// Owner context implies everything; a grant contributes exactly its stored
// flags, with no escalation by role name.
func CapabilitiesFor(grant *domain.AccessGrant) domain.Capabilities {
	if grant == nil {
		return domain.OwnerCapabilities
	}
	return grant.Capabilities
}

// Capability names checked by handlers before mutating or exporting actions.
type Capability string

const (
	CapabilityRead   Capability = "read"
	CapabilityEdit   Capability = "edit"
	CapabilityExport Capability = "export"
	CapabilityBTW    Capability = "btw"
)

// Allowed reports whether the capability set permits the named action.
// A failed check must surface as FORBIDDEN, never as a generic error.
func Allowed(caps domain.Capabilities, c Capability) bool {
	switch c {
	case CapabilityRead:
		return caps.CanRead
	case CapabilityEdit:
		return caps.CanEdit
	case CapabilityExport:
		return caps.CanExport
	case CapabilityBTW:
		return caps.CanBTW
	default:
		return false
	}
}
