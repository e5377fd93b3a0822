package domain

// Capabilities is the flag set scoping what an accountant may do within a
// company. Stored as explicit columns, never as a serialized blob, so the
// evaluator returns exactly what was granted.
type Capabilities struct {
	CanRead   bool
	CanEdit   bool
	CanExport bool
	CanBTW    bool
}

// OwnerCapabilities is the implicit set for a principal operating on their
// own company: everything allowed.
var OwnerCapabilities = Capabilities{CanRead: true, CanEdit: true, CanExport: true, CanBTW: true}

// DefaultCapabilitiesForRole maps a requested role to its default flag set.
// This is consulted only when constructing a new grant; stored grants are
// always read back verbatim.
func DefaultCapabilitiesForRole(role Role) Capabilities {
	switch role {
	case RoleAdmin, RoleOwner:
		return OwnerCapabilities
	case RoleAccountant:
		return Capabilities{CanRead: true, CanExport: true, CanBTW: true}
	case RoleStaff:
		return Capabilities{CanRead: true, CanEdit: true}
	default:
		return Capabilities{CanRead: true}
	}
}
