package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
)

func TestCapabilitiesFor(t *testing.T) {
	t.Parallel()

	t.Run("owner context implies everything", func(t *testing.T) {
		caps := CapabilitiesFor(nil)
		require.Equal(t, domain.OwnerCapabilities, caps)
	})

	t.Run("grant capabilities come back verbatim", func(t *testing.T) {
		grant := &domain.AccessGrant{
			Role:         domain.RoleAccountant,
			Capabilities: domain.Capabilities{CanRead: true, CanExport: true},
		}
		caps := CapabilitiesFor(grant)
		require.True(t, caps.CanRead)
		require.False(t, caps.CanEdit)
		require.True(t, caps.CanExport)
		require.False(t, caps.CanBTW)
	})
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	// Read-and-report accountant: can view and export, cannot touch the books.
	caps := domain.Capabilities{CanRead: true, CanEdit: false, CanExport: true, CanBTW: false}

	require.True(t, Allowed(caps, CapabilityRead))
	require.False(t, Allowed(caps, CapabilityEdit))
	require.True(t, Allowed(caps, CapabilityExport))
	require.False(t, Allowed(caps, CapabilityBTW))
	require.False(t, Allowed(caps, Capability("unknown")))

	t.Run("owner set allows everything", func(t *testing.T) {
		for _, c := range []Capability{CapabilityRead, CapabilityEdit, CapabilityExport, CapabilityBTW} {
			require.True(t, Allowed(domain.OwnerCapabilities, c))
		}
	})
}
