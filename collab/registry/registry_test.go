package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndPresence(t *testing.T) {
	req := require.New(t)
	reg := New()

	// Given no one is connected
	req.Empty(reg.Names())
	req.Zero(reg.Len())

	// When two connections claim names
	alice := uuid.NewString()
	bob := uuid.NewString()
	reg.Register(alice, "Alice")
	reg.Register(bob, "Bob")

	// Then presence reflects both
	req.Equal([]string{"Alice", "Bob"}, reg.Names())
	req.Equal(2, reg.Len())
}

func TestRegistry_PresenceDeduplicatesNames(t *testing.T) {
	req := require.New(t)
	reg := New()

	reg.Register(uuid.NewString(), "Alice")
	reg.Register(uuid.NewString(), "Alice")
	reg.Register(uuid.NewString(), "Bob")

	// Duplicate display names collapse in the snapshot
	req.Equal([]string{"Alice", "Bob"}, reg.Names())
	req.Equal(3, reg.Len())
}

func TestRegistry_LastJoinWins(t *testing.T) {
	req := require.New(t)
	reg := New()

	conn := uuid.NewString()
	reg.Register(conn, "Alice")
	reg.Register(conn, "Alicia")

	// A connection maps to at most one name at any time
	req.Equal("Alicia", reg.Name(conn))
	req.Equal([]string{"Alicia"}, reg.Names())
	req.Equal(1, reg.Len())
}

func TestRegistry_Unregister(t *testing.T) {
	req := require.New(t)
	reg := New()

	conn := uuid.NewString()
	reg.Register(conn, "Alice")

	name, ok := reg.Unregister(conn)
	req.True(ok)
	req.Equal("Alice", name)
	req.Empty(reg.Names())
	req.Empty(reg.ConnIDs())

	// Unregistering again signals absence
	_, ok = reg.Unregister(conn)
	req.False(ok)
}

func TestRegistry_FindByName(t *testing.T) {
	req := require.New(t)
	reg := New()

	reg.Register("conn-1", "Alice")
	reg.Register("conn-2", "Bob")

	conn, ok := reg.FindByName("Bob")
	req.True(ok)
	req.Equal("conn-2", conn)

	_, ok = reg.FindByName("Carol")
	req.False(ok)
}

func TestRegistry_FindByName_DuplicatesResolveToEarliest(t *testing.T) {
	req := require.New(t)
	reg := New()

	reg.Register("conn-1", "Alice")
	reg.Register("conn-2", "Alice")

	// Earliest-registered holder wins
	conn, ok := reg.FindByName("Alice")
	req.True(ok)
	req.Equal("conn-1", conn)

	// Once the first holder leaves, the lookup moves on to the next
	reg.Unregister("conn-1")
	conn, ok = reg.FindByName("Alice")
	req.True(ok)
	req.Equal("conn-2", conn)
}

func TestRegistry_NameOfUnknownConnectionIsEmpty(t *testing.T) {
	req := require.New(t)
	reg := New()

	// Events arriving before join proceed with an empty name
	req.Equal("", reg.Name(uuid.NewString()))
}

func TestRegistry_PresenceInvariantUnderChurn(t *testing.T) {
	req := require.New(t)
	reg := New()

	// An arbitrary interleaving of registers and unregisters
	reg.Register("a", "Alice")
	reg.Register("b", "Bob")
	reg.Register("c", "Alice")
	reg.Unregister("b")
	reg.Register("d", "Dana")
	reg.Unregister("a")

	// presenceNames() equals the deduplicated names of current connections
	req.Equal([]string{"Alice", "Dana"}, reg.Names())
	req.Equal([]string{"c", "d"}, reg.ConnIDs())
}
