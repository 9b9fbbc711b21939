package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xolan/locktime/internal/kvstore"
)

func TestProfile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m, kv := newManager(t)

	p, err := m.LoadProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)

	require.NoError(t, m.SaveProfile(ctx, "alice", Profile{
		DisplayName:  " Alice ",
		Keyholder:    "Mistress",
		DeviceType:   "custom",
		CustomDevice: "Steel belt",
	}))
	p, err = m.LoadProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, Profile{DisplayName: "Alice", Keyholder: "Mistress", DeviceType: "custom", CustomDevice: "Steel belt"}, p)

	// Saved wholesale; the custom name is dropped for other device types
	require.NoError(t, m.SaveProfile(ctx, "alice", Profile{DeviceType: "cage", CustomDevice: "ignored"}))
	raw, _, err := kv.Get(ctx, "profile_alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"displayName":"","keyholder":"","deviceType":"cage","customDevice":null}`, raw)
}

func TestProfile_CustomDeviceRequired(t *testing.T) {
	m, _ := newManager(t)
	err := m.SaveProfile(context.Background(), "alice", Profile{DeviceType: "custom"})
	assert.ErrorIs(t, err, ErrCustomDeviceRequired)
}

func TestProfile_BrowserRecord(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, "profile_bob", `{"displayName":"Bob","keyholder":"self-locked","deviceType":"cage","customDevice":null}`))

	p, err := New(kv).LoadProfile(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", p.DisplayName)
	assert.True(t, p.IsSelfLocked())
}

func TestProfile_Labels(t *testing.T) {
	tests := []struct {
		name     string
		p        Profile
		wantName string
		wantKey  string
		wantDev  string
		wantSelf bool
	}{
		{"empty", Profile{}, "alice", "self-locked", "Not set", true},
		{"full", Profile{DisplayName: "Al", Keyholder: "Kim", DeviceType: "cage"}, "Al", "Kim", "cage", false},
		{"custom", Profile{DeviceType: "custom", CustomDevice: "Belt"}, "alice", "self-locked", "Belt", true},
		{"explicit self", Profile{Keyholder: "Self-Locked"}, "alice", "Self-Locked", "Not set", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.p.Name("alice"))
			assert.Equal(t, tt.wantKey, tt.p.KeyholderLabel())
			assert.Equal(t, tt.wantDev, tt.p.DeviceLabel())
			assert.Equal(t, tt.wantSelf, tt.p.IsSelfLocked())
		})
	}
}
