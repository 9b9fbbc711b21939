package account

import (
	"context"
	"errors"
	"strings"

	"github.com/xolan/locktime/internal/kvstore"
)

// CustomDeviceType selects the free-text device name.
const CustomDeviceType = "custom"

// SelfLocked is the keyholder shown when nobody else holds the key.
const SelfLocked = "self-locked"

// ErrCustomDeviceRequired is returned when a custom device has no name.
var ErrCustomDeviceRequired = errors.New("custom device name is required for device type \"custom\"")

// Profile is the user's self description. It is saved wholesale.
type Profile struct {
	DisplayName  string
	Keyholder    string
	DeviceType   string
	CustomDevice string
}

type profileRecord struct {
	DisplayName  string  `json:"displayName"`
	Keyholder    string  `json:"keyholder"`
	DeviceType   string  `json:"deviceType"`
	CustomDevice *string `json:"customDevice"`
}

// Name returns the display name, falling back to the username.
func (p Profile) Name(user string) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return user
}

// KeyholderLabel returns the keyholder or SelfLocked.
func (p Profile) KeyholderLabel() string {
	if p.Keyholder != "" {
		return p.Keyholder
	}
	return SelfLocked
}

// IsSelfLocked reports whether no other person holds the key.
func (p Profile) IsSelfLocked() bool {
	return p.Keyholder == "" || strings.EqualFold(p.Keyholder, SelfLocked)
}

// DeviceLabel returns the custom device name, the device type, or "Not set".
func (p Profile) DeviceLabel() string {
	if p.DeviceType == CustomDeviceType && p.CustomDevice != "" {
		return p.CustomDevice
	}
	if p.DeviceType != "" {
		return p.DeviceType
	}
	return "Not set"
}

// SaveProfile replaces the stored profile of user. The custom device name is
// kept only for the custom device type.
func (m *Manager) SaveProfile(ctx context.Context, user string, p Profile) error {
	if err := CheckUsername(user); err != nil {
		return err
	}
	rec := profileRecord{
		DisplayName: strings.TrimSpace(p.DisplayName),
		Keyholder:   strings.TrimSpace(p.Keyholder),
		DeviceType:  strings.TrimSpace(p.DeviceType),
	}
	if rec.DeviceType == CustomDeviceType {
		custom := strings.TrimSpace(p.CustomDevice)
		if custom == "" {
			return ErrCustomDeviceRequired
		}
		rec.CustomDevice = &custom
	}
	return kvstore.SetJSON(ctx, m.kv, ProfileKeyPrefix+user, rec)
}

// LoadProfile returns the stored profile of user, or the zero Profile.
func (m *Manager) LoadProfile(ctx context.Context, user string) (Profile, error) {
	var rec profileRecord
	if _, err := kvstore.GetJSON(ctx, m.kv, ProfileKeyPrefix+user, &rec); err != nil {
		return Profile{}, err
	}
	p := Profile{
		DisplayName: rec.DisplayName,
		Keyholder:   rec.Keyholder,
		DeviceType:  rec.DeviceType,
	}
	if rec.CustomDevice != nil {
		p.CustomDevice = *rec.CustomDevice
	}
	return p, nil
}
