package handlers

import (
	"context"
	"fmt"

	"github.com/xolan/locktime/internal/account"
	"github.com/xolan/locktime/internal/cli"
)

// ProfileUpdate holds the profile fields given on the command line. Nil
// fields keep their stored value.
type ProfileUpdate struct {
	DisplayName  *string
	Keyholder    *string
	DeviceType   *string
	CustomDevice *string
}

// apply merges the given fields into p.
func (u ProfileUpdate) apply(p account.Profile) account.Profile {
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.Keyholder != nil {
		p.Keyholder = *u.Keyholder
	}
	if u.DeviceType != nil {
		p.DeviceType = *u.DeviceType
	}
	if u.CustomDevice != nil {
		p.CustomDevice = *u.CustomDevice
	}
	return p
}

// Empty reports whether no field was given.
func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.Keyholder == nil && u.DeviceType == nil && u.CustomDevice == nil
}

// ShowProfile prints the current user's profile.
func ShowProfile(ctx context.Context, deps *cli.Deps) {
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	p, err := svc.Account.Profile(ctx, user)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprint(deps.Stdout, cli.FormatProfile(user, p))
}

// SetProfile updates the given profile fields and saves the whole profile.
func SetProfile(ctx context.Context, deps *cli.Deps, update ProfileUpdate) {
	if update.Empty() {
		failWith(deps, "No profile fields given", nil,
			"Use --name, --keyholder, --device or --custom-device")
		return
	}
	svc, user, ok := openUser(ctx, deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	p, err := svc.Account.Profile(ctx, user)
	if err != nil {
		fail(deps, err)
		return
	}
	p = update.apply(p)
	if err := svc.Account.SaveProfile(ctx, user, p); err != nil {
		fail(deps, err)
		return
	}
	saved, err := svc.Account.Profile(ctx, user)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, "Profile saved")
	_, _ = fmt.Fprint(deps.Stdout, cli.FormatProfile(user, saved))
}
