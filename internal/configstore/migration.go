// SPDX-License-Identifier: BSD-3-Clause

package configstore

import (
	"context"
	"fmt"

	"github.com/openhmk/hmkcore/pkg/fsm"
)

// migrate walks root through the version ladder up to CurrentVersion,
// applying each step's in-place upgrade. Mirrors original_source's
// migration.c table of {version, migrate_fn} steps: a slice of named,
// idempotent upgrades rather than one "jump to latest" function.
func migrate(root Root) (Root, error) {
	working := root
	machine, err := buildMigrationMachine(&working)
	if err != nil {
		return Root{}, fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	ctx := context.Background()
	if err := machine.Start(ctx); err != nil {
		return Root{}, fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	from := versionState(root.Version)
	if !machine.IsInState(from) {
		return Root{}, fmt.Errorf("%w: no migration path from version %d", ErrMigrationFailed, root.Version)
	}

	target := versionState(CurrentVersion)
	for machine.CurrentState() != target {
		if ok, _ := machine.CanFire("upgrade"); !ok {
			return Root{}, fmt.Errorf("%w: stuck at %s, no upgrade to %s", ErrMigrationFailed, machine.CurrentState(), target)
		}
		if err := machine.Fire(ctx, "upgrade"); err != nil {
			return Root{}, fmt.Errorf("%w: %w", ErrMigrationFailed, err)
		}
	}

	working.Version = CurrentVersion
	return working, nil
}

func versionState(v uint16) string {
	return fmt.Sprintf("v%d", v)
}

// buildMigrationMachine wires the version ladder. The only step today is
// v0 -> v1, and it changes nothing; each step mutates target in place so
// the machine's Action closures can stay simple idempotent field rewrites,
// matching migration.c's shape.
func buildMigrationMachine(target *Root) (*fsm.Machine, error) {
	return fsm.NewMigrationBuilder("configstore").
		WithStep(versionState(0), versionState(1), func(ctx context.Context, from, to string) error {
			// v0 -> v1: no structural change yet; reserved for the first
			// real schema bump. Left as an explicit no-op step so the
			// ladder shape (and its idempotency requirement) is in place
			// before it is ever needed.
			return nil
		}).
		Build()
}
