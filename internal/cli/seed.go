package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/widgetco/fulfillment/internal/seed"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
}

// NewSeedCommand creates the command that bootstraps the simulated world.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	return &cobra.Command{
		Use:   "seed",
		Short: "Bootstrap bills of materials, inventory, and the payroll roster",
		Long: `seed generates the simulated world from the profile: a bill of materials
for every product, starting inventory sized to the build target, and the
employee roster. Run it once against fresh databases; the bill of
materials is append-only and re-seeding rejects duplicate rows.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	ctx := cmd.Context()
	rt, cleanup, err := newRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	gen := seed.NewGenerator(rt.profile.Seed)

	entries := gen.BOMs()
	for _, entry := range entries {
		if _, err := rt.inventory.AddBOMEntry(ctx, entry); err != nil {
			return fmt.Errorf("seed bill of materials %s/%s: %w", entry.Product, entry.Part, err)
		}
	}

	levels := seed.InitialInventory(entries, rt.profile.BuildTargetUnits)
	for _, level := range levels {
		if err := rt.inventory.SetLevel(ctx, level); err != nil {
			return fmt.Errorf("seed inventory level %s: %w", level.Part, err)
		}
	}

	employees := gen.Employees(rt.profile.Employees)
	for _, employee := range employees {
		if _, err := rt.finance.AddEmployee(ctx, employee); err != nil {
			return fmt.Errorf("seed employee %s: %w", employee.Name, err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "seeded %d bill of materials entries across %d parts\n", len(entries), len(levels))
	fmt.Fprintf(out, "seeded inventory for a build target of %d units per product\n", rt.profile.BuildTargetUnits)
	fmt.Fprintf(out, "seeded %d employees\n", len(employees))
	return nil
}
