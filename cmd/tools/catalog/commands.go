package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"airport-query-engine/internal/common/config"
	"airport-query-engine/internal/common/logger"
	"airport-query-engine/internal/engine/registry"
	"airport-query-engine/internal/engine/services"
	"airport-query-engine/internal/handlers/builtin"
	"airport-query-engine/internal/knowledge/memory"
	"airport-query-engine/pkg/catalog"
)

const defaultPath = "configs/intent-catalog.json"

// errDrift is returned by diff when the stored catalog is out of date.
var errDrift = errors.New("catalog differs from the built-in handlers")

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Export and check the intent catalog of the built-in handlers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newExportCommand(time.Now),
		newValidateCommand(),
		newDiffCommand(time.Now),
	)
	return root
}

func newExportCommand(now func() time.Time) *cobra.Command {
	var path, version string
	var stdout, asYAML bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the intent catalog of the built-in handlers",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildCatalog(version, now())
			if err != nil {
				return fmt.Errorf("build catalog: %w", err)
			}
			if stdout {
				data, err := catalog.Encode(c, asYAML)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := catalog.Save(path, c); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d intents to %s\n", len(c.Intents), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", defaultPath, "Output file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&version, "version", "1.0.0", "Catalog version")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print instead of writing a file")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print YAML with --stdout")
	return cmd
}

func newValidateCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog file for duplicates and orphan intents",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(path)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			errs := catalog.Validate(c)
			for _, e := range errs {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %v\n", e)
			}
			if len(errs) > 0 {
				return fmt.Errorf("catalog validation failed: %d problems", len(errs))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog validation passed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", defaultPath, "Catalog file to validate")
	return cmd
}

func newDiffCommand(now func() time.Time) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare a catalog file with the built-in handlers",
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := catalog.Load(path)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			current, err := buildCatalog(stored.Version, now())
			if err != nil {
				return fmt.Errorf("build catalog: %w", err)
			}
			if n := diff(cmd.OutOrStdout(), stored, current); n > 0 {
				return fmt.Errorf("%w: %d intents", errDrift, n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog is up to date.")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", defaultPath, "Catalog file to compare")
	return cmd
}

// buildCatalog registers every stock handler against empty in-memory stores
// so that each one constructs, then snapshots the resulting intent table.
func buildCatalog(version string, now time.Time) (*catalog.Catalog, error) {
	bundle, err := services.Locate(services.Defaults(), map[string]interface{}{
		services.KeyStands:      &memory.Stands{},
		services.KeyReference:   &memory.Reference{},
		services.KeyMaintenance: &memory.Maintenance{},
	})
	if err != nil {
		return nil, err
	}
	reg := registry.New(bundle, registry.DefaultOptions())
	if _, err := builtin.Register(reg, &config.Config{}, logger.NewNoOpLogger()); err != nil {
		return nil, err
	}
	reg.Seal()
	return catalog.Build(reg, version, now), nil
}

// diff prints the intents whose handlers differ and returns how many did.
func diff(w io.Writer, stored, current *catalog.Catalog) int {
	names := map[string]bool{}
	for _, in := range stored.Intents {
		names[in.Intent] = true
	}
	for _, in := range current.Intents {
		names[in.Intent] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	changed := 0
	for _, intent := range sorted {
		was, inStored := stored.Lookup(intent)
		now, inCurrent := current.Lookup(intent)
		switch {
		case !inStored:
			fmt.Fprintf(w, "+ %s %v\n", intent, now)
		case !inCurrent:
			fmt.Fprintf(w, "- %s %v\n", intent, was)
		case fmt.Sprint(was) != fmt.Sprint(now):
			fmt.Fprintf(w, "~ %s %v -> %v\n", intent, was, now)
		default:
			continue
		}
		changed++
	}
	return changed
}
