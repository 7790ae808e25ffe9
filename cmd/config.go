// =============================================================================
// Inventory Message Parser - Config Command
// =============================================================================
//
// This file defines the 'config' command group for managing the vocabulary
// file without opening an editor:
//
//   invparse config init                          - Write a starter vocabulary
//   invparse config alias <alias> <target>        - Record an alias
//   invparse config convert <item> <container> <factor>
//                                                 - Record a unit conversion
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"inventory-parser/internal/config"
	"inventory-parser/internal/parser"
)

// =============================================================================
// CONFIG COMMAND GROUP
// =============================================================================

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the vocabulary configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// INIT SUBCOMMAND
// =============================================================================

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter vocabulary file",
	Long: `Write a minimal English starter vocabulary to the --config path.
Refuses to overwrite an existing file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", cfgFile)
		}
		if err := config.Save(config.StarterConfig(), cfgFile); err != nil {
			return err
		}
		fmt.Printf("Starter vocabulary written to %s\n", cfgFile)
		return nil
	},
}

// =============================================================================
// ALIAS SUBCOMMAND
// =============================================================================

var configAliasCmd = &cobra.Command{
	Use:   "alias <alias> <target>",
	Short: "Record an alias for an item, location, or transaction type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		alias, target := args[0], args[1]

		// The target may itself be shorthand; resolve it against the whole
		// vocabulary before saving.
		entities := append([]string{}, cfg.Items...)
		entities = append(entities, cfg.LocationsWithSource()...)
		entities = append(entities, cfg.TransactionTypes...)
		if resolved, kind := parser.Resolve(target, entities, cfg.Aliases, parser.ResolveOptions{
			NormalizeSeparators: true,
			TryPlural:           true,
			TryPrefix:           true,
		}); resolved != "" {
			if verbose && resolved != target {
				fmt.Fprintf(os.Stderr, "resolved %q to %q (%s)\n", target, resolved, kind)
			}
			target = resolved
		}

		cfg.AddAlias(alias, target)
		if err := config.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("Saved alias %q -> %q\n", alias, target)
		return nil
	},
}

// =============================================================================
// CONVERT SUBCOMMAND
// =============================================================================

var configConvertCmd = &cobra.Command{
	Use:   "convert <item> <container> <factor>",
	Short: "Record a container conversion factor for an item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		item, container := args[0], args[1]
		factor, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid factor %q: %w", args[2], err)
		}

		if resolved, _ := parser.Resolve(item, cfg.Items, cfg.Aliases, parser.ResolveOptions{
			TryPlural: true,
			TryPrefix: true,
		}); resolved != "" {
			item = resolved
		}

		cfg.AddConversion(item, container, factor)
		if err := config.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("Saved conversion: 1 %s of %s = %g\n", container, item, factor)
		return nil
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configAliasCmd)
	configCmd.AddCommand(configConvertCmd)
	rootCmd.AddCommand(configCmd)
}
