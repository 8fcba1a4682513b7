package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verscope/verscope/internal/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage loaded sync job configs",
}

var configAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Load sync job config files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var failed int
		for _, arg := range args {
			path, err := utils.ResolvePath(arg)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", arg, err)
				failed++
				continue
			}
			if err := a.AddSyncConfig(path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", path)
		}
		if failed == len(args) {
			return fmt.Errorf("no configs loaded")
		}
		return nil
	},
}

var configRemoveCmd = &cobra.Command{
	Use:   "remove <file>",
	Short: "Unload a sync job config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := utils.ResolvePath(args[0])
		if err != nil {
			return err
		}
		return a.RemoveSyncConfig(path)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show loaded configs and their folder pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		pairs := a.Registry.Pairs()
		if len(pairs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no sync configs loaded")
			return nil
		}
		for _, p := range pairs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n  left:       %s\n  right:      %s\n  versioning: %s\n  config:     %s\n",
				p.Name, p.LeftPath, p.RightPath, p.VersioningFolder, p.ConfigPath)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configAddCmd, configRemoveCmd, configListCmd)
}
