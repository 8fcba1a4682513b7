package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var remarkCmd = &cobra.Command{
	Use:   "remark",
	Short: "Read and write file annotations",
}

var remarkGetCmd = &cobra.Command{
	Use:   "get <file>",
	Short: "Print the remark attached to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(cmd.OutOrStdout(), a.Remarks.Get(args[0]))
		return nil
	},
}

var remarkSetCmd = &cobra.Command{
	Use:   "set <file> <text>",
	Short: "Attach a remark to a file (empty text deletes it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.Remarks.Set(args[0], args[1]) {
			return fmt.Errorf("failed to store remark for %s", args[0])
		}
		return nil
	},
}

var remarkDeleteCmd = &cobra.Command{
	Use:   "delete <file>",
	Short: "Remove the remark attached to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.Remarks.Delete(args[0]) {
			fmt.Fprintln(cmd.OutOrStdout(), "no remark found")
		}
		return nil
	},
}

func init() {
	remarkCmd.AddCommand(remarkGetCmd, remarkSetCmd, remarkDeleteCmd)
}
