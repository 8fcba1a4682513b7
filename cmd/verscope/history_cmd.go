package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verscope/verscope/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history <file>",
	Short: "List every known copy of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var items []*history.Item
		var matched bool
		if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
			items, matched = a.Refresh(args[0])
		} else {
			items, matched = a.History(args[0])
		}

		if !matched && len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no sync pair covers this file")
			return nil
		}

		for _, it := range items {
			remark := it.Remark(a.Remarks.Get)
			line := fmt.Sprintf("%-8s  %s  %8s  %s",
				it.Kind,
				it.ModTime.Format("2006-01-02 15:04:05"),
				humanize.Bytes(uint64(it.Size)),
				cyan(it.Path),
			)
			if remark != "" {
				line += "  # " + remark
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolP("refresh", "r", false, "bypass the cache and re-scan")
}
