package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep running and reload sync configs when they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "watching sync configs, ctrl-c to stop")
		if err := a.Watch(cmd.Context()); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
