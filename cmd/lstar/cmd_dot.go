package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gbossert/pylstar/pkg/mealyfile"
)

func newDotCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "dot <machine.json>",
		Short: "Render a learned machine's JSON snapshot as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, err := mealyfile.Unmarshal(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			fmt.Println(mealyfile.DOT(m, title))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "graph title")
	return cmd
}
