package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gbossert/pylstar/pkg/mealyfile"
	"github.com/gbossert/pylstar/pkg/mealygen"
)

func newCodegenCmd() *cobra.Command {
	var pkgName, typeName string
	cmd := &cobra.Command{
		Use:   "codegen <machine.json>",
		Short: "Generate standalone Go source replaying a learned machine",
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
			fmt.Println(mealygen.Go(m, pkgName, typeName))
			return nil
		},
	}
	cmd.Flags().StringVar(&pkgName, "package", "learned", "generated package name")
	cmd.Flags().StringVar(&typeName, "type", "Machine", "generated type name")
	return cmd
}
