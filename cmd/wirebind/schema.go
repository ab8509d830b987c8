package main

import (
	"fmt"

	"github.com/spf13/cobra"

	wirebind "github.com/reoring/wirebind"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a record's wire shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadRecord(cmd, flagString(cmd, "record"))
			if err != nil {
				return err
			}
			var p wirebind.Projector = rec
			if flagBool(cmd, "many") {
				lp, ok := rec.Many().(wirebind.Projector)
				if !ok {
					return fmt.Errorf("list binding of %q has no JSON Schema", flagString(cmd, "record"))
				}
				p = lp
			}
			s, err := p.JSONSchema()
			if err != nil {
				return err
			}
			return writeOut(cmd, s)
		},
	}
	cmd.Flags().String("record", "", "record to describe")
	cmd.Flags().Bool("many", false, "describe a list of records")
	cmd.Flags().Bool("indent", true, "indent the JSON output")
	return cmd
}
