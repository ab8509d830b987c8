package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	wirebind "github.com/reoring/wirebind"
	"github.com/reoring/wirebind/source"
)

var errInvalid = errors.New("payload is invalid")

func newBindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind [file]",
		Short: "Validate a wire payload and print its internal form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadRecord(cmd, flagString(cmd, "record"))
			if err != nil {
				return err
			}
			v, err := readPayload(cmd, args)
			if err != nil {
				return err
			}
			ctx := wirebind.WithFailFast(cmd.Context(), flagBool(cmd, "fail-fast"))
			var out any
			if flagBool(cmd, "many") {
				out, err = rec.BindMany(ctx, v)
			} else {
				out, err = rec.Bind(ctx, v)
			}
			if err != nil {
				return reportIssues(cmd, err)
			}
			return writeOut(cmd, out)
		},
	}
	payloadFlags(cmd)
	cmd.Flags().Bool("fail-fast", false, "stop at the first failure")
	return cmd
}

func newPresentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "present [file]",
		Short: "Render an internal record as its wire payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadRecord(cmd, flagString(cmd, "record"))
			if err != nil {
				return err
			}
			v, err := readPayload(cmd, args)
			if err != nil {
				return err
			}
			if flagBool(cmd, "many") {
				items, ok := v.([]any)
				if !ok {
					return fmt.Errorf("--many expects an array")
				}
				recs := make([]map[string]any, 0, len(items))
				for i, it := range items {
					m, ok := it.(map[string]any)
					if !ok {
						return fmt.Errorf("item %d is not an object", i)
					}
					recs = append(recs, m)
				}
				return writeOut(cmd, rec.PresentMany(cmd.Context(), recs))
			}
			m, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("expected an object")
			}
			return writeOut(cmd, rec.Present(cmd.Context(), m))
		},
	}
	payloadFlags(cmd)
	return cmd
}

func payloadFlags(cmd *cobra.Command) {
	cmd.Flags().String("record", "", "record to use (optional when the schema declares one)")
	cmd.Flags().Bool("many", false, "treat the payload as a list of records")
	cmd.Flags().Bool("yaml", false, "read the payload as YAML")
	cmd.Flags().Bool("indent", true, "indent the JSON output")
}

// readPayload reads args[0], or stdin when no file or "-" is given.
func readPayload(cmd *cobra.Command, args []string) (any, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if flagBool(cmd, "yaml") || (len(args) == 1 && (strings.HasSuffix(args[0], ".yaml") || strings.HasSuffix(args[0], ".yml"))) {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return source.YAML(b)
	}
	return source.JSONReader(r)
}

func writeOut(cmd *cobra.Command, v any) error {
	b, err := source.MarshalJSON(v, flagBool(cmd, "indent"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

// reportIssues prints the flattened issues and fails the command.
func reportIssues(cmd *cobra.Command, err error) error {
	iss, ok := wirebind.AsIssues(err)
	if !ok {
		return err
	}
	w := cmd.ErrOrStderr()
	for _, it := range iss {
		fmt.Fprintf(w, "%s\t%s\t%s\n", it.Path, it.Code, it.Message)
	}
	return fmt.Errorf("%w: %s", errInvalid, wirebind.KindOf(err))
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
