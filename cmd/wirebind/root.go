package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/wirebind/dsl"
	"github.com/reoring/wirebind/internal/config"
	"github.com/reoring/wirebind/internal/logging"
	"github.com/reoring/wirebind/schemafile"
)

type cfgKey struct{}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wirebind",
		Short:         "Bind wire payloads to records declared in schema files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			level, _ := logging.ParseLevel(cfg.Log.Level)
			logger, err := logging.New(level, cfg.Log.Format, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), logger)
			cmd.SetContext(context.WithValue(ctx, cfgKey{}, cfg))
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ./"+config.FileName+")")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("schema", "", "schema file declaring the records")

	root.AddCommand(newBindCmd(), newPresentCmd(), newSchemaCmd(), newAuthorizeURLCmd(), newServeCmd())
	return root
}

func configFrom(cmd *cobra.Command) *config.Config {
	cfg, _ := cmd.Context().Value(cfgKey{}).(*config.Config)
	return cfg
}

// loadRecord resolves the named record from the configured schema file.
func loadRecord(cmd *cobra.Command, name string) (*dsl.RecordBinding, error) {
	cfg := configFrom(cmd)
	if cfg == nil || cfg.Schema == "" {
		return nil, fmt.Errorf("no schema file: pass --schema or set schema in the config")
	}
	set, err := schemafile.Load(cfg.Schema)
	if err != nil {
		return nil, err
	}
	if name == "" {
		names := set.Names()
		if len(names) != 1 {
			return nil, fmt.Errorf("schema declares %d records; choose one with --record", len(names))
		}
		name = names[0]
	}
	rec, ok := set.Record(name)
	if !ok {
		return nil, fmt.Errorf("record %q not declared in %s", name, cfg.Schema)
	}
	logging.FromContext(cmd.Context()).Debug("loaded record", "record", name, "schema", cfg.Schema)
	return rec, nil
}
