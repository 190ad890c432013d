package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toolgate/internal/infra/catalog"
	"toolgate/internal/infra/index"
)

func newValidateCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a catalog file loads and indexes cleanly",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.NewLoader(opts.logger).Load(opts.catalogPath)
			if err != nil {
				return err
			}
			idx, err := index.New(cat.Tools)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"path":            opts.catalogPath,
					"tools":           idx.Len(),
					"topK":            cat.Options.TopK,
					"alwaysAvailable": cat.Options.AlwaysAvailable,
					"maxSearchRounds": cat.Options.MaxSearchRounds,
				})
			}
			fmt.Printf("%s: ok (%d tools, topK=%d, maxSearchRounds=%d)\n",
				opts.catalogPath, idx.Len(), cat.Options.TopK, cat.Options.MaxSearchRounds)
			return nil
		},
	}
	return cmd
}
