package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toolgate/internal/infra/catalog"
	"toolgate/internal/infra/index"
)

func newToolsCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools [name...]",
		Short: "List catalog tools, or resolve specific names",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.NewLoader(opts.logger).Load(opts.catalogPath)
			if err != nil {
				return err
			}

			tools := cat.Tools
			if len(args) > 0 {
				idx, err := index.New(cat.Tools)
				if err != nil {
					return err
				}
				tools, err = idx.Tools(args)
				if err != nil {
					return err
				}
			}

			if opts.jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(tools)
			}
			for _, tool := range tools {
				printTool(tool)
			}
			fmt.Printf("%d tools\n", len(tools))
			return nil
		},
	}
	return cmd
}
