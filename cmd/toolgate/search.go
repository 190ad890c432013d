package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"toolgate/internal/domain"
	"toolgate/internal/infra/catalog"
	"toolgate/internal/infra/index"
)

func newSearchCmd(opts *cliOptions) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank catalog tools against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			cat, err := catalog.NewLoader(opts.logger).Load(opts.catalogPath)
			if err != nil {
				return err
			}
			if topK < 1 {
				topK = cat.Options.TopK
			}

			idx, err := index.New(cat.Tools)
			if err != nil {
				return err
			}
			names := idx.Search(query, topK)
			matches, err := idx.Tools(names)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(matches)
			}
			if len(matches) == 0 {
				fmt.Println("no matching tools")
				return nil
			}
			for _, tool := range matches {
				printTool(tool)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 0, "maximum number of results (defaults to the catalog's topK)")
	return cmd
}

func printTool(tool domain.ToolDefinition) {
	if tool.Description == "" {
		fmt.Println(tool.Name)
		return
	}
	desc := tool.Description
	if idx := strings.IndexByte(desc, '\n'); idx >= 0 {
		desc = desc[:idx]
	}
	fmt.Printf("%s\t%s\n", tool.Name, desc)
}
