package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolgate/internal/domain"
	"toolgate/internal/infra/catalog"
)

const cliVersion = "0.1.0"

func newIngestCmd(opts *cliOptions) *cobra.Command {
	var (
		output          string
		topK            int
		maxSearchRounds int
		alwaysAvailable []string
	)

	cmd := &cobra.Command{
		Use:   "ingest -- <command> [args...]",
		Short: "Pull the tool list from a stdio MCP server into a catalog file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			server := exec.CommandContext(ctx, args[0], args[1:]...)
			server.Env = os.Environ()
			server.Stderr = os.Stderr

			client := mcp.NewClient(&mcp.Implementation{Name: "toolgate", Version: cliVersion}, nil)
			session, err := client.Connect(ctx, &mcp.CommandTransport{Command: server}, nil)
			if err != nil {
				return fmt.Errorf("connect mcp server: %w", err)
			}
			defer session.Close()

			tools, err := catalog.Ingest(ctx, session)
			if err != nil {
				return err
			}
			if len(tools) == 0 {
				return errors.New("server exposed no tools")
			}
			opts.logger.Info("ingested tools",
				zap.Int("count", len(tools)),
				zap.String("server", args[0]),
			)

			cat := domain.Catalog{
				Tools: tools,
				Options: domain.Options{
					TopK:            topK,
					AlwaysAvailable: alwaysAvailable,
					MaxSearchRounds: maxSearchRounds,
				},
			}
			if output == "" {
				data, err := catalog.Marshal(cat)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := catalog.Save(output, cat); err != nil {
				return err
			}
			fmt.Printf("wrote %d tools to %s\n", len(tools), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "catalog file to write (stdout when omitted)")
	cmd.Flags().IntVar(&topK, "top-k", domain.DefaultTopK, "topK to record in the catalog")
	cmd.Flags().IntVar(&maxSearchRounds, "max-search-rounds", domain.DefaultMaxSearchRounds, "maxSearchRounds to record in the catalog")
	cmd.Flags().StringArrayVar(&alwaysAvailable, "always-available", nil, "tool name to mark always-available (repeatable)")
	return cmd
}
