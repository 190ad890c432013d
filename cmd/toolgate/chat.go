package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolgate/internal/infra/adapter/einochat"
	"toolgate/internal/infra/catalog"
	"toolgate/internal/infra/interceptor"
)

func newChatCmd(opts *cliOptions) *cobra.Command {
	var (
		modelName    string
		apiKey       string
		baseURL      string
		systemPrompt string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with tool search intercepted locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cat, err := catalog.NewLoader(opts.logger).Load(opts.catalogPath)
			if err != nil {
				return err
			}

			chatModel, err := buildChatModel(ctx, opts, modelName, apiKey, baseURL)
			if err != nil {
				return err
			}

			client, err := interceptor.New(
				einochat.NewAdapter(chatModel),
				cat.Tools,
				cat.Options,
				interceptor.WithLogger(opts.logger),
			)
			if err != nil {
				return err
			}

			sessionID := uuid.NewString()
			opts.logger.Info("chat session started",
				zap.String("session", sessionID),
				zap.Int("catalogTools", len(cat.Tools)),
			)

			var history []*schema.Message
			if systemPrompt != "" {
				history = append(history, schema.SystemMessage(systemPrompt))
			}

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					fmt.Print("> ")
					continue
				}
				if line == "/reset" {
					client.ResetDiscoveries()
					history = history[:0]
					if systemPrompt != "" {
						history = append(history, schema.SystemMessage(systemPrompt))
					}
					fmt.Print("> ")
					continue
				}

				history = append(history, schema.UserMessage(line))
				resp, err := client.Create(ctx, einochat.NewRequest(history...))
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					fmt.Fprintln(os.Stderr, err.Error())
					history = history[:len(history)-1]
					fmt.Print("> ")
					continue
				}
				history = append(history, resp)
				fmt.Println(resp.Content)
				fmt.Print("> ")
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&modelName, "model", "", "chat model name")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (falls back to settings file, then OPENAI_API_KEY)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible base URL")
	cmd.Flags().StringVar(&systemPrompt, "system", "", "system prompt")
	return cmd
}

func buildChatModel(ctx context.Context, opts *cliOptions, modelName, apiKey, baseURL string) (model.ToolCallingChatModel, error) {
	if modelName == "" {
		modelName = opts.settings.Model.Name
	}
	if modelName == "" {
		return nil, errors.New("model name is required: pass --model or set model.name in the settings file")
	}
	if apiKey == "" {
		apiKey = opts.settings.Model.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("API key is required: pass --api-key, set model.apiKey, or export OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = opts.settings.Model.BaseURL
	}
	switch opts.settings.Model.Provider {
	case "", "openai":
	default:
		return nil, fmt.Errorf("unsupported provider: %s", opts.settings.Model.Provider)
	}

	cfg := &einoopenai.ChatModelConfig{
		Model:  modelName,
		APIKey: apiKey,
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return einoopenai.NewChatModel(ctx, cfg)
}
