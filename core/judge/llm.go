package judge

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/siherrmann/checkmate/helper"
)

// CompletionOptions control a single model completion
type CompletionOptions struct {
	Temperature   float64
	MaxTokens     int64
	SystemMessage string
}

// CompleteFunc is a function that generates a model completion for a prompt
type CompleteFunc func(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

// AnthropicCompleter creates a completer backed by the Anthropic API
func AnthropicCompleter(apiKey string, model string) (CompleteFunc, error) {
	if apiKey == "" {
		return nil, helper.NewError("completer validation", fmt.Errorf("api key is empty"))
	}
	if model == "" {
		return nil, helper.NewError("completer validation", fmt.Errorf("model is empty"))
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return func(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
		maxTokens := opts.MaxTokens
		if maxTokens <= 0 {
			maxTokens = 1000
		}

		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		}
		if opts.Temperature > 0 {
			params.Temperature = anthropic.Float(opts.Temperature)
		}
		if opts.SystemMessage != "" {
			params.System = []anthropic.TextBlockParam{{Text: opts.SystemMessage}}
		}

		message, err := client.Messages.New(ctx, params)
		if err != nil {
			return "", helper.NewError("anthropic completion", err)
		}
		if len(message.Content) == 0 {
			return "", helper.NewError("anthropic completion", fmt.Errorf("empty response content"))
		}

		return message.Content[0].Text, nil
	}, nil
}
