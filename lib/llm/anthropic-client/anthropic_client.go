package anthropicclient

import (
	"context"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

const maxTokens = 2048

type Client struct {
	client anthropic.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		client: anthropic.NewClient(anthropicopt.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *Client) Name() string {
	return "anthropic/" + c.model
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	rsp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic messages")
	}
	var b strings.Builder
	for _, content := range rsp.Content {
		if text, ok := content.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no response from Anthropic")
	}
	return b.String(), nil
}
