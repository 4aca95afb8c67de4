package openaiclient

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	return &Client{client: openai.NewClient(apiKey), model: model}
}

func (c *Client) Name() string {
	return "openai/" + c.model
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	rsp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion")
	}
	if len(rsp.Choices) == 0 || rsp.Choices[0].Message.Content == "" {
		return "", errors.New("no response from OpenAI")
	}
	return rsp.Choices[0].Message.Content, nil
}
