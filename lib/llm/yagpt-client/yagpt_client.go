package yagptclient

import (
	"context"

	"github.com/pkg/errors"
	yandexgptclient "github.com/sheeiavellie/go-yandexgpt"
)

const systemPrompt = "You are an HR assistant. Follow the requested output format exactly."

type Client struct {
	client    *yandexgptclient.YandexGPTClient
	catalogID string
}

func NewClient(token, catalog string) *Client {
	return &Client{
		client:    yandexgptclient.NewYandexGPTClientWithIAMToken(token),
		catalogID: catalog,
	}
}

func (c *Client) Name() string {
	return "yandexgpt"
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	request := yandexgptclient.YandexGPTRequest{
		ModelURI: yandexgptclient.MakeModelURI(c.catalogID, yandexgptclient.YandexGPTModelLite),
		CompletionOptions: yandexgptclient.YandexGPTCompletionOptions{
			Stream:      false,
			Temperature: 0.3,
			MaxTokens:   2000,
		},
		Messages: []yandexgptclient.YandexGPTMessage{
			{Role: yandexgptclient.YandexGPTMessageRoleSystem, Text: systemPrompt},
			{Role: yandexgptclient.YandexGPTMessageRoleUser, Text: prompt},
		},
	}
	response, err := c.client.CreateRequest(ctx, request)
	if err != nil {
		return "", errors.Wrap(err, "yandexgpt request")
	}
	if len(response.Result.Alternatives) == 0 {
		return "", errors.New("no response from YandexGPT")
	}
	return response.Result.Alternatives[0].Message.Text, nil
}
