package ollamaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"hr-agent-backend/lib/utils/lock"
	ollamamodels "hr-agent-backend/models/api/ollama"
)

// Client talks to a local Ollama server. Only one generation runs at a time since the model
// shares the host CPU and memory with the service.
type Client struct {
	url        string
	model      string
	httpClient *http.Client
}

func NewClient(url, model string) (*Client, error) {
	if url == "" {
		return nil, errors.New("ollama url is not set")
	}
	if model == "" {
		return nil, errors.New("ollama model is not set")
	}
	return &Client{url: url, model: model, httpClient: http.DefaultClient}, nil
}

func (c *Client) Name() string {
	return "ollama/" + c.model
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !lock.Resource.Acquire(ctx, "ollama") {
		return "", errors.New("ollama is busy and the request was cancelled")
	}
	defer lock.Resource.Release("ollama")

	jsonData, err := json.Marshal(ollamamodels.OllamaRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: ollamamodels.DefaultOptions(),
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ollama request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("ollama API error: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var ollamaResponse ollamamodels.OllamaResponse
	if err = json.Unmarshal(body, &ollamaResponse); err != nil {
		return "", errors.Wrap(err, "ollama response decode")
	}
	return ollamaResponse.Response, nil
}
