package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultOllamaBaseURL is where a local Ollama listens.
	DefaultOllamaBaseURL = "http://localhost:11434"
	// DefaultOllamaModel is the model to use.
	DefaultOllamaModel = "llama3.1:8b"
	// ollamaTimeout is generous because local models on CPU are slow.
	ollamaTimeout = 600 * time.Second
)

// OllamaClient talks to the Ollama generate endpoint.
type OllamaClient struct {
	model      string
	httpClient *http.Client
	endpoint   string
}

// NewOllamaClient creates a new Ollama client.
func NewOllamaClient(baseURL, model string) (client *OllamaClient) {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	client = &OllamaClient{
		model:    model,
		endpoint: strings.TrimRight(baseURL, "/") + "/api/generate",
		httpClient: &http.Client{
			Timeout: ollamaTimeout,
		},
	}
	return client
}

// Complete sends one non-streaming generate request.
func (c *OllamaClient) Complete(ctx context.Context, prompt string, temperature float64) (responseText string, err error) {
	ollamaReq := OllamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: OllamaOptions{
			Temperature: temperature,
		},
	}

	var reqBody []byte
	reqBody, err = json.Marshal(ollamaReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return responseText, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return responseText, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return responseText, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return responseText, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("model request failed with status %d: %s", resp.StatusCode, string(respBody))
		return responseText, err
	}

	var ollamaResp OllamaResponse
	err = json.Unmarshal(respBody, &ollamaResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse Ollama response: %s", string(respBody))
		return responseText, err
	}

	if ollamaResp.Error != "" {
		err = errors.Errorf("ollama error: %s", ollamaResp.Error)
		return responseText, err
	}

	responseText = ollamaResp.Response

	return responseText, err
}
