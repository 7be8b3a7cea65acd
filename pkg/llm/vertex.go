package llm

import (
	"context"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/pkg/errors"
)

const (
	// DefaultVertexLocation is the region used when none is configured.
	DefaultVertexLocation = "us-central1"
	// DefaultVertexModel is the Gemini model used when none is configured.
	DefaultVertexModel = "gemini-1.5-flash"
)

// VertexClient completes prompts with Gemini on Vertex AI.
type VertexClient struct {
	client *genai.Client
	model  string
}

// NewVertexClient creates a Vertex AI client using application default credentials.
func NewVertexClient(ctx context.Context, project, location, model string) (client *VertexClient, err error) {
	if project == "" {
		err = errors.New("vertex project is required")
		return client, err
	}
	if location == "" {
		location = DefaultVertexLocation
	}
	if model == "" {
		model = DefaultVertexModel
	}

	var gc *genai.Client
	gc, err = genai.NewClient(ctx, project, location)
	if err != nil {
		err = errors.Wrap(err, "failed to create Vertex AI client")
		return client, err
	}

	client = &VertexClient{
		client: gc,
		model:  model,
	}

	return client, err
}

// Complete generates content at the given temperature and concatenates the text parts of the first candidate.
func (v *VertexClient) Complete(ctx context.Context, prompt string, temperature float64) (responseText string, err error) {
	// GenerativeModel carries its own config, so take a fresh one per call.
	model := v.client.GenerativeModel(v.model)
	model.SetTemperature(float32(temperature))
	model.SetMaxOutputTokens(4096)

	var resp *genai.GenerateContentResponse
	resp, err = model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		err = errors.Wrap(err, "failed to generate content")
		return responseText, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		err = errors.New("no response candidates returned")
		return responseText, err
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	responseText = sb.String()

	return responseText, err
}

// Close releases the underlying connection.
func (v *VertexClient) Close() (err error) {
	err = v.client.Close()
	return err
}
