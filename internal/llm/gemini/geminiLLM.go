package gemini

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"

	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/llm"
	"github.com/adforge/briefapi/pkg/logger_i"
)

type structuredClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *structuredClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.StructuredClient {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return
	}
	geminiClient = &structuredClient{client: c, modelName: modelName}
	logger.Info("Gemini client created", "model", modelName)
	go closeClient(ctx, geminiClient)
}

func (c *structuredClient) CompleteJSON(ctx context.Context, system string, user string) (string, error) {
	systemInstruction := &genai.Content{
		Parts: []*genai.Part{
			{Text: system},
		},
	}

	temperature := config.ModelTemperature
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(user),
		contentConfig,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", errors.New("empty gemini response")
	}
	return result.Text(), nil
}

func closeClient(ctx context.Context, c *structuredClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	c.client = nil
	c.modelName = ""
}
