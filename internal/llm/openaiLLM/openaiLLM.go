package openaiLLM

import (
	"context"
	"errors"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/customHttpClient"
	"github.com/adforge/briefapi/internal/llm"
	"github.com/adforge/briefapi/pkg/logger_i"
)

type structuredClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *structuredClient
var once sync.Once

// GetOpenAIClient is the alternate structured-output provider, selected
// with LLM_PROVIDER=openai. Calls share the pooled transport.
func GetOpenAIClient(modelName string, apikey string) llm.StructuredClient {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OpenAI API key missing")
			return
		}
		openaiClient = &structuredClient{
			client: openai.NewClient(
				option.WithAPIKey(apikey),
				option.WithHTTPClient(customHttpClient.PooledClient()),
			),
			modelName: modelName,
		}
		logger.Info("OpenAI client created", "model", modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func (c *structuredClient) CompleteJSON(ctx context.Context, system string, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty openai response")
	}
	return resp.Choices[0].Message.Content, nil
}
