package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const classifySystemPrompt = "你是一个专业的文件分类助手，擅长根据文件名判断文件的分类。你必须严格按照用户要求的JSON格式返回结果，不要添加任何额外的文字说明。"

// OpenAIClient talks to any OpenAI-compatible endpoint (OpenAI, DashScope,
// DeepSeek, Ollama). Chat and embeddings may point at different servers,
// since embedding models are often served locally.
type OpenAIClient struct {
	client         *openai.Client
	embedClient    *openai.Client
	model          string
	embeddingModel string
	temperature    float32
	maxTokens      int
}

func NewOpenAIClient(apiKey, model, embeddingModel, baseURL, embeddingBaseURL string, temperature float32, maxTokens int) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)

	embedClient := client
	if embeddingBaseURL != "" && embeddingBaseURL != baseURL {
		embedConfig := openai.DefaultConfig(apiKey)
		embedConfig.BaseURL = embeddingBaseURL
		embedClient = openai.NewClientWithConfig(embedConfig)
	}

	return &OpenAIClient{
		client:         client,
		embedClient:    embedClient,
		model:          model,
		embeddingModel: embeddingModel,
		temperature:    temperature,
		maxTokens:      maxTokens,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: classifySystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("no response choices")
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embeddingModel),
	}
	resp, err := c.embedClient.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) > 0 {
		return resp.Data[0].Embedding, nil
	}
	return nil, fmt.Errorf("no embedding data")
}
