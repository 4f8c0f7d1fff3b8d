package memory

import (
	"context"
	"hash/fnv"
	"log"
	"strings"

	"penny-wise/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"gonum.org/v1/gonum/floats"
)

// Embedder turns a stage summary into the fixed-length vector the
// memory store indexes.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HashEmbedder is a deterministic bag-of-tokens embedder: each token is
// FNV-hashed into one of the 384 buckets and the result is L2
// normalized. It needs no network and always succeeds, which makes it
// the terminal fallback of the embedding chain.
type HashEmbedder struct{}

func NewHashEmbedder() HashEmbedder { return HashEmbedder{} }

func (HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float64, domain.EmbeddingDim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		bucket := int(h.Sum32() % uint32(domain.EmbeddingDim))
		vec[bucket]++
	}

	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}

	out := make([]float32, domain.EmbeddingDim)
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out, nil
}

// EmbeddingClient abstracts the OpenAI embeddings API.
type EmbeddingClient interface {
	CreateEmbedding(ctx context.Context, params openai.EmbeddingNewParams) (*openai.CreateEmbeddingResponse, error)
}

// OpenAIEmbedder asks the embeddings API for a vector sized to the
// store's dimension, degrading to the hash embedder on any failure.
type OpenAIEmbedder struct {
	client   EmbeddingClient
	fallback HashEmbedder
}

func NewOpenAIEmbedder(client EmbeddingClient) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client}
}

func NewOpenAIEmbeddingClient(apiKey string) EmbeddingClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &embeddingClient{client: client}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbedding(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModelTextEmbedding3Small,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Dimensions: openai.Int(domain.EmbeddingDim),
	})
	if err != nil || len(resp.Data) == 0 {
		log.Printf("openai embedding unavailable, using hash embedding: %v", err)
		return e.fallback.Embed(ctx, text)
	}

	raw := resp.Data[0].Embedding
	if len(raw) != domain.EmbeddingDim {
		log.Printf("openai embedding has %d dims, using hash embedding", len(raw))
		return e.fallback.Embed(ctx, text)
	}

	out := make([]float32, domain.EmbeddingDim)
	for i, v := range raw {
		out[i] = float32(v)
	}
	return out, nil
}

type embeddingClient struct {
	client openai.Client
}

func (c *embeddingClient) CreateEmbedding(ctx context.Context, params openai.EmbeddingNewParams) (*openai.CreateEmbeddingResponse, error) {
	return c.client.Embeddings.New(ctx, params)
}
