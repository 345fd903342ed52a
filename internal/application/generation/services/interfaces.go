package services

import "context"

// SynthesisRequest carries the prompt and parameters to the image provider.
type SynthesisRequest struct {
	Prompt string
	Model  string
	Size   string
}

// SynthesisResult is the provider's output. The image URL is temporary and
// must be copied into the asset store before the record completes.
type SynthesisResult struct {
	ImageURL   string
	ProviderID string
}

// Synthesizer is the image synthesis collaborator.
type Synthesizer interface {
	Generate(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
}

// AssetStore persists generated images under a permanent reference.
type AssetStore interface {
	// StoreFromURL fetches sourceURL and stores it under key, returning the
	// permanent public URL.
	StoreFromURL(ctx context.Context, sourceURL, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
