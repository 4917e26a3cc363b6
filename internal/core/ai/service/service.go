package service

import (
	"context"

	"perfume-pal/internal/core/ai/cache"
	"perfume-pal/internal/core/ai/gemini"
	"perfume-pal/internal/infrastructure/config"
)

// Service fronts the generative backend with a response cache. It is the
// single entry point the blend pipeline uses for completions.
type Service struct {
	config       *config.Config
	client       *gemini.Client
	cacheManager *cache.Manager
}

// NewService creates the AI service.
func NewService(cfg *config.Config, cacheManager *cache.Manager) *Service {
	return &Service{
		config:       cfg,
		client:       gemini.NewClient(cfg),
		cacheManager: cacheManager,
	}
}

// ProcessRequest returns a completion for prompt, consulting the cache first.
func (s *Service) ProcessRequest(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, prompt); err == nil && val != "" {
			return val, nil
		}
	}

	content, err := s.client.GenerateContent(ctx, prompt, maxTokens)
	if err != nil {
		return "", err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, prompt, content)
	}

	return content, nil
}

// Close releases backend resources.
func (s *Service) Close() error {
	return s.client.Close()
}
