package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gfmarinho/absence-messaging/internal/cache"
	"github.com/gfmarinho/absence-messaging/internal/repo"
)

// TemplateSource reads the current message template, going through the cache
// when one is configured. Cache trouble is never fatal; the config table is
// the source of truth.
type TemplateSource struct {
	repo  repo.TemplateRepository
	cache cache.TemplateCache // nil when redis is disabled
	log   zerolog.Logger
}

func NewTemplateSource(r repo.TemplateRepository, c cache.TemplateCache, log zerolog.Logger) *TemplateSource {
	return &TemplateSource{repo: r, cache: c, log: log}
}

func (s *TemplateSource) Current(ctx context.Context) (string, error) {
	if s.cache != nil {
		text, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("template cache read failed, falling back to store")
		} else if ok {
			return text, nil
		}
	}

	text, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, text); err != nil {
			s.log.Warn().Err(err).Msg("template cache write failed")
		}
	}
	return text, nil
}

func (s *TemplateSource) Update(ctx context.Context, text string) error {
	if err := s.repo.Update(ctx, text); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, text); err != nil {
			s.log.Warn().Err(err).Msg("template cache refresh failed after update")
		}
	}
	return nil
}
