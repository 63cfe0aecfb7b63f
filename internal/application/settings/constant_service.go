package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/settings"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
)

// ConstantService manages store-wide configuration constants.
// The full constant map is cached because the storefront fetches it on
// every checkout to price the cart.
type ConstantService struct {
	constants settings.ConstantRepository
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewConstantService creates a new ConstantService
func NewConstantService(constants settings.ConstantRepository, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *ConstantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstantService{
		constants: constants,
		cache:     c,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// All returns every constant as a key to value map
func (s *ConstantService) All(ctx context.Context) (map[string]string, error) {
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, cache.KeyConstants); err == nil && ok {
			var m map[string]string
			if json.Unmarshal([]byte(cached), &m) == nil {
				return m, nil
			}
		}
	}

	m, err := s.constants.FindAllAsMap(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(m); err == nil {
			if err := s.cache.Set(ctx, cache.KeyConstants, string(encoded), s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache constants", zap.Error(err))
			}
		}
	}

	return m, nil
}

// List returns all constants with their descriptions for the admin view
func (s *ConstantService) List(ctx context.Context) ([]ConstantResponse, error) {
	constants, err := s.constants.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := make([]ConstantResponse, 0, len(constants))
	for i := range constants {
		responses = append(responses, toConstantResponse(&constants[i]))
	}
	return responses, nil
}

// Get returns a single constant by key
func (s *ConstantService) Get(ctx context.Context, key string) (*ConstantResponse, error) {
	constant, err := s.constants.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := toConstantResponse(constant)
	return &resp, nil
}

// Upsert creates or updates a constant and invalidates the cached map
func (s *ConstantService) Upsert(ctx context.Context, req UpsertConstantRequest) (*ConstantResponse, error) {
	constant, err := s.constants.FindByKey(ctx, req.Key)
	switch {
	case err == nil:
		constant.SetValue(req.Value)
		if req.Description != "" {
			constant.Description = req.Description
		}
	case errors.Is(err, shared.ErrNotFound):
		constant, err = settings.NewConstant(req.Key, req.Value, req.Description)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.constants.Save(ctx, constant); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := toConstantResponse(constant)
	return &resp, nil
}

// Delete removes a constant by key and invalidates the cached map
func (s *ConstantService) Delete(ctx context.Context, key string) error {
	if err := s.constants.DeleteByKey(ctx, key); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// PricingRules resolves the pricing parameters from stored constants.
// Missing or malformed values fall back to the defaults so checkout
// never fails on configuration.
func (s *ConstantService) PricingRules(ctx context.Context) pricing.Rules {
	rules := pricing.DefaultRules()

	m, err := s.All(ctx)
	if err != nil {
		s.logger.Warn("falling back to default pricing rules", zap.Error(err))
		return rules
	}

	if v, ok := m[settings.KeyTaxRate]; ok {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			rules.TaxRate = d
		}
	}
	if v, ok := m[settings.KeyShippingFee]; ok {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			rules.ShippingFee = d
		}
	}
	if v, ok := m[settings.KeyFreeShippingThreshold]; ok {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			rules.FreeShippingThreshold = d
		}
	}

	return rules
}

func (s *ConstantService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.KeyConstants); err != nil {
		s.logger.Warn("failed to invalidate constants cache", zap.Error(err))
	}
}

func toConstantResponse(c *settings.Constant) ConstantResponse {
	return ConstantResponse{
		Key:         c.Key,
		Value:       c.Value,
		Description: c.Description,
		UpdatedAt:   c.UpdatedAt,
	}
}
