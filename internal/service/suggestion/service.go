package suggestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/llm"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/pkg/validation"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrInvalidOutput = errors.New("model returned an invalid suggestion")

// ApprovalHistorySource supplies historical outcomes when the caller sends none.
type ApprovalHistorySource interface {
	ApprovalHistory() []models.ApprovalHistoryRecord
}

type Service struct {
	model     llm.GenerateAPI
	cache     interfaces.RedisStoreOperations
	validator *validation.Validator
	history   ApprovalHistorySource
	ttl       time.Duration
}

// NewService builds the suggestion flow. cache and history may be nil.
func NewService(
	model llm.GenerateAPI,
	cache interfaces.RedisStoreOperations,
	validator *validation.Validator,
	history ApprovalHistorySource,
	ttl time.Duration,
) *Service {
	return &Service{
		model:     model,
		cache:     cache,
		validator: validator,
		history:   history,
		ttl:       ttl,
	}
}

// Suggest validates the input, fills in the approval history from the store
// when it is empty, and asks the model for a validated suggestion. Results are
// cached by input hash.
func (s *Service) Suggest(ctx context.Context, input models.SuggestionInput) (models.SuggestionOutput, error) {
	if input.ApprovalHistoryData == "" && s.history != nil {
		data, err := json.Marshal(s.history.ApprovalHistory())
		if err != nil {
			return models.SuggestionOutput{}, fmt.Errorf("encode approval history: %w", err)
		}
		input.ApprovalHistoryData = string(data)
	}
	if err := s.validator.ValidateSuggestionInput(input); err != nil {
		return models.SuggestionOutput{}, err
	}

	key := CacheKey(input)
	if out, ok := s.cached(ctx, key); ok {
		return out, nil
	}

	prompt, err := RenderPrompt(input)
	if err != nil {
		return models.SuggestionOutput{}, fmt.Errorf("render prompt: %w", err)
	}

	raw, err := s.model.GenerateJSON(ctx, prompt)
	if err != nil {
		logger.CtxError(ctx, log_messages.SuggestionRequestFailed, err)
		return models.SuggestionOutput{}, fmt.Errorf("generate suggestion: %w", err)
	}

	var out models.SuggestionOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.CtxWarn(ctx, log_messages.SuggestionInvalidOutput, zap.Error(err))
		return models.SuggestionOutput{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if err := s.validator.ValidateSuggestionOutput(out); err != nil {
		logger.CtxWarn(ctx, log_messages.SuggestionInvalidOutput, zap.Error(err))
		return models.SuggestionOutput{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	s.store(ctx, key, out)
	return out, nil
}

func (s *Service) cached(ctx context.Context, key string) (models.SuggestionOutput, bool) {
	var out models.SuggestionOutput
	if s.cache == nil {
		return out, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.CtxWarn(ctx, "Suggestion cache read failed", zap.Error(err))
		}
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	logger.CtxDebug(ctx, log_messages.SuggestionCacheHit, zap.String("key", key))
	return out, true
}

func (s *Service) store(ctx context.Context, key string, out models.SuggestionOutput) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		logger.CtxWarn(ctx, log_messages.SuggestionCacheWriteFail, zap.Error(err))
	}
}

// CacheKey hashes both inputs under the suggestion key prefix.
func CacheKey(input models.SuggestionInput) string {
	h := sha256.New()
	h.Write([]byte(input.ApplicantData))
	h.Write([]byte{0})
	h.Write([]byte(input.ApprovalHistoryData))
	return consts.SuggestionCacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
