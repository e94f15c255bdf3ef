package app

import (
	"context"

	"github.com/tair/allergy-scan/config"
	"github.com/tair/allergy-scan/internal/allergen"
	cartstore "github.com/tair/allergy-scan/internal/cart/store"
	"github.com/tair/allergy-scan/internal/chat/assistant"
	"github.com/tair/allergy-scan/internal/health"
	historydomain "github.com/tair/allergy-scan/internal/history/domain"
	"github.com/tair/allergy-scan/internal/product/client"
	productdomain "github.com/tair/allergy-scan/internal/product/domain"
	productquery "github.com/tair/allergy-scan/internal/product/usecase/query"
	profilestore "github.com/tair/allergy-scan/internal/profile/store"
	"github.com/tair/allergy-scan/kafka"
	"github.com/tair/allergy-scan/pkg/auth"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/ratelimit"
)

// ProvideVocabulary loads the allergen vocabulary file, or the built-in list
// when none is configured
func ProvideVocabulary(cfg *config.Config) (allergen.Vocabulary, error) {
	if cfg.VocabularyFile == "" {
		return allergen.Default(), nil
	}
	return allergen.LoadCSV(cfg.VocabularyFile)
}

// ProvideWatcher watches the vocabulary file. It returns nil without a file.
func ProvideWatcher(cfg *config.Config, registry *allergen.Registry) (*allergen.Watcher, error) {
	if cfg.VocabularyFile == "" {
		return nil, nil
	}
	return allergen.NewWatcher(cfg.VocabularyFile, registry)
}

func ProvideProfileStore(infra *Infrastructure) *profilestore.Store {
	return profilestore.NewStore(infra.KV)
}

func ProvideCartStore(infra *Infrastructure) *cartstore.Store {
	return cartstore.NewStore(infra.KV)
}

func ProvidePublisher(infra *Infrastructure) kafka.EventPublisher {
	return infra.Publisher
}

func ProvideHistoryRepository(infra *Infrastructure) historydomain.EntryRepository {
	return infra.History
}

func ProvideAllergenSource(s *profilestore.Store) productquery.AllergenSource {
	return s
}

func ProvideProductClient(cfg *config.Config) *client.OpenFoodFactsClient {
	return client.NewOpenFoodFactsClient(cfg.ProductAPIBaseURL, cfg.ProductAPITimeout)
}

// ProvideFetcher stacks the circuit breaker and cache over the API client.
// The cache wraps the breaker, so cached products are served while the
// circuit is open.
func ProvideFetcher(cfg *config.Config, infra *Infrastructure, api *client.OpenFoodFactsClient) productdomain.Fetcher {
	var fetcher productdomain.Fetcher = api
	if cfg.BreakerThreshold > 0 {
		fetcher = client.NewBreakerFetcher(fetcher, cfg.BreakerThreshold, cfg.BreakerCooldown)
	}
	if infra.Redis != nil && cfg.LookupCacheTTL > 0 {
		fetcher = client.NewCachedFetcher(fetcher, infra.Redis, cfg.LookupCacheTTL)
	}
	return fetcher
}

func ProvideRetryPolicy(cfg *config.Config) productquery.RetryPolicy {
	return productquery.RetryPolicy{
		MaxRetries: cfg.LookupMaxRetries,
		Delay:      cfg.LookupRetryDelay,
	}
}

// ProvideAssistant returns the configured chat assistant. Without an API key
// every in-domain question gets the apology reply.
func ProvideAssistant(cfg *config.Config) assistant.Assistant {
	a, err := assistant.NewLangChain(assistant.Config{
		BaseURL: cfg.AssistantBaseURL,
		APIKey:  cfg.AssistantAPIKey,
		Model:   cfg.AssistantModel,
	})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Chat assistant unavailable")
		return assistant.Unavailable{}
	}
	return a
}

// ProvideChatLimiter limits assistant questions per client. The window lives
// in Redis when a client is connected. A limit of 0 disables it.
func ProvideChatLimiter(cfg *config.Config, infra *Infrastructure) *ratelimit.Limiter {
	if cfg.ChatRateLimit <= 0 {
		return nil
	}
	var window ratelimit.Window = ratelimit.NewMemoryWindow(cfg.ChatRateLimit, cfg.ChatRateWindow)
	if infra.Redis != nil {
		window = ratelimit.NewRedisWindow(infra.Redis, redisKeyPrefix, cfg.ChatRateLimit, cfg.ChatRateWindow)
	}
	return ratelimit.NewLimiter(window, "chat")
}

func ProvideAuthenticator(cfg *config.Config) *auth.Authenticator {
	return auth.NewAuthenticator(cfg.AuthSecret, cfg.AuthPassphraseHash, cfg.AuthTokenTTL)
}

// ProvideHealthChecker registers the dependency checks. Only the state
// backend is critical.
func ProvideHealthChecker(cfg *config.Config, infra *Infrastructure, api *client.OpenFoodFactsClient) *health.Checker {
	checker := health.NewChecker(cfg.ServiceName)
	checker.Register("state", true, infra.PingState)
	checker.Register("product_api", false, api.Ping)
	if infra.Redis != nil {
		checker.Register("cache", false, func(ctx context.Context) error {
			return infra.Redis.Ping(ctx).Err()
		})
	}
	return checker
}
