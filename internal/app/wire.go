//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/tair/allergy-scan/config"
	"github.com/tair/allergy-scan/internal/allergen"
	carthttp "github.com/tair/allergy-scan/internal/cart/delivery/http"
	cartcommand "github.com/tair/allergy-scan/internal/cart/usecase/command"
	cartquery "github.com/tair/allergy-scan/internal/cart/usecase/query"
	chathttp "github.com/tair/allergy-scan/internal/chat/delivery/http"
	chatstore "github.com/tair/allergy-scan/internal/chat/store"
	chatcommand "github.com/tair/allergy-scan/internal/chat/usecase/command"
	chatquery "github.com/tair/allergy-scan/internal/chat/usecase/query"
	historyhttp "github.com/tair/allergy-scan/internal/history/delivery/http"
	historyquery "github.com/tair/allergy-scan/internal/history/usecase/query"
	producthttp "github.com/tair/allergy-scan/internal/product/delivery/http"
	productquery "github.com/tair/allergy-scan/internal/product/usecase/query"
	profilehttp "github.com/tair/allergy-scan/internal/profile/delivery/http"
	profilecommand "github.com/tair/allergy-scan/internal/profile/usecase/command"
	profilequery "github.com/tair/allergy-scan/internal/profile/usecase/query"
)

// InfraSet provides the shared infrastructure-backed dependencies
var InfraSet = wire.NewSet(
	ProvidePublisher,
	ProvideHistoryRepository,
	ProvideProfileStore,
	ProvideCartStore,
	ProvideAuthenticator,
	ProvideHealthChecker,
)

// ProductSet provides the scanner
var ProductSet = wire.NewSet(
	ProvideVocabulary,
	allergen.NewRegistry,
	ProvideWatcher,
	ProvideProductClient,
	ProvideFetcher,
	ProvideRetryPolicy,
	ProvideAllergenSource,
	productquery.NewLookupProductHandler,
	wire.Bind(new(productquery.ProductLookup), new(*productquery.LookupProductHandler)),
	productquery.NewScreenLookups,
	productquery.NewScanProductHandler,
	producthttp.NewProductHandler,
)

// ProfileSet provides the profile and family list
var ProfileSet = wire.NewSet(
	profilecommand.NewSaveProfileHandler,
	profilecommand.NewAddFamilyMemberHandler,
	profilecommand.NewRemoveFamilyMemberHandler,
	profilecommand.NewSaveFamilyHandler,
	profilecommand.NewLogoutHandler,
	profilequery.NewGetProfileHandler,
	profilequery.NewListFamilyHandler,
	profilehttp.NewProfileHandler,
)

// CartSet provides the cart
var CartSet = wire.NewSet(
	cartcommand.NewAddToCartHandler,
	cartcommand.NewRemoveFromCartHandler,
	cartcommand.NewClearCartHandler,
	cartcommand.NewUpdateCartItemHandler,
	cartquery.NewListCartHandler,
	carthttp.NewCartHandler,
)

// ChatSet provides the allergy assistant
var ChatSet = wire.NewSet(
	ProvideAssistant,
	ProvideChatLimiter,
	chatstore.NewSession,
	chatcommand.NewSendMessageHandler,
	chatquery.NewHistoryHandler,
	chathttp.NewChatHandler,
)

// HistorySet provides the activity history
var HistorySet = wire.NewSet(
	historyquery.NewListHistoryHandler,
	historyhttp.NewHistoryHandler,
)

// InitializeApp wires the service over already connected infrastructure
func InitializeApp(cfg *config.Config, infra *Infrastructure) (*App, error) {
	wire.Build(
		InfraSet,
		ProductSet,
		ProfileSet,
		CartSet,
		ChatSet,
		HistorySet,
		NewHandlers,
		NewApp,
	)
	return nil, nil
}
