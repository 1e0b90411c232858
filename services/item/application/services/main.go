package services

import (
	"github.com/ghuser/itemsvc/pkg/app"
	"github.com/ghuser/itemsvc/pkg/cache"
	"github.com/ghuser/itemsvc/services/item/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewItemRepository(a.Db, a.Logger)
	itemCache := cache.NewItemCache(a.Redis, a.Config.ItemCacheTTL, a.Config.ListCacheTTL)
	return &Services{
		Item: NewItemService(repo, itemCache, a.EventBus, a.Logger, a.Config.EventTopic, a.Config.ServiceName),
	}
}
