package store

import (
	"context"
	"log"
	"slices"
	"sync"

	"github.com/nkcin/restaurant-management-system/app/backend"
	"github.com/nkcin/restaurant-management-system/app/database"
	"github.com/nkcin/restaurant-management-system/app/models"
)

// Event names emitted through the change notifier
const (
	EventDishesUpdated      = "dishes_updated"
	EventIngredientsUpdated = "ingredients_updated"
	EventOrdersUpdated      = "orders_updated"
	EventSyncCompleted      = "sync_completed"
)

// Gateway is the slice of the backend client the store depends on
type Gateway interface {
	Dishes(ctx context.Context) ([]models.Dish, error)
	CreateDish(ctx context.Context, dish models.Dish) (models.Dish, error)
	UpdateDish(ctx context.Context, id string, patch models.DishPatch) (models.Dish, error)
	DeleteDish(ctx context.Context, id string) error
	Ingredients(ctx context.Context) ([]models.Ingredient, error)
	UpdateIngredientQuantity(ctx context.Context, id string, quantity float64) (models.Ingredient, error)
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	Orders(ctx context.Context, startDate, endDate string) ([]models.Order, error)
	SalesData(ctx context.Context, startDate, endDate string) ([]models.SalesData, error)
	DailySales(ctx context.Context, date string) (models.SalesData, error)
	Predictions(ctx context.Context, date string) ([]models.PredictionData, error)
	GeneratePredictions(ctx context.Context) (any, error)
	SyncData(ctx context.Context) (backend.SyncResult, error)
}

// Store is the single owner of the canonical in-memory collections. Every
// load goes through the backend first and falls back to the local cache;
// every write is applied only after the backend confirms it, using the
// server-returned entity. The local cache is a subordinate mirror that is
// overwritten on success and read on failure, never written independently.
//
// Loads for different entities may run concurrently. Two concurrent loads
// for the same entity are not serialized against each other: the last
// response to arrive wins, which is not necessarily the last request issued.
type Store struct {
	mu sync.RWMutex

	gateway Gateway
	cache   *database.LocalDB

	dishes      []models.Dish
	ingredients []models.Ingredient
	orders      []models.Order
	salesData   []models.SalesData
	predictions []models.PredictionData

	isLoading bool
	lastError string
	lastSync  string

	notify func(event string)
}

// New creates a store bound to a gateway and a local cache
func New(gateway Gateway, cache *database.LocalDB) *Store {
	return &Store{
		gateway:     gateway,
		cache:       cache,
		dishes:      []models.Dish{},
		ingredients: []models.Ingredient{},
		orders:      []models.Order{},
		salesData:   []models.SalesData{},
		predictions: []models.PredictionData{},
	}
}

// SetNotifier registers a callback invoked after every collection change.
// Used by the websocket hub to push updates to connected dashboards.
func (s *Store) SetNotifier(notify func(event string)) {
	s.mu.Lock()
	s.notify = notify
	s.mu.Unlock()
}

func (s *Store) emit(event string) {
	s.mu.RLock()
	notify := s.notify
	s.mu.RUnlock()
	if notify != nil {
		notify(event)
	}
}

// begin marks the store busy and clears the previous error
func (s *Store) begin() {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()
}

// fail records an error and clears the busy flag
func (s *Store) fail(message string) {
	s.mu.Lock()
	s.lastError = message
	s.isLoading = false
	s.mu.Unlock()
}

// Dishes returns a copy of the in-memory dish collection
func (s *Store) Dishes() []models.Dish {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.dishes)
}

// Ingredients returns a copy of the in-memory ingredient collection
func (s *Store) Ingredients() []models.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ingredients)
}

// Orders returns a copy of the in-memory order collection
func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders)
}

// SalesData returns a copy of the loaded sales aggregates
func (s *Store) SalesData() []models.SalesData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.salesData)
}

// IsLoading reports whether an action is in flight
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// LastError returns the most recent error message, empty when the last
// action succeeded. An error together with a non-empty collection means
// stale cached data is being served.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// LastSync returns the timestamp of the last successful backend sync
func (s *Store) LastSync() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// LoadDishes refreshes the dish collection from the backend, mirroring the
// result into the local cache. When the backend fails, the cache entry is
// adopted instead if it holds anything; either way the error is recorded.
func (s *Store) LoadDishes(ctx context.Context) {
	s.begin()
	dishes, err := s.gateway.Dishes(ctx)
	if err == nil {
		if cacheErr := s.cache.WriteDishes(dishes); cacheErr != nil {
			log.Printf("Failed to mirror dishes to local cache: %v", cacheErr)
		}
		s.mu.Lock()
		s.dishes = dishes
		s.isLoading = false
		s.mu.Unlock()
		s.emit(EventDishesUpdated)
		return
	}

	fallback := s.cache.ReadDishes()
	s.mu.Lock()
	if len(fallback) > 0 {
		s.dishes = fallback
	}
	s.lastError = err.Error()
	s.isLoading = false
	s.mu.Unlock()
	if len(fallback) > 0 {
		s.emit(EventDishesUpdated)
	}
}

// AddDish creates a dish through the backend and appends the server's copy.
// Nothing changes locally when the backend rejects the write.
func (s *Store) AddDish(ctx context.Context, dish models.Dish) (models.Dish, error) {
	s.begin()
	created, err := s.gateway.CreateDish(ctx, dish)
	if err != nil {
		s.fail(err.Error())
		return models.Dish{}, err
	}

	s.mu.Lock()
	s.dishes = append(s.dishes, created)
	next := slices.Clone(s.dishes)
	s.isLoading = false
	s.mu.Unlock()

	if cacheErr := s.cache.WriteDishes(next); cacheErr != nil {
		log.Printf("Failed to mirror dishes to local cache: %v", cacheErr)
	}
	s.emit(EventDishesUpdated)
	return created, nil
}

// UpdateDish applies a partial update through the backend and replaces the
// local copy with the server's amended dish.
func (s *Store) UpdateDish(ctx context.Context, id string, patch models.DishPatch) (models.Dish, error) {
	s.begin()
	updated, err := s.gateway.UpdateDish(ctx, id, patch)
	if err != nil {
		s.fail(err.Error())
		return models.Dish{}, err
	}

	s.mu.Lock()
	for i := range s.dishes {
		if s.dishes[i].ID == id {
			s.dishes[i] = updated
			break
		}
	}
	next := slices.Clone(s.dishes)
	s.isLoading = false
	s.mu.Unlock()

	if cacheErr := s.cache.WriteDishes(next); cacheErr != nil {
		log.Printf("Failed to mirror dishes to local cache: %v", cacheErr)
	}
	s.emit(EventDishesUpdated)
	return updated, nil
}

// DeleteDish removes a dish through the backend, then locally
func (s *Store) DeleteDish(ctx context.Context, id string) error {
	s.begin()
	if err := s.gateway.DeleteDish(ctx, id); err != nil {
		s.fail(err.Error())
		return err
	}

	s.mu.Lock()
	s.dishes = slices.DeleteFunc(s.dishes, func(d models.Dish) bool {
		return d.ID == id
	})
	next := slices.Clone(s.dishes)
	s.isLoading = false
	s.mu.Unlock()

	if cacheErr := s.cache.WriteDishes(next); cacheErr != nil {
		log.Printf("Failed to mirror dishes to local cache: %v", cacheErr)
	}
	s.emit(EventDishesUpdated)
	return nil
}

// LoadIngredients refreshes the ingredient collection, with the same cache
// fallback behavior as LoadDishes.
func (s *Store) LoadIngredients(ctx context.Context) {
	s.begin()
	ingredients, err := s.gateway.Ingredients(ctx)
	if err == nil {
		if cacheErr := s.cache.WriteIngredients(ingredients); cacheErr != nil {
			log.Printf("Failed to mirror ingredients to local cache: %v", cacheErr)
		}
		s.mu.Lock()
		s.ingredients = ingredients
		s.isLoading = false
		s.mu.Unlock()
		s.emit(EventIngredientsUpdated)
		return
	}

	fallback := s.cache.ReadIngredients()
	s.mu.Lock()
	if len(fallback) > 0 {
		s.ingredients = fallback
	}
	s.lastError = err.Error()
	s.isLoading = false
	s.mu.Unlock()
	if len(fallback) > 0 {
		s.emit(EventIngredientsUpdated)
	}
}

// UpdateIngredientQuantity sets an ingredient's stock level through the
// backend and replaces the local copy with the server's version.
func (s *Store) UpdateIngredientQuantity(ctx context.Context, id string, quantity float64) (models.Ingredient, error) {
	updated, err := s.gateway.UpdateIngredientQuantity(ctx, id, quantity)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		return models.Ingredient{}, err
	}

	s.mu.Lock()
	for i := range s.ingredients {
		if s.ingredients[i].ID == id {
			s.ingredients[i] = updated
			break
		}
	}
	next := slices.Clone(s.ingredients)
	s.mu.Unlock()

	if cacheErr := s.cache.WriteIngredients(next); cacheErr != nil {
		log.Printf("Failed to mirror ingredients to local cache: %v", cacheErr)
	}
	s.emit(EventIngredientsUpdated)
	return updated, nil
}

// LoadOrders refreshes the order collection for an optional date range
func (s *Store) LoadOrders(ctx context.Context, startDate, endDate string) {
	s.begin()
	orders, err := s.gateway.Orders(ctx, startDate, endDate)
	if err == nil {
		if cacheErr := s.cache.WriteOrders(orders); cacheErr != nil {
			log.Printf("Failed to mirror orders to local cache: %v", cacheErr)
		}
		s.mu.Lock()
		s.orders = orders
		s.isLoading = false
		s.mu.Unlock()
		s.emit(EventOrdersUpdated)
		return
	}

	fallback := s.cache.ReadOrders()
	s.mu.Lock()
	if len(fallback) > 0 {
		s.orders = fallback
	}
	s.lastError = err.Error()
	s.isLoading = false
	s.mu.Unlock()
	if len(fallback) > 0 {
		s.emit(EventOrdersUpdated)
	}
}

// CreateOrder registers an order through the backend and appends the
// server-returned copy, which carries the authoritative id and timestamp.
func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	s.begin()
	created, err := s.gateway.CreateOrder(ctx, order)
	if err != nil {
		s.fail(err.Error())
		return models.Order{}, err
	}

	s.mu.Lock()
	s.orders = append(s.orders, created)
	next := slices.Clone(s.orders)
	s.isLoading = false
	s.mu.Unlock()

	if cacheErr := s.cache.WriteOrders(next); cacheErr != nil {
		log.Printf("Failed to mirror orders to local cache: %v", cacheErr)
	}
	s.emit(EventOrdersUpdated)
	return created, nil
}

// LoadSalesData refreshes the analytics aggregates. Sales data has no cache
// mirror: it is derived data the backend can always recompute, and the
// dashboard falls back to SalesByPeriod over the cached orders instead.
func (s *Store) LoadSalesData(ctx context.Context, startDate, endDate string) {
	s.begin()
	sales, err := s.gateway.SalesData(ctx, startDate, endDate)
	if err != nil {
		s.fail(err.Error())
		return
	}
	s.mu.Lock()
	s.salesData = sales
	s.isLoading = false
	s.mu.Unlock()
}

// Predictions returns a copy of the loaded demand forecasts
func (s *Store) Predictions() []models.PredictionData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.predictions)
}

// LoadPredictions refreshes the demand forecasts for a date. Like sales data,
// forecasts have no cache mirror: they are regenerated server-side and stale
// copies would be misleading.
func (s *Store) LoadPredictions(ctx context.Context, date string) {
	s.begin()
	predictions, err := s.gateway.Predictions(ctx, date)
	if err != nil {
		s.fail(err.Error())
		return
	}
	s.mu.Lock()
	s.predictions = predictions
	s.isLoading = false
	s.mu.Unlock()
}

// GeneratePredictions asks the backend to rebuild its forecasts and returns
// the raw result for display.
func (s *Store) GeneratePredictions(ctx context.Context) (any, error) {
	s.begin()
	payload, err := s.gateway.GeneratePredictions(ctx)
	if err != nil {
		s.fail(err.Error())
		return nil, err
	}
	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return payload, nil
}

// DailySales fetches the aggregate for one day. The second return value is
// false when the backend could not answer.
func (s *Store) DailySales(ctx context.Context, date string) (models.SalesData, bool) {
	sales, err := s.gateway.DailySales(ctx, date)
	if err != nil {
		return models.SalesData{}, false
	}
	return sales, true
}

// SyncWithDatabase asks the backend to reconcile itself, then reloads all
// three entity collections sequentially to pick up server-side changes. On
// failure only the error is recorded; no reloads run.
func (s *Store) SyncWithDatabase(ctx context.Context) error {
	s.begin()
	result, err := s.gateway.SyncData(ctx)
	if err != nil {
		s.fail(err.Error())
		return err
	}

	s.mu.Lock()
	s.lastSync = result.LastSync
	s.isLoading = false
	s.mu.Unlock()

	s.LoadDishes(ctx)
	s.LoadIngredients(ctx)
	s.LoadOrders(ctx, "", "")
	s.emit(EventSyncCompleted)
	return nil
}

// SaveSnapshot persists the combined store state for session restore
func (s *Store) SaveSnapshot() error {
	s.mu.RLock()
	dishes := slices.Clone(s.dishes)
	ingredients := slices.Clone(s.ingredients)
	orders := slices.Clone(s.orders)
	lastSync := s.lastSync
	s.mu.RUnlock()
	return s.cache.SaveSnapshot(dishes, ingredients, orders, lastSync)
}

// RestoreSnapshot loads the last persisted store state, if any
func (s *Store) RestoreSnapshot() bool {
	dishes, ingredients, orders, lastSync, ok := s.cache.LoadSnapshot()
	if !ok {
		return false
	}
	s.mu.Lock()
	s.dishes = dishes
	s.ingredients = ingredients
	s.orders = orders
	s.lastSync = lastSync
	s.mu.Unlock()
	return true
}
