package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nkcin/restaurant-management-system/app/models"
)

// Cache keys for the per-entity mirrors
const (
	KeyDishes      = "dishes"
	KeyIngredients = "ingredients"
	KeyOrders      = "orders"
)

// LocalDB is the local SQLite mirror of the last known-good backend state.
// It has no independent write path: the store overwrites it on every
// successful fetch and reads it back only when the backend is unreachable.
type LocalDB struct {
	db     *gorm.DB
	dbPath string
}

// CachedCollection holds one entity list as a JSON-serialized array,
// replaced as a whole on every write.
type CachedCollection struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreSnapshot persists the store's combined state for restoration across
// sessions.
type StoreSnapshot struct {
	ID             uint      `gorm:"primaryKey"`
	DishData       string    `json:"dish_data"`
	IngredientData string    `json:"ingredient_data"`
	OrderData      string    `json:"order_data"`
	LastSync       string    `json:"last_sync"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SyncStatus tracks the latest synchronization outcome
type SyncStatus struct {
	ID         uint       `gorm:"primaryKey"`
	LastSyncAt *time.Time `json:"last_sync_at"`
	Status     string     `json:"status"` // "syncing", "completed", "failed", "offline"
	LastError  string     `json:"last_error"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SyncLog tracks synchronization history
type SyncLog struct {
	ID         uint      `gorm:"primaryKey"`
	EntityType string    `json:"entity_type"` // "dishes", "ingredients", "orders", "sync"
	Action     string    `json:"action"`      // "load", "create", "update", "delete", "sync"
	Status     string    `json:"status"`      // "success", "failed", "fallback"
	Error      string    `json:"error"`
	SyncedAt   time.Time `json:"synced_at"`
}

// Open opens (or creates) the local cache database at dbPath
func Open(dbPath string) (*LocalDB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// CGO-free SQLite driver
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to local database: %w", err)
	}

	local := &LocalDB{db: db, dbPath: dbPath}
	if err := local.runMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run local migrations: %w", err)
	}
	return local, nil
}

// runMigrations creates the cache tables
func (l *LocalDB) runMigrations() error {
	return l.db.AutoMigrate(
		&CachedCollection{},
		&StoreSnapshot{},
		&SyncStatus{},
		&SyncLog{},
	)
}

// writeCollection replaces one entity mirror with a fresh JSON array
func (l *LocalDB) writeCollection(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize %s cache: %w", key, err)
	}
	entry := CachedCollection{
		Key:       key,
		Data:      string(data),
		UpdatedAt: time.Now().UTC(),
	}
	return l.db.Save(&entry).Error
}

// readCollection loads one entity mirror into dest. A missing or corrupt row
// reads as an empty list: cache problems must never block the fallback path.
func (l *LocalDB) readCollection(key string, dest any) {
	var entry CachedCollection
	if err := l.db.First(&entry, "key = ?", key).Error; err != nil {
		return
	}
	if entry.Data == "" {
		return
	}
	// Ignore unmarshal errors, dest stays empty
	_ = json.Unmarshal([]byte(entry.Data), dest)
}

// WriteDishes overwrites the dish mirror
func (l *LocalDB) WriteDishes(dishes []models.Dish) error {
	return l.writeCollection(KeyDishes, dishes)
}

// ReadDishes returns the mirrored dish list, empty when nothing was cached
func (l *LocalDB) ReadDishes() []models.Dish {
	dishes := []models.Dish{}
	l.readCollection(KeyDishes, &dishes)
	return dishes
}

// WriteIngredients overwrites the ingredient mirror
func (l *LocalDB) WriteIngredients(ingredients []models.Ingredient) error {
	return l.writeCollection(KeyIngredients, ingredients)
}

// ReadIngredients returns the mirrored ingredient list
func (l *LocalDB) ReadIngredients() []models.Ingredient {
	ingredients := []models.Ingredient{}
	l.readCollection(KeyIngredients, &ingredients)
	return ingredients
}

// WriteOrders overwrites the order mirror
func (l *LocalDB) WriteOrders(orders []models.Order) error {
	return l.writeCollection(KeyOrders, orders)
}

// ReadOrders returns the mirrored order list
func (l *LocalDB) ReadOrders() []models.Order {
	orders := []models.Order{}
	l.readCollection(KeyOrders, &orders)
	return orders
}

// SaveSnapshot persists the combined store state
func (l *LocalDB) SaveSnapshot(dishes []models.Dish, ingredients []models.Ingredient, orders []models.Order, lastSync string) error {
	dishData, err := json.Marshal(dishes)
	if err != nil {
		return err
	}
	ingredientData, err := json.Marshal(ingredients)
	if err != nil {
		return err
	}
	orderData, err := json.Marshal(orders)
	if err != nil {
		return err
	}

	var snapshot StoreSnapshot
	l.db.FirstOrCreate(&snapshot)
	snapshot.DishData = string(dishData)
	snapshot.IngredientData = string(ingredientData)
	snapshot.OrderData = string(orderData)
	snapshot.LastSync = lastSync
	snapshot.UpdatedAt = time.Now().UTC()
	return l.db.Save(&snapshot).Error
}

// LoadSnapshot restores the combined store state. The second return value is
// false when no snapshot has ever been saved.
func (l *LocalDB) LoadSnapshot() (dishes []models.Dish, ingredients []models.Ingredient, orders []models.Order, lastSync string, ok bool) {
	var snapshot StoreSnapshot
	if err := l.db.First(&snapshot).Error; err != nil {
		return nil, nil, nil, "", false
	}
	dishes = []models.Dish{}
	ingredients = []models.Ingredient{}
	orders = []models.Order{}
	_ = json.Unmarshal([]byte(snapshot.DishData), &dishes)
	_ = json.Unmarshal([]byte(snapshot.IngredientData), &ingredients)
	_ = json.Unmarshal([]byte(snapshot.OrderData), &orders)
	return dishes, ingredients, orders, snapshot.LastSync, true
}

// UpdateSyncStatus updates the current sync status row
func (l *LocalDB) UpdateSyncStatus(status string, errMsg string) error {
	var syncStatus SyncStatus
	l.db.FirstOrCreate(&syncStatus)

	now := time.Now().UTC()
	syncStatus.LastSyncAt = &now
	syncStatus.Status = status
	syncStatus.LastError = errMsg
	syncStatus.UpdatedAt = now
	return l.db.Save(&syncStatus).Error
}

// GetSyncStatus gets the current sync status
func (l *LocalDB) GetSyncStatus() (*SyncStatus, error) {
	var status SyncStatus
	err := l.db.FirstOrCreate(&status).Error
	return &status, err
}

// LogSync records one sync operation
func (l *LocalDB) LogSync(entityType, action, status, errMsg string) {
	entry := SyncLog{
		EntityType: entityType,
		Action:     action,
		Status:     status,
		Error:      errMsg,
		SyncedAt:   time.Now().UTC(),
	}
	l.db.Create(&entry)
}

// RecentSyncLogs returns the newest sync log entries
func (l *LocalDB) RecentSyncLogs(limit int) ([]SyncLog, error) {
	var logs []SyncLog
	err := l.db.Order("synced_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// ClearOldLogs removes sync log entries older than the given number of days
func (l *LocalDB) ClearOldLogs(daysOld int) error {
	cutoff := time.Now().AddDate(0, 0, -daysOld)
	return l.db.Where("synced_at < ?", cutoff).Delete(&SyncLog{}).Error
}

// GetDB returns the underlying database connection
func (l *LocalDB) GetDB() *gorm.DB {
	return l.db
}

// Close closes the local database connection
func (l *LocalDB) Close() error {
	if l.db == nil {
		return nil
	}
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
