package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nkcin/restaurant-management-system/app/database"
	"github.com/nkcin/restaurant-management-system/app/store"
)

// SyncWorker periodically reconciles the store with the backend and keeps
// the persisted snapshot current, so a restart while offline comes back up
// with the last known-good state.
type SyncWorker struct {
	store        *store.Store
	localDB      *database.LocalDB
	isRunning    bool
	stopChan     chan bool
	syncInterval time.Duration
	logRetention int // Days of sync logs to keep
}

// NewSyncWorker creates a sync worker. interval is how often a full sync
// runs; logRetention is how many days of sync logs to keep.
func NewSyncWorker(st *store.Store, localDB *database.LocalDB, interval time.Duration, logRetention int) *SyncWorker {
	if logRetention <= 0 {
		logRetention = 7
	}
	return &SyncWorker{
		store:        st,
		localDB:      localDB,
		stopChan:     make(chan bool),
		syncInterval: interval,
		logRetention: logRetention,
	}
}

// Start launches the worker loop. A non-positive interval disables the
// worker entirely; manual syncs through ForceSync still work.
func (w *SyncWorker) Start() {
	if w.syncInterval <= 0 {
		log.Println("Auto-sync is disabled")
		return
	}
	go w.run()
	log.Printf("Sync worker started with interval: %v", w.syncInterval)
}

// run is the main sync loop
func (w *SyncWorker) run() {
	w.isRunning = true
	ticker := time.NewTicker(w.syncInterval)
	defer ticker.Stop()

	// Initial sync
	w.performSync()

	for {
		select {
		case <-ticker.C:
			w.performSync()
		case <-w.stopChan:
			log.Println("Sync worker stopped")
			w.isRunning = false
			return
		}
	}
}

// Stop stops the sync worker
func (w *SyncWorker) Stop() {
	if w.isRunning {
		w.stopChan <- true
	}
}

// performSync runs one synchronization round
func (w *SyncWorker) performSync() {
	log.Println("Starting synchronization...")
	startTime := time.Now()

	w.localDB.UpdateSyncStatus("syncing", "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := w.store.SyncWithDatabase(ctx); err != nil {
		log.Printf("Sync failed: %v", err)
		w.localDB.UpdateSyncStatus("failed", err.Error())
		w.localDB.LogSync("sync", "sync", "failed", err.Error())
		return
	}
	w.localDB.LogSync("sync", "sync", "success", "")

	// The loaders inside SyncWithDatabase may have fallen back to cached
	// data for individual entities; that shows up as a store error with
	// data still present.
	if errMsg := w.store.LastError(); errMsg != "" {
		w.localDB.UpdateSyncStatus("completed", errMsg)
		w.localDB.LogSync("sync", "load", "fallback", errMsg)
	} else {
		w.localDB.UpdateSyncStatus("completed", "")
	}

	if err := w.store.SaveSnapshot(); err != nil {
		log.Printf("Failed to persist store snapshot: %v", err)
	}

	if err := w.localDB.ClearOldLogs(w.logRetention); err != nil {
		log.Printf("Error cleaning old sync logs: %v", err)
	}

	log.Printf("Synchronization completed in %v", time.Since(startTime))
}

// ForceSync forces an immediate synchronization
func (w *SyncWorker) ForceSync() error {
	w.performSync()

	status, err := w.localDB.GetSyncStatus()
	if err != nil {
		return err
	}
	if status.Status == "completed" {
		return nil
	}
	return fmt.Errorf("sync failed: %s", status.LastError)
}

// GetSyncStatus gets the current sync status
func (w *SyncWorker) GetSyncStatus() (*database.SyncStatus, error) {
	return w.localDB.GetSyncStatus()
}

// GetSyncLogs gets recent sync log entries
func (w *SyncWorker) GetSyncLogs(limit int) ([]database.SyncLog, error) {
	return w.localDB.RecentSyncLogs(limit)
}
