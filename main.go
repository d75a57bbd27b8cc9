package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nkcin/restaurant-management-system/app/backend"
	"github.com/nkcin/restaurant-management-system/app/config"
	"github.com/nkcin/restaurant-management-system/app/database"
	"github.com/nkcin/restaurant-management-system/app/server"
	"github.com/nkcin/restaurant-management-system/app/services"
	"github.com/nkcin/restaurant-management-system/app/store"
	"github.com/nkcin/restaurant-management-system/app/websocket"
)

func main() {
	cfg := config.Load()

	logger := services.NewLoggerService(cfg.DataPath)
	defer logger.Close()

	localDB, err := database.Open(filepath.Join(cfg.DataPath, "local.db"))
	if err != nil {
		logger.LogError("Could not open local cache database", err)
		os.Exit(1)
	}
	defer localDB.Close()

	gateway := backend.NewClient(cfg.BackendBaseURL)
	logger.LogInfo("Backend gateway configured", gateway.BaseURL())

	appStore := store.New(gateway, localDB)
	if appStore.RestoreSnapshot() {
		logger.LogInfo("Restored store state from snapshot",
			fmt.Sprintf("%d dishes, %d ingredients, %d orders",
				len(appStore.Dishes()), len(appStore.Ingredients()), len(appStore.Orders())))
	}

	wsServer := websocket.NewServer(":" + cfg.WSPort)
	appStore.SetNotifier(func(event string) {
		wsServer.Broadcast(websocket.MessageType(event), nil)
		if event == store.EventIngredientsUpdated {
			if low := appStore.LowStockIngredients(); len(low) > 0 {
				wsServer.Broadcast(websocket.TypeLowStockAlert, low)
			}
		}
	})
	go func() {
		defer logger.RecoverPanic()
		if err := wsServer.Start(); err != nil {
			logger.LogError("WebSocket server error", err)
		}
	}()

	wsURL := fmt.Sprintf("ws://localhost:%s/ws", cfg.WSPort)
	apiServer := server.New(appStore, cfg.BackendBaseURL, wsURL)
	go func() {
		defer logger.RecoverPanic()
		if err := apiServer.Start(":" + cfg.HTTPPort); err != nil {
			logger.LogError("Dashboard API server error", err)
		}
	}()

	syncInterval := cfg.SyncInterval
	if !cfg.EnableAutoSync {
		syncInterval = 0
	}
	worker := services.NewSyncWorker(appStore, localDB, syncInterval, cfg.LogRetention)
	worker.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.LogInfo("Shutting down")
	worker.Stop()
	wsServer.Stop()
	if err := appStore.SaveSnapshot(); err != nil {
		logger.LogWarning("Could not persist store snapshot on shutdown", err.Error())
	}
}
