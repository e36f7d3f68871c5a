package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"archive-hub/backend/api/middleware"
	"archive-hub/backend/api/route"
	"archive-hub/backend/common"
	"archive-hub/backend/model"
	"archive-hub/backend/service"

	"github.com/gin-gonic/gin"
)

func main() {
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	if err := common.LoadConfig(); err != nil {
		common.FatalLog(err)
	}
	common.SetupGinLog()
	common.SysLog("Archive Hub " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Redis
	if err := common.InitRedisClient(); err != nil {
		common.FatalLog(err)
	}

	store, err := model.InitStore()
	if err != nil {
		common.FatalLog(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			common.SysError("failed to close store: " + err.Error())
		}
	}()

	blobs, err := service.NewBlobStorage(common.UploadPath)
	if err != nil {
		common.FatalLog(err)
	}
	catalog := service.NewCatalog(store, blobs, service.NewTokenBlacklist())

	sessionStore, err := middleware.NewSessionStore()
	if err != nil {
		common.FatalLog(err)
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	route.SetRouter(engine, catalog, sessionStore)

	port := strconv.Itoa(*common.Port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		common.SysLog("Server listening on port: " + port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.FatalLog("failed to start server: " + err.Error())
		}
	}()

	waitForShutdown(srv)
}

// waitForShutdown blocks until SIGINT/SIGTERM and drains in-flight requests.
func waitForShutdown(srv *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	common.SysLog("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		common.SysError("server forced to shutdown: " + err.Error())
	}
	if common.RDB != nil {
		_ = common.RDB.Close()
	}
	common.SysLog("Server exited")
}
