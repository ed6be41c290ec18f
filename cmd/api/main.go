package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/PrincessAkira/RestockIQ/internal/config"
	"github.com/PrincessAkira/RestockIQ/internal/db"
	"github.com/PrincessAkira/RestockIQ/internal/httpserver"
	auditlogrepo "github.com/PrincessAkira/RestockIQ/internal/repository/auditlog"
	productrepo "github.com/PrincessAkira/RestockIQ/internal/repository/product"
	salerepo "github.com/PrincessAkira/RestockIQ/internal/repository/sale"
	tokenrepo "github.com/PrincessAkira/RestockIQ/internal/repository/token"
	userrepo "github.com/PrincessAkira/RestockIQ/internal/repository/user"
	authsvc "github.com/PrincessAkira/RestockIQ/internal/service/auth"
	productsvc "github.com/PrincessAkira/RestockIQ/internal/service/product"
	salesvc "github.com/PrincessAkira/RestockIQ/internal/service/sale"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	auditRepo := auditlogrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	saleRepo := salerepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	productService := productsvc.New(productRepo, auditRepo, logger)
	saleService := salesvc.New(saleRepo, auditRepo, logger)
	authService := authsvc.New(userRepo, tokenRepo, authsvc.WithTokenTTL(cfg.TokenTTL))

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc: productService,
		SaleSvc:    saleService,
		AuthSvc:    authService,
		AuditLogs:  auditRepo,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
