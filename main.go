// Package main marketplace order & settlement API.
//
// @title           Etrymart Admin Core API
// @version         1.0
// @description     order fulfillment, seller wallet ledger and withdrawal settlement.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer"
	orderctrl "github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/controller/order"
	paymentctrl "github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/controller/payment"
	walletctrl "github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/controller/wallet"
	withdrawalctrl "github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/controller/withdrawal"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/validation"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/config"
	orderrepo "github.com/alphaanurag-333/Etrymart-admin-sub001/repository/order"
	walletrepo "github.com/alphaanurag-333/Etrymart-admin-sub001/repository/wallet"
	withdrawalrepo "github.com/alphaanurag-333/Etrymart-admin-sub001/repository/withdrawal"
	ordersvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/order"
	settlementsvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/settlement"
	walletsvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/wallet"
	withdrawalsvc "github.com/alphaanurag-333/Etrymart-admin-sub001/service/withdrawal"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	commission, err := decimal.NewFromString(cfg.CommissionPct)
	if err != nil || commission.IsNegative() || commission.GreaterThan(decimal.NewFromInt(100)) {
		log.Error("bad COMMISSION_PCT", "value", cfg.CommissionPct)
		os.Exit(1)
	}

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	or := orderrepo.New(db.Pool)
	wr := walletrepo.New(db.Pool)
	dr := withdrawalrepo.New(db.Pool)

	// services
	ws := walletsvc.New(db, wr)
	ss := settlementsvc.New(db, or, ws, commission, log)
	osvc := ordersvc.New(db, or, ss)
	ds := withdrawalsvc.New(db, dr, ws)

	// controllers
	v := validator.New()
	orderC := &orderctrl.Controller{Svc: osvc, V: v, Log: log}
	walletC := &walletctrl.Controller{Svc: ws, V: v, Log: log}
	withdrawalC := &withdrawalctrl.Controller{Svc: ds, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: osvc, Token: cfg.CallbackToken, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Order:      orderC,
		Wallet:     walletC,
		Withdrawal: withdrawalC,
		Payment:    paymentC,

		JWTSecret: cfg.JWTSecret,
	})

	// settlement sweep: retroactive safety net for paid-after-delivery
	if cfg.SettleSweep > 0 {
		go ss.Run(ctx, time.Duration(cfg.SettleSweep)*time.Second)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
