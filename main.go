package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"redsys-orders/config"
	"redsys-orders/internal"
	"redsys-orders/services"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {

	logger := internal.NewLogger("internal", false, nil)
	defer logger.Sync()

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	logger.Info("using config file: " + *configPath)
	conf, err := config.GetConfig(*configPath)
	if err != nil {
		logger.Error("boot", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var database services.Database
	var orders services.OrderStore
	resolver := internal.NewConfigChain(internal.NewStaticConfig(conf))

	mongo, err := internal.NewMongoClient(ctx, conf)
	if err != nil {
		logger.Error("mongo client", err)
		return
	}
	if mongo != nil {
		defer func() {
			_ = mongo.Disconnect(context.Background())
		}()
		database = mongo
		orders = mongo
		// stored merchant_config values override the config file
		resolver = internal.NewConfigChain(mongo, internal.NewStaticConfig(conf))
		logger.Info("mongo client initialized")
	} else {
		orders = internal.NewMemoryStore()
		logger.Warn("mongo disabled: orders kept in memory")
	}

	payments := internal.NewPayments(orders, resolver, internal.NewUrls(conf.Merchant.BaseUrl), internal.NewEncryptor())
	payments.SetLogger(internal.NewLogger("payments", conf.IsDebug, database))
	payments.SetRequestUrl(conf.Merchant.RequestUrl)

	reconciler := internal.NewReconciler(orders, resolver)
	reconciler.SetLogger(internal.NewLogger("reconciler", conf.IsDebug, database))
	reconciler.SetThreshold(conf.Scheduler.StaleThreshold)
	reconciler.SetBatchLimit(conf.Scheduler.BatchLimit)

	telegram, err := internal.NewTelegram(conf.Telegram.Token, conf.Telegram.ChatId)
	if err != nil {
		logger.Error("telegram bot", err)
	} else if telegram != nil {
		reconciler.SetNotifier(telegram)
		logger.Info("telegram notifications enabled")
	}

	server := internal.NewServer(conf, payments, reconciler)
	server.SetLogger(internal.NewLogger("server", conf.IsDebug, database))

	group, groupCtx := errgroup.WithContext(ctx)

	if conf.Scheduler.Enabled {
		ticker, err := internal.NewTicker(reconciler, conf.Scheduler.Interval, conf.Scheduler.Scopes, conf.Scheduler.PoolSize)
		if err != nil {
			logger.Error("scheduler", err)
			return
		}
		ticker.SetLogger(internal.NewLogger("scheduler", conf.IsDebug, database))
		defer ticker.Stop()
		group.Go(func() error {
			ticker.Start(groupCtx)
			return nil
		})
	}

	group.Go(func() error {
		return server.Start()
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err = group.Wait(); err != nil {
		logger.Error("server", err)
	}
	logger.Info("stopped")
}
