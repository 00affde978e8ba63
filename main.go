package main

import (
	"context"
	"jaws/app/api"
	"jaws/app/client/weather"
	"jaws/app/config"
	"jaws/app/observability"
	"jaws/app/service/actions"
	"jaws/app/service/assistant"
	"jaws/app/service/datastore"
	"jaws/app/service/gateway"
	"jaws/app/service/janitor"
	"jaws/app/service/prompt"
	"jaws/app/service/suggest"
	"jaws/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, observability.New)
	do.Provide(di, datastore.New)
	do.Provide(di, gateway.New)
	do.Provide(di, prompt.New)
	do.Provide(di, actions.New)
	do.Provide(di, assistant.New)
	do.Provide(di, suggest.New)
	do.Provide(di, weather.NewClient)
	do.Provide(di, janitor.New)
	do.Provide(di, api.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*janitor.Service](di).Run(appCtx)

	go func() {
		if err := do.MustInvoke[*api.Server](di).Run(appCtx); err != nil && appCtx.Err() == nil {
			slog.Error("API server failed", "error", err)
			cancel()
		}
	}()

	<-appCtx.Done()
}
