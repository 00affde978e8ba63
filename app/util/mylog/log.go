package mylog

import (
	"context"
	"jaws/app/config"
	"log/slog"
	"os"
	"time"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"
)

// Preinit installs a console-only logger so failures before Init (config
// loading above all) are still readable.
func Preinit() {
	slog.SetDefault(slog.New(consoleHandler(true)))
}

func Init(cfg *config.Config) error {
	router := slogmulti.Router()

	router = router.Add(consoleHandler(cfg.Log.Debug))

	if cfg.Log.Telegram.Token != "" {
		router = router.Add(
			slogtelegram.Option{
				Level:    slog.LevelDebug,
				Token:    cfg.Log.Telegram.Token,
				Username: cfg.Log.Telegram.ChatID,
			}.NewTelegramHandler(),
			shouldAlert,
		)
	}

	slog.SetDefault(slog.New(router.Handler()))

	return nil
}

func consoleHandler(debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource:  debug,
		Level:      level,
		TimeFormat: time.TimeOnly,
	})
}

// shouldAlert routes a record to the Telegram sink: every error, plus
// records explicitly tagged with an "alert" attribute.
func shouldAlert(_ context.Context, r slog.Record) bool {
	if r.Level >= slog.LevelError {
		return true
	}

	tagged := false
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "alert" {
			tagged = true
			return false
		}

		return true
	})

	return tagged
}
