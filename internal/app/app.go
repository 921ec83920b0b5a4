// Package app composes the bot: infrastructure from bootstrap, the store
// bundle, the services, the handler surface and the Telegram runtime.
package app

import (
	"context"
	"time"

	"github.com/m3rciful/profilebot/core/bootstrap"
	coreconfig "github.com/m3rciful/profilebot/core/config"
	tg "github.com/m3rciful/profilebot/core/telegram"
	"github.com/m3rciful/profilebot/core/telegram/router"
	"github.com/m3rciful/profilebot/internal/handlers"
	"github.com/m3rciful/profilebot/internal/service"
	"github.com/m3rciful/profilebot/internal/state"
	"github.com/m3rciful/profilebot/internal/storage"
	"github.com/m3rciful/profilebot/internal/sweeper"
)

// Run boots the whole bot and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg *coreconfig.Config) error {
	infra, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer infra.DB.Close()

	stores := storage.New(infra.DB)
	machine := state.NewMachine(state.NewDBStore(stores.States))

	directory := service.NewDirectory(stores.Users)
	settings := service.NewSettings(stores.Settings)
	activity := service.NewActivity(stores.Messages, stores.Users)
	privacy := service.NewPrivacy(stores, machine)
	feedback := service.NewFeedbackService(stores.Feedback, stores.Settings)

	h := handlers.New(cfg, directory, settings, activity, privacy, feedback, machine)
	reg := tg.NewRegistry()
	h.Register(reg)

	routes := router.TextRoutes(machine, reg, router.TextOptions{
		Observe:        h.Observe,
		UnknownCommand: h.Unknown,
		AdminID:        cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		Locker: machine,
	}))

	swp := sweeper.New(stores.States, sweeper.Options{
		TTL:      time.Duration(cfg.Retention.StateTTLMinutes) * time.Minute,
		Interval: time.Duration(cfg.Retention.SweepIntervalSeconds) * time.Second,
	})

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(cfg),
		Routes:      routes,
		OnStart: func(context.Context, tg.Runtime) error {
			if swp != nil {
				return swp.Start()
			}
			return nil
		},
		OnStop: func(context.Context, tg.Runtime) error {
			if swp != nil {
				swp.Stop()
			}
			return nil
		},
	})
}
