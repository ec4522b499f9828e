// Package bot wires the job listing bot: registry routes, FSM handlers,
// keyboards and renderers on top of the reusable telegram core.
package bot

import (
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	tg "github.com/maabuz/ishbot/core/telegram"
	"github.com/maabuz/ishbot/core/telegram/commands"
	"github.com/maabuz/ishbot/core/telegram/middleware"
	"github.com/maabuz/ishbot/core/telegram/router"
	"github.com/maabuz/ishbot/core/telegram/state"
	"github.com/maabuz/ishbot/internal/catalog"
	"github.com/maabuz/ishbot/internal/config"
	"github.com/maabuz/ishbot/internal/flow"
	"github.com/maabuz/ishbot/internal/i18n"
	"github.com/maabuz/ishbot/internal/service"
	"github.com/maabuz/ishbot/internal/store"
)

// App aggregates the bot's domain services and builds its Telegram runtime.
type App struct {
	cfg      *config.AppConfig
	bundle   *i18n.Bundle
	users    *store.Users
	carts    *service.Carts
	loader   catalog.Loader
	sessions state.Manager
	engine   *flow.Engine
	gate     *channelGate
	menu     map[string]i18n.Action
}

// New assembles the application. db may be nil unless the postgres catalog
// backend is configured.
func New(cfg *config.AppConfig, db *sqlx.DB) (*App, error) {
	bundle, err := i18n.Load()
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}

	dataDir := cfg.Bot.DataDir
	users := store.NewUsers(filepath.Join(dataDir, store.UsersFile))
	passwordsPath := filepath.Join(dataDir, store.PasswordsFile)

	var loader catalog.Loader
	switch cfg.Bot.CatalogBackend {
	case config.CatalogPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres catalog backend requires a database connection")
		}
		loader = catalog.NewSQLLoader(db)
	default:
		loader = catalog.NewCSVLoader(dataDir)
	}

	sessions := state.NewMemoryManager()
	gate := newChannelGate(cfg.Bot.ChannelID, cfg.Bot.ChannelUsername)

	a := &App{
		cfg:      cfg,
		bundle:   bundle,
		users:    users,
		carts:    service.NewCarts(users, cfg.Bot.CartLimit),
		loader:   loader,
		sessions: sessions,
		gate:     gate,
		menu:     bundle.MenuActions(),
	}
	a.engine = flow.NewEngine(users, sessions, bundle,
		func() (map[string]struct{}, error) { return store.LoadPasswords(passwordsPath) },
		gate,
	)

	// Every registration state funnels into the same dispatcher; the engine
	// branches on the session state itself.
	for _, st := range []state.State{
		flow.StateAwaitPassword,
		flow.StateAwaitFirstName,
		flow.StateAwaitLastName,
		flow.StateAwaitPhone,
	} {
		state.RegisterHandler(st, a.handleFlowText)
	}

	return a, nil
}

// sessionStates adapts the session manager to the state middleware.
type sessionStates struct {
	mgr state.Manager
}

func (s sessionStates) GetState(userID int64) string {
	return string(s.mgr.GetState(userID))
}

// TelegramRunOptions satisfies cmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Start or restart the bot",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Service statistics",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.SetTextFallback(a.handleMenuText)

	cbs := map[string]tele.HandlerFunc{
		cbLang:    a.handleLangCallback,
		cbJoined:  a.handleJoinedCallback,
		cbSource:  a.handleSourceCallback,
		cbPage:    a.handlePageCallback,
		cbPick:    a.handlePickCallback,
		cbAdd:     a.handleAddCallback,
		cbDislike: a.handleDislikeCallback,
		cbRemove:  a.handleRemoveCallback,
		cbMenu:    a.handleMenuCallback,
	}
	for key, handler := range cbs {
		if err := reg.RegisterCallback(key, handler); err != nil {
			return tg.RunOptions{}, fmt.Errorf("register callback %q: %w", key, err)
		}
	}

	routes := router.TextRoutes(a.sessions, reg, router.TextOptions{})
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, tg.Route{
		Endpoint: tele.OnContact,
		Handler: middleware.State(sessionStates{a.sessions}, string(flow.StateAwaitPhone))(
			middleware.RecoverMiddleware(middleware.LoggerMiddleware(a.handleContact)),
		),
	})

	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
	}, nil
}
