package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/catalog"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/localstore"
	"github.com/niksmo/storefront/internal/core/service"
)

type stores struct {
	products  *service.ProductStore
	favorites *service.FavoritesStore
	session   *service.SessionStore
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	localStore localstore.Storage
	catalog    catalog.Catalog
	gateway    catalog.AuthGateway
	stores     stores
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initLocalStore()
	app.initOutboundAdapters()
	app.initStores()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initLocalStore() {
	const op = "App.initLocalStore"

	st, err := localstore.Open(app.cfg.LocalStorePath)
	if err != nil {
		app.fallDown(op, err)
	}
	app.localStore = st
}

func (app *App) initOutboundAdapters() {
	cl := catalog.NewClient(app.cfg.CatalogBaseURL, app.localStore)
	app.catalog = catalog.New(cl)
	app.gateway = catalog.NewAuthGateway(cl)
}

// initStores builds the stores and hydrates them from local storage,
// once, before any request is served.
func (app *App) initStores() {
	app.stores.products = service.NewProductStore(app.catalog, app.localStore)
	app.stores.favorites = service.NewFavoritesStore(app.localStore)
	app.stores.session = service.NewSessionStore(app.gateway, app.localStore)

	app.stores.products.Restore()
	app.stores.favorites.Restore()
	app.stores.session.Restore()
}

func (app *App) initHTTPServer() {
	mux := http.NewServeMux()
	httphandler.RegisterProducts(
		mux, app.stores.products, app.catalog, app.stores.session,
	)
	httphandler.RegisterFavorites(
		mux, app.stores.favorites, app.stores.session,
	)
	httphandler.RegisterAuth(mux, app.stores.session)

	var h http.Handler = mux
	h = httphandler.AllowJSON(h)
	h = httphandler.Logging(h)
	h = httphandler.Recover(h)
	h = httphandler.RequestID(h)

	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, h)
}

// Run starts the http server and the background session refresher.
func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.stores.session.RunRefresher(app.ctx)
}

func (app *App) Close(ctx context.Context) {
	app.httpServer.Close(ctx)
	app.localStore.Close()
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
