package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"printframe/design/session"
	"printframe/fonts"
	"printframe/handlers/api/assets"
	"printframe/handlers/api/designs"
	"printframe/handlers/api/sessions"
	ownerMiddleware "printframe/middleware"
	"printframe/stores"
)

func setupRouter(store stores.Store, mgr *session.Manager, fontLoader *fonts.Loader) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "X-Owner-ID", "Origin", "Host", "Connection", "Accept-Encoding", "Accept-Language", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Route("/api/v2", func(r chi.Router) {
		r.Use(ownerMiddleware.Owner)

		// Live editing sessions: the UI event-handler surface of the
		// design model.
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessions.HandleCreate(mgr))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessions.HandleGet(mgr))
				r.Delete("/", sessions.HandleClose(mgr))
				r.Post("/submit", sessions.HandleSubmit(mgr))

				r.Post("/layers", sessions.HandleAddLayer(mgr, fontLoader))
				r.Route("/layers/{layerID}", func(r chi.Router) {
					r.Patch("/", sessions.HandleUpdateLayer(mgr, fontLoader))
					r.Delete("/", sessions.HandleDeleteLayer(mgr))
					r.Post("/reorder", sessions.HandleReorderLayer(mgr))
					r.Put("/z", sessions.HandleSetZIndex(mgr))
				})

				r.Put("/view", sessions.HandleSetActiveView(mgr))
				r.Put("/selection", sessions.HandleSelect(mgr))
				r.Delete("/selection", sessions.HandleClearSelection(mgr))
				r.Get("/views/{view}/layers", sessions.HandleListLayers(mgr))
			})
		})

		// Saved designs, scoped to the requesting owner.
		r.Route("/designs", func(r chi.Router) {
			r.Get("/", designs.HandleList(store))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", designs.HandleGet(store))
				r.Put("/", designs.HandleSave(store))
				r.Delete("/", designs.HandleDelete(store))
			})
		})

		// Artwork uploads resolve to opaque URIs for layer srcs; GET
		// resolves a minted URI back to its bytes.
		r.Post("/assets", assets.HandleUpload(store))
		r.Get("/assets", assets.HandleGet(store))

		// Effect parameters for declarative text styles.
		r.Get("/text-styles/{style}", sessions.HandleResolveTextStyle())
	})

	return r
}

func waitForShutdown(server *http.Server) {
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-exit

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Forced shutdown")
	}
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", ":3002", "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	store := stores.GetStore()
	mgr := session.NewManager(store)

	// When FONTS_DIR is set, text layers may only use families bundled
	// there; otherwise every family is taken as available.
	var resolver fonts.ResolverFunc
	if dir := os.Getenv("FONTS_DIR"); dir != "" {
		logrus.WithField("dir", dir).Info("Resolving font families from directory")
		resolver = fonts.DirResolver(dir)
	}
	fontLoader := fonts.NewLoader(resolver)

	r := setupRouter(store, mgr, fontLoader)

	server := &http.Server{
		Addr:    *listenAddress,
		Handler: r,
	}

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	waitForShutdown(server)
}
