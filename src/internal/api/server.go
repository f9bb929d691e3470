package api

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"modserve/src/internal/domain"
	"modserve/src/internal/service/reload"
)

type Api struct {
	ctx    *domain.Context
	hub    *reload.Hub
	server *http.Server
}

func Create(ctx *domain.Context, hub *reload.Hub) *Api {
	a := &Api{
		ctx: ctx,
		hub: hub,
	}

	// Fix MIME types: Go's mime package relies on OS files which may be
	// missing in minimal environments, and browsers reject module scripts
	// and stylesheets served with the wrong Content-Type.
	mime.AddExtensionType(".css", "text/css")
	mime.AddExtensionType(".js", "application/javascript")
	mime.AddExtensionType(".mjs", "application/javascript")
	mime.AddExtensionType(".html", "text/html")
	mime.AddExtensionType(".svg", "image/svg+xml")
	mime.AddExtensionType(".json", "application/json")
	mime.AddExtensionType(".wasm", "application/wasm")

	router := mux.NewRouter()

	if ctx.Config.LiveReload && hub != nil {
		router.HandleFunc("/livereload", a.handleLiveReload)
		router.HandleFunc("/livereload.js", a.handleLiveReloadScript)
	}

	// Static files from the configured root. http.Dir keeps resolution
	// inside the root, so traversal requests cannot escape it.
	files := http.FileServer(http.Dir(ctx.Config.Root))
	router.PathPrefix("/").Handler(logRequests(files))

	a.server = &http.Server{
		Handler:           CORSMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a
}

// Handler exposes the fully wrapped request handler.
func (a *Api) Handler() http.Handler {
	return a.server.Handler
}

// CORSMiddleware attaches the fixed header set to every response and answers
// CORS preflights directly. It wraps the whole router, so the headers ride
// along on every code path the inner handler takes (200, 404, redirects,
// directory listings) and OPTIONS never reaches file resolution.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		// Cross-origin isolation, required for ES module workers that use
		// shared memory.
		h.Set("Cross-Origin-Embedder-Policy", "require-corp")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("Request")
		next.ServeHTTP(w, r)
	})
}

// Run binds the listener and serves until Shutdown is called. Bind failures
// surface here synchronously, before the startup banner is printed.
func (a *Api) Run() error {
	addr := a.ctx.Config.Host + ":" + a.ctx.Config.Port

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	fmt.Printf("Development server running at http://localhost:%s/\n", a.ctx.Config.Port)
	fmt.Println("CORS headers enabled for ES modules")
	fmt.Println("Press Ctrl+C to stop")

	if err := a.server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight
// responses, bounded by ctx.
func (a *Api) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
