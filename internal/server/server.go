// Package server exposes the gallery engine over HTTP.
//
// The API covers saved-gallery CRUD, variant resolution, totals, share
// links, SVG previews, cart submission, material redirects and analytics
// ingest. All endpoints speak JSON except the preview, which returns
// image/svg+xml.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kuriosis/wallbuilder/pkg/analytics"
	"github.com/kuriosis/wallbuilder/pkg/store"
	"github.com/kuriosis/wallbuilder/pkg/storefront"
)

// Server holds the dependencies the HTTP handlers use.
type Server struct {
	store     store.Store
	shop      *storefront.Client
	forwarder *analytics.Forwarder
	redirects *storefront.MaterialRedirects
	logger    *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStorefront enables the cart submission endpoint.
func WithStorefront(shop *storefront.Client) Option {
	return func(s *Server) { s.shop = shop }
}

// WithAnalytics enables event forwarding.
func WithAnalytics(f *analytics.Forwarder) Option {
	return func(s *Server) { s.forwarder = f }
}

// WithRedirects enables the material redirect endpoint.
func WithRedirects(mr *storefront.MaterialRedirects) Option {
	return func(s *Server) { s.redirects = mr }
}

// WithLogger sets the request logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server over the given gallery store.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{store: st, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/galleries", func(r chi.Router) {
			r.Get("/", s.handleListGalleries)
			r.Post("/", s.handleSaveGallery)
			r.Get("/{id}", s.handleGetGallery)
			r.Delete("/{id}", s.handleDeleteGallery)
			r.Get("/{id}/preview.svg", s.handlePreview)
			r.Get("/{id}/total", s.handleGalleryTotal)
		})

		r.Post("/resolve", s.handleResolve)
		r.Post("/totals", s.handleTotals)
		r.Post("/share", s.handleShareEncode)
		r.Post("/share/decode", s.handleShareDecode)
		r.Post("/cart", s.handleCartSubmit)
		r.Post("/redirect", s.handleRedirect)
		r.Post("/events", s.handleEvent)
	})

	return r
}

// Start runs the server on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}
