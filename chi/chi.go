// Package chi provides kapsule integration for the Chi router.
//
// This package provides middleware for creating request-scoped containers
// and type-safe handler wrappers for resolving controllers.
//
// Example usage:
//
//	app := kapsule.New()
//	app.MustBind(NewUserController, []any{NewUserStore})
//
//	r := chi.NewRouter()
//	r.Use(kapsulechi.ContainerMiddleware(app))
//
//	r.Get("/users/{id}", kapsulechi.Handle((*UserController).GetByID))
package chi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/kapsule-di/kapsule"
)

// ErrNoContainer indicates the request context carries no container,
// usually because ContainerMiddleware is not installed.
var ErrNoContainer = errors.New("no container in request context")

type containerCtxKey struct{}

// RequestToken identifies the current *http.Request inside the
// per-request container. A token keeps it clear of name collisions with
// application bindings.
var RequestToken = kapsule.NewToken(reflect.TypeOf(&http.Request{}), "kapsule/chi.request")

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when a request-scoped middleware fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Middlewares are functions that run after the request container is
	// built. They can bind request-specific values, set user data, etc.
	Middlewares []func(*kapsule.Container, *http.Request) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for middleware failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a function that runs against the request container
// after it is created. Multiple middlewares execute in the order added.
func WithMiddleware(mw func(*kapsule.Container, *http.Request) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("request container middleware failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// ContainerMiddleware creates a Chi middleware that builds a fresh
// container for each request, with app attached as a sub-module. Request
// handlers resolve application bindings through it and may add
// request-local bindings without touching shared state. The current
// *http.Request is bound under RequestToken.
//
// The container is attached to the request context and retrieved with
// FromContext.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(kapsulechi.ContainerMiddleware(app))
func ContainerMiddleware(app *kapsule.Container, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqContainer := kapsule.New().SubModule(app)
			reqContainer.MustBind(RequestToken, func(*kapsule.Container) any { return r })

			for _, mw := range cfg.Middlewares {
				if err := mw(reqContainer, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			ctx := context.WithValue(r.Context(), containerCtxKey{}, reqContainer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request container attached by
// ContainerMiddleware.
func FromContext(ctx context.Context) (*kapsule.Container, error) {
	c, ok := ctx.Value(containerCtxKey{}).(*kapsule.Container)
	if !ok {
		return nil, ErrNoContainer
	}
	return c, nil
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(http.ResponseWriter, *http.Request, any)

	// ContainerErrorHandler is called when no container is attached to
	// the request context.
	ContainerErrorHandler func(http.ResponseWriter, *http.Request, error)

	// ResolutionErrorHandler is called when controller resolution fails.
	ResolutionErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(http.ResponseWriter, *http.Request, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithContainerErrorHandler sets the error handler for a missing request
// container.
func WithContainerErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ContainerErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for controller
// resolution failures.
func WithResolutionErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(w http.ResponseWriter, r *http.Request, v any) {
			slog.Error("panic in handler", "panic", v)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ContainerErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to get container from context", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ResolutionErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to resolve controller", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// request container. The controller type T is resolved by its declared
// type name, so the application container must bind the controller under
// that name (binding the constructor works when its derived key matches,
// otherwise bind reflect.TypeOf or the name directly).
//
// The method signature should be: func(T, http.ResponseWriter, *http.Request)
//
// Example:
//
//	r.Get("/users/{id}", kapsulechi.Handle((*UserController).GetByID))
func Handle[T any](method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	controllerType := reflect.TypeOf((*T)(nil)).Elem()

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		container, err := FromContext(r.Context())
		if err != nil {
			cfg.ContainerErrorHandler(w, r, err)
			return
		}

		controller, err := kapsule.Resolve[T](container, controllerType)
		if err != nil {
			cfg.ResolutionErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}
