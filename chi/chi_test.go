package chi

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/kapsule-di/kapsule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test types

type testService struct {
	ID    string
	Value int
}

type testController struct {
	Service *testService
}

func (c *testController) GetValue(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(c.Service.ID))
}

func (c *testController) Panic(http.ResponseWriter, *http.Request) {
	panic("test panic")
}

func newApp(t *testing.T) *kapsule.Container {
	t.Helper()
	app := kapsule.New()
	app.MustBind("testService", func(*kapsule.Container) any {
		return &testService{ID: "svc", Value: 42}
	})
	app.MustBind("testController", func(c *kapsule.Container) (any, error) {
		svc, err := kapsule.Resolve[*testService](c, "testService")
		if err != nil {
			return nil, err
		}
		return &testController{Service: svc}, nil
	})
	return app
}

func TestContainerMiddleware(t *testing.T) {
	t.Run("attaches a request container to the context", func(t *testing.T) {
		app := newApp(t)

		var resolved *testService
		handler := ContainerMiddleware(app)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := FromContext(r.Context())
			require.NoError(t, err)
			resolved = kapsule.MustResolve[*testService](c, "testService")
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, resolved)
		assert.Equal(t, "svc", resolved.ID)
	})

	t.Run("binds the current request", func(t *testing.T) {
		app := newApp(t)

		handler := ContainerMiddleware(app)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := FromContext(r.Context())
			require.NoError(t, err)
			req := kapsule.MustResolve[*http.Request](c, RequestToken)
			_, _ = w.Write([]byte(req.URL.Path))
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, "/ping", rec.Body.String())
	})

	t.Run("request bindings do not leak into the app container", func(t *testing.T) {
		app := newApp(t)

		handler := ContainerMiddleware(app)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, _ := FromContext(r.Context())
			c.MustBind("request-local", func(*kapsule.Container) any { return "local" })
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.False(t, app.Has("request-local"))
	})

	t.Run("middleware failure invokes the error handler", func(t *testing.T) {
		app := newApp(t)

		var handled error
		mw := ContainerMiddleware(app,
			WithMiddleware(func(*kapsule.Container, *http.Request) error {
				return errors.New("setup failed")
			}),
			WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				handled = err
				w.WriteHeader(http.StatusTeapot)
			}),
		)

		called := false
		handler := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.EqualError(t, handled, "setup failed")
		assert.False(t, called)
	})

	t.Run("middlewares can bind request values", func(t *testing.T) {
		app := newApp(t)

		mw := ContainerMiddleware(app,
			WithMiddleware(func(c *kapsule.Container, r *http.Request) error {
				return c.Bind("user", func(*kapsule.Container) any {
					return r.Header.Get("X-User")
				})
			}),
		)

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, _ := FromContext(r.Context())
			user := kapsule.MustResolve[string](c, "user")
			_, _ = w.Write([]byte(user))
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User", "alice")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "alice", rec.Body.String())
	})
}

func TestFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := FromContext(req.Context())
	assert.ErrorIs(t, err, ErrNoContainer)
}

func TestHandle(t *testing.T) {
	t.Run("resolves the controller by type name", func(t *testing.T) {
		app := newApp(t)

		r := chirouter.NewRouter()
		r.Use(ContainerMiddleware(app))
		r.Get("/value", Handle((*testController).GetValue))

		srv := httptest.NewServer(r)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/value")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "svc", string(body))
	})

	t.Run("missing container yields 500", func(t *testing.T) {
		handler := Handle((*testController).GetValue)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("unresolvable controller invokes the resolution handler", func(t *testing.T) {
		app := kapsule.New() // no controller bound

		var handled error
		r := chirouter.NewRouter()
		r.Use(ContainerMiddleware(app))
		r.Get("/value", Handle((*testController).GetValue,
			WithResolutionErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				handled = err
				w.WriteHeader(http.StatusNotImplemented)
			}),
		))

		srv := httptest.NewServer(r)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/value")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
		require.Error(t, handled)
		assert.Equal(t, `No binding for injectable "testController"`, handled.Error())
	})

	t.Run("panic recovery", func(t *testing.T) {
		app := newApp(t)

		r := chirouter.NewRouter()
		r.Use(ContainerMiddleware(app))
		r.Get("/panic", Handle((*testController).Panic, WithPanicRecovery(true)))

		srv := httptest.NewServer(r)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/panic")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
