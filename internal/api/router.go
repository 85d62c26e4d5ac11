package api

import (
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/time/rate"

	"github.com/pawmart/pawmart/internal/assets"
	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/gate"
	"github.com/pawmart/pawmart/internal/store"
	"github.com/pawmart/pawmart/web"
)

// Deps holds everything the application router needs.
type Deps struct {
	Sessions       *scs.SessionManager
	AuthHandlers   *auth.Handlers
	AuthMW         *auth.Middleware
	Pets           store.PetStoreIface
	Products       store.ProductStoreIface
	Gate           *gate.Gate
	Assets         assets.Store
	AllowAnonymous bool

	// LocalAssetDir is non-empty only for the local asset backend; the
	// router then serves the directory itself at AssetBaseURL.
	LocalAssetDir string
	AssetBaseURL  string
}

// NewRouter builds the full application router: the static shell, auth
// endpoints, the JSON API under /api, and the operational endpoints.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(deps.Sessions.LoadAndSave)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, web.StaticFS, "static/index.html")
	})
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))

	if deps.LocalAssetDir != "" {
		base := strings.TrimSuffix(deps.AssetBaseURL, "/")
		r.Handle(base+"/*", http.StripPrefix(base+"/", http.FileServer(http.Dir(deps.LocalAssetDir))))
	}

	r.Route("/auth", func(ar chi.Router) {
		ar.Get("/login", deps.AuthHandlers.Login)
		ar.Get("/callback", deps.AuthHandlers.Callback)
		ar.Get("/logout", deps.AuthHandlers.Logout)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	r.Mount("/api", newAPIRouter(deps))

	return r
}

// newAPIRouter wires the JSON API. Reads are public; writes carry a per-IP
// rate limit, and everything past the catalog requires a session.
func newAPIRouter(deps Deps) chi.Router {
	pets := &petsHandler{pets: deps.Pets, gate: deps.Gate, allowAnonymous: deps.AllowAnonymous}
	products := &productsHandler{products: deps.Products, gate: deps.Gate}
	carts := &cartHandler{sessions: deps.Sessions, products: deps.Products}
	uploads := &uploadsHandler{assets: deps.Assets}
	writes := newRateLimiter(rate.Limit(5), 10)

	r := chi.NewRouter()
	r.Use(jsonContentType)

	r.Get("/pets", pets.List)
	r.Get("/pets/{id}", pets.Get)
	r.Get("/products", products.List)
	r.Get("/products/{id}", products.Get)

	r.Get("/cart", carts.Show)
	r.With(writes.Limit).Post("/cart/items", carts.AddItem)
	r.With(writes.Limit).Delete("/cart/items/{id}", carts.RemoveItem)

	// Pet creation is the one write that may run without a session, when the
	// deployment allows anonymous registrations.
	r.With(deps.AuthMW.OptionalUser, writes.Limit).Post("/pets", pets.Create)

	r.Group(func(pr chi.Router) {
		pr.Use(deps.AuthMW.RequireAuth)
		pr.Use(writes.Limit)

		pr.Put("/pets/{id}", pets.Update)
		pr.Delete("/pets/{id}", pets.Delete)

		pr.Post("/products", products.Create)
		pr.Put("/products/{id}", products.Update)
		pr.Delete("/products/{id}", products.Delete)

		pr.Post("/uploads", uploads.Create)
	})

	r.With(deps.AuthMW.RequireAuth).Get("/me", Me)

	return r
}

// jsonContentType sets Content-Type: application/json on every response.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
