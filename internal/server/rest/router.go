package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/dmitrijs2005/contactkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Gate authenticates an Authorization header value.
type Gate interface {
	Authenticate(ctx context.Context, header string) (*models.User, string, error)
}

// Accounts is the account lifecycle used by the auth routes.
type Accounts interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, user *models.User) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	UpdateSubscription(ctx context.Context, user *models.User, tier models.SubscriptionTier) (*models.User, error)
}

// Avatars hands out avatar uploads.
type Avatars interface {
	RequestUpload(ctx context.Context, user *models.User) (*services.AvatarUpload, error)
}

// Contacts is the owner-scoped contact book.
type Contacts interface {
	List(ctx context.Context, owner string, filter models.ContactFilter) ([]models.Contact, error)
	Get(ctx context.Context, owner, id string) (*models.Contact, error)
	Create(ctx context.Context, owner string, c models.Contact) (*models.Contact, error)
	Update(ctx context.Context, owner, id string, patch models.ContactPatch) (*models.Contact, error)
	UpdateFavorite(ctx context.Context, owner, id string, favorite bool) (*models.Contact, error)
	Delete(ctx context.Context, owner, id string) (*models.Contact, error)
}

// Deps are the collaborators the HTTP layer delegates to.
type Deps struct {
	Gate     Gate
	Accounts Accounts
	Avatars  Avatars
	Contacts Contacts
}

type handlers struct {
	Deps
	log logging.Logger
}

// NewRouter builds the API handler. corsOrigins is a comma-separated list;
// "*" allows any origin.
func NewRouter(deps Deps, corsOrigins string, log logging.Logger) http.Handler {
	log = log.With("module", "http")
	h := &handlers{Deps: deps, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: splitOrigins(corsOrigins),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})

	requireUser := authenticate(deps.Gate, log)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Get("/verify/{verificationToken}", h.verifyEmail)
		r.Post("/verify", h.resendVerification)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/logout", h.logout)
			r.Get("/current", h.current)
			r.Patch("/subscription", h.updateSubscription)
			r.Post("/avatars", h.requestAvatarUpload)
		})
	})

	r.Route("/api/contacts", func(r chi.Router) {
		r.Use(requireUser)
		r.Get("/", h.listContacts)
		r.Post("/", h.createContact)
		r.Get("/{id}", h.getContact)
		r.Put("/{id}", h.updateContact)
		r.Delete("/{id}", h.deleteContact)
		r.Patch("/{id}/favorite", h.updateFavorite)
	})

	return r
}

func splitOrigins(s string) []string {
	var origins []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}
