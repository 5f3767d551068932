// Package httpapi is the fiber HTTP surface: auth pages, the Google sign-in
// redirect flow, user and admin pages, and the JSON API.
package httpapi

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server/config"
	"github.com/janusipm/brandvigilante/internal/server/oauth"
	"github.com/janusipm/brandvigilante/internal/server/services"
	"github.com/janusipm/brandvigilante/internal/server/session"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps lists everything the handlers call into. OAuth may be nil when no
// Google client is configured; the Google routes then answer 404.
type Deps struct {
	Config   *config.Config
	DB       Pinger
	Sessions *session.Manager
	OAuth    *oauth.Bridge

	Auth          *services.AuthService
	Verification  *services.VerificationService
	PasswordReset *services.PasswordResetService
	Admin         *services.AdminService
	Brands        *services.BrandService
	Terms         *services.TermService
	Marketplaces  *services.MarketplaceService
	Listings      *services.ListingService
	Catalog       *services.CatalogService
	Leads         *services.LeadService
	Activity      *services.ActivityService
	Export        *services.ExportService

	// CSRFStorage holds issued CSRF tokens; nil keeps them in process memory.
	CSRFStorage fiber.Storage

	Log logging.Logger
}

// Handler implements every route. Build it with NewHandler.
type Handler struct {
	db       Pinger
	sessions *session.Manager
	oauth    *oauth.Bridge

	auth          *services.AuthService
	verification  *services.VerificationService
	passwordReset *services.PasswordResetService
	admin         *services.AdminService
	brands        *services.BrandService
	terms         *services.TermService
	marketplaces  *services.MarketplaceService
	listings      *services.ListingService
	catalog       *services.CatalogService
	leads         *services.LeadService
	activity      *services.ActivityService
	export        *services.ExportService

	csrfStorage  fiber.Storage
	secretKey    []byte
	appOrigin    string
	cookieDomain string
	cookieSecure bool
	log          logging.Logger
}

// NewHandler copies d and derives cookie and origin settings from
// d.Config when set.
func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logging.Nop{}
	}
	h := &Handler{
		db:            d.DB,
		sessions:      d.Sessions,
		oauth:         d.OAuth,
		auth:          d.Auth,
		verification:  d.Verification,
		passwordReset: d.PasswordReset,
		admin:         d.Admin,
		brands:        d.Brands,
		terms:         d.Terms,
		marketplaces:  d.Marketplaces,
		listings:      d.Listings,
		catalog:       d.Catalog,
		leads:         d.Leads,
		activity:      d.Activity,
		export:        d.Export,
		csrfStorage:   d.CSRFStorage,
		log:           log,
	}
	if cfg := d.Config; cfg != nil {
		h.secretKey = []byte(cfg.SecretKey)
		h.appOrigin = originOf(cfg.AppURL)
		h.cookieDomain = cfg.CookieDomain
		h.cookieSecure = cfg.IsProduction()
	}
	return h
}

// originOf reduces a URL to scheme://host, or "" when it cannot be parsed.
func originOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}
