package httpx

import (
	"log/slog"
	"net/http"

	"github.com/harborlight-collective/harborlight/internal/gate"
)

// RouterConfig wires the handler groups into one http.Handler.
type RouterConfig struct {
	Public   *PublicHandlers
	Admin    *AdminHandlers
	Auth     *AuthHandlers
	Blobs    *BlobHandler
	Resolver SessionResolver
	Policy   *gate.Policy
	Renderer *TemplateRenderer
	Logger   *slog.Logger
	Secure   bool
}

// NewRouter builds the full route table. Every request flows through
// panic recovery, request logging, session resolution, and CSRF; admin
// routes additionally pass the role gate.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	registerPublicRoutes(mux, cfg.Public)
	registerAuthRoutes(mux, cfg.Auth)
	registerAdminRoutes(mux, cfg.Admin, Protect(cfg.Policy, cfg.Renderer))

	mux.Handle("GET /static/", StaticHandler())
	if cfg.Blobs != nil {
		mux.HandleFunc("GET /media/{key}", cfg.Blobs.Serve)
	}

	var h http.Handler = mux
	h = CSRF(cfg.Secure)(h)
	h = WithSession(cfg.Resolver)(h)
	h = Logging(cfg.Logger)(h)
	h = Recover(cfg.Logger)(h)
	return h
}

func registerPublicRoutes(mux *http.ServeMux, h *PublicHandlers) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /about", h.About)
	mux.HandleFunc("GET /team", h.TeamPage)
	mux.HandleFunc("GET /services", h.ServiceList)
	mux.HandleFunc("GET /services/{slug}", h.ServiceDetail)
	mux.HandleFunc("POST /services/{slug}/book", h.SubmitBooking)
	mux.HandleFunc("GET /programs", h.ProgramList)
	mux.HandleFunc("GET /programs/{slug}", h.ProgramDetail)
	mux.HandleFunc("GET /resources", h.ResourceList)
	mux.HandleFunc("GET /resources/{slug}", h.ResourceDetail)
	mux.HandleFunc("GET /resources/{slug}/download", h.ResourceDownload)
	mux.HandleFunc("GET /blog", h.BlogList)
	mux.HandleFunc("GET /blog/{slug}", h.BlogPost)
	mux.HandleFunc("GET /gallery", h.Gallery)
	mux.HandleFunc("GET /faq", h.FAQPage)
	mux.HandleFunc("GET /legal/{key}", h.LegalPage)
	mux.HandleFunc("GET /contact", h.ContactPage)
	mux.HandleFunc("POST /contact", h.SubmitContact)
	mux.HandleFunc("GET /get-involved", h.VolunteerPage)
	mux.HandleFunc("POST /get-involved", h.SubmitVolunteer)
	mux.HandleFunc("POST /subscribe", h.SubmitSubscribe)

	// Everything unmatched is the public 404.
	mux.HandleFunc("/", h.NotFound)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /admin", h.LoginPage)
	mux.HandleFunc("GET /admin/{$}", h.LoginPage)
	mux.HandleFunc("POST /admin/login", h.Login)
	mux.HandleFunc("GET /admin/sso/login", h.SSOLogin)
	mux.HandleFunc("GET /admin/sso/callback", h.SSOCallback)
	mux.HandleFunc("POST /admin/logout", h.Logout)
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers, protect func(http.Handler) http.Handler) {
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, protect(fn))
	}

	handle("GET /admin/dashboard", h.Dashboard)

	handle("GET /admin/users", h.UserList)
	handle("POST /admin/users", h.UserCreate)
	handle("POST /admin/users/{id}", h.UserUpdate)
	handle("POST /admin/users/{id}/delete", h.UserDelete)

	handle("GET /admin/pages", h.SectionList)
	handle("POST /admin/pages", h.SectionCreate)
	handle("POST /admin/pages/{id}", h.SectionUpdate)
	handle("POST /admin/pages/{id}/delete", h.SectionDelete)

	handle("GET /admin/team", h.TeamList)
	handle("POST /admin/team", h.TeamCreate)
	handle("POST /admin/team/{id}", h.TeamUpdate)
	handle("POST /admin/team/{id}/delete", h.TeamDelete)

	handle("GET /admin/services", h.AdminServiceList)
	handle("POST /admin/services", h.ServiceCreate)
	handle("POST /admin/services/{id}", h.ServiceUpdate)
	handle("POST /admin/services/{id}/active", h.ServiceToggle)
	handle("POST /admin/services/{id}/delete", h.ServiceDelete)

	handle("GET /admin/programs", h.AdminProgramList)
	handle("POST /admin/programs", h.ProgramCreate)
	handle("POST /admin/programs/{id}", h.ProgramUpdate)
	handle("POST /admin/programs/{id}/delete", h.ProgramDelete)

	handle("GET /admin/resources", h.AdminResourceList)
	handle("POST /admin/resources", h.ResourceCreate)
	handle("POST /admin/resources/{id}", h.ResourceUpdate)
	handle("POST /admin/resources/{id}/delete", h.ResourceDelete)

	handle("GET /admin/blog", h.AdminBlogList)
	handle("POST /admin/blog", h.BlogCreate)
	handle("POST /admin/blog/{id}", h.BlogUpdate)
	handle("POST /admin/blog/{id}/delete", h.BlogDelete)

	handle("GET /admin/media", h.AdminMediaList)
	handle("POST /admin/media", h.MediaCreate)
	handle("POST /admin/media/{id}", h.MediaUpdate)
	handle("POST /admin/media/{id}/delete", h.MediaDelete)

	handle("GET /admin/faq", h.AdminFAQList)
	handle("POST /admin/faq", h.FAQCreate)
	handle("POST /admin/faq/{id}", h.FAQUpdate)
	handle("POST /admin/faq/{id}/delete", h.FAQDelete)

	handle("GET /admin/legal", h.AdminLegalList)
	handle("POST /admin/legal", h.LegalUpsert)
	handle("POST /admin/legal/{id}/delete", h.LegalDelete)

	handle("GET /admin/settings", h.AdminSettingsList)
	handle("POST /admin/settings", h.SettingsUpsert)
	handle("POST /admin/settings/{key}/delete", h.SettingsDelete)

	handle("GET /admin/contact", h.ContactList)
	handle("POST /admin/contact/{id}/read", h.ContactMarkRead)
	handle("POST /admin/contact/{id}/delete", h.ContactDelete)

	handle("GET /admin/bookings", h.BookingList)
	handle("POST /admin/bookings/{id}/status", h.BookingSetStatus)
	handle("POST /admin/bookings/{id}/delete", h.BookingDelete)

	handle("GET /admin/volunteers", h.VolunteerList)
	handle("POST /admin/volunteers/{id}/status", h.VolunteerSetStatus)
	handle("POST /admin/volunteers/{id}/delete", h.VolunteerDelete)

	handle("GET /admin/newsletters", h.SubscriberList)
	handle("POST /admin/newsletters/{id}/active", h.SubscriberToggle)
	handle("POST /admin/newsletters/{id}/delete", h.SubscriberDelete)
}
