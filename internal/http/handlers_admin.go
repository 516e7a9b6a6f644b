package httpx

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/harborlight-collective/harborlight/internal/data"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
	"github.com/harborlight-collective/harborlight/internal/ports"
)

// AdminHandlers serves the back office. Route protection happens in the
// Protect middleware; handlers assume an authorized identity.
type AdminHandlers struct {
	Users       ports.UserAdmin
	Profiles    *data.ProfileRepo
	Sections    *data.PageSectionRepo
	Team        *data.TeamRepo
	Services    *data.ServiceRepo
	Programs    *data.ProgramRepo
	Resources   *data.ResourceRepo
	Blog        *data.BlogRepo
	Media       *data.MediaRepo
	FAQ         *data.FAQRepo
	Legal       *data.LegalRepo
	Settings    *data.SettingsRepo
	Contacts    *data.ContactRepo
	Bookings    *data.BookingRepo
	Volunteers  *data.VolunteerRepo
	Subscribers *data.SubscriberRepo

	Blobs    ports.BlobStore
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

func (h *AdminHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// DashboardStats is the summary block on the admin landing page.
type DashboardStats struct {
	UnreadMessages  int
	NewBookings     int
	NewVolunteers   int
	PublishedPosts  int
	ActiveServices  int
	SubscriberCount int
}

// Dashboard serves GET /admin/dashboard. The counts are independent, so
// they are gathered concurrently; one failing count fails the page.
func (h *AdminHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		stats.UnreadMessages, err = h.Contacts.CountUnread(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.NewBookings, err = h.Bookings.CountNew(ctx)
		return err
	})
	g.Go(func() (err error) {
		status := model.VolunteerNew
		stats.NewVolunteers, err = h.Volunteers.Count(ctx, data.VolunteerListOptions{Status: &status})
		return err
	})
	g.Go(func() (err error) {
		published := true
		stats.PublishedPosts, err = h.Blog.Count(ctx, data.BlogListOptions{Published: &published})
		return err
	})
	g.Go(func() (err error) {
		active := true
		stats.ActiveServices, err = h.Services.Count(ctx, data.ServicesListOptions{Active: &active})
		return err
	})
	g.Go(func() (err error) {
		active := true
		stats.SubscriberCount, err = h.Subscribers.Count(ctx, data.SubscriberListOptions{Active: &active})
		return err
	})
	if err := g.Wait(); err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Dashboard"}).With("Stats", stats)
	_ = h.Renderer.Render(w, "admin_dashboard", td)
}

func (h *AdminHandlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "admin request failed",
		"path", r.URL.Path, "err", err)
	td := NewTemplateData(r, PageMeta{Title: "Something Went Wrong"})
	if rerr := h.Renderer.RenderStatus(w, http.StatusInternalServerError, "server_error", td); rerr != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *AdminHandlers) notFound(w http.ResponseWriter, r *http.Request) {
	td := NewTemplateData(r, PageMeta{Title: "Not Found"})
	_ = h.Renderer.RenderStatus(w, http.StatusNotFound, "not_found", td)
}

// renderOrNotFound maps repository errors onto the admin error pages.
func (h *AdminHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.IsNotFound(err) {
		h.notFound(w, r)
		return
	}
	h.serverError(w, r, err)
}

// listOptionsFromQuery reads the shared list controls (?page=, ?q=,
// ?sort=, ?dir=) used by every admin table.
func listOptionsFromQuery(r *http.Request, pageSize int) (model.ListOptions, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	return model.ListOptions{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
		Q:      r.URL.Query().Get("q"),
		Sort:   r.URL.Query().Get("sort"),
		Dir:    r.URL.Query().Get("dir"),
	}, page
}

func formInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue(name)))
	return n
}

func formBool(r *http.Request, name string) bool {
	v := r.PostFormValue(name)
	return v == "on" || v == "true" || v == "1"
}
