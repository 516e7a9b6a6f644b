package httpx

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/harborlight-collective/harborlight/internal/data"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
	"github.com/harborlight-collective/harborlight/internal/service"
)

// PublicHandlers serves the marketing site: page sections managed in the
// back office plus the published subsets of every content collection.
type PublicHandlers struct {
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

	Notifier *service.Notifier
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

func (h *PublicHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Home serves GET /.
func (h *PublicHandlers) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sections, err := h.Sections.ListForPage(ctx, "home")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	services, err := h.Services.ListActive(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	upcoming, err := h.Programs.ListActive(ctx, model.ProgramUpcoming)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	posts, err := h.Blog.ListPublished(ctx, 3, 0)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Home"}).
		With("Sections", sectionsByKey(sections)).
		With("Services", services).
		With("Upcoming", upcoming).
		With("Posts", posts)
	_ = h.Renderer.Render(w, "home", td)
}

// About serves GET /about: the about sections plus the active team
// grouped for display.
func (h *PublicHandlers) About(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sections, err := h.Sections.ListForPage(ctx, "about")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	team, err := h.Team.ListActive(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "About Us"}).
		With("Sections", sectionsByKey(sections)).
		With("Founders", filterTeam(team, model.TeamCategoryFounder)).
		With("Leadership", filterTeam(team, model.TeamCategoryLeadership)).
		With("Staff", filterTeam(team, model.TeamCategoryStaff))
	_ = h.Renderer.Render(w, "about", td)
}

// TeamPage serves GET /team: the full roster grouped by category.
func (h *PublicHandlers) TeamPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sections, err := h.Sections.ListForPage(ctx, "team")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	team, err := h.Team.ListActive(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Our Team"}).
		With("Sections", sectionsByKey(sections)).
		With("Founders", filterTeam(team, model.TeamCategoryFounder)).
		With("Leadership", filterTeam(team, model.TeamCategoryLeadership)).
		With("Staff", filterTeam(team, model.TeamCategoryStaff))
	_ = h.Renderer.Render(w, "team", td)
}

// ServiceList serves GET /services.
func (h *PublicHandlers) ServiceList(w http.ResponseWriter, r *http.Request) {
	services, err := h.Services.ListActive(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Services"}).With("Services", services)
	_ = h.Renderer.Render(w, "services", td)
}

// ServiceDetail serves GET /services/{slug}. Inactive or unknown slugs
// are a 404, never a hint that the record exists.
func (h *PublicHandlers) ServiceDetail(w http.ResponseWriter, r *http.Request) {
	svc, err := h.Services.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: svc.Title, Description: svc.Description}).
		With("Service", svc)
	_ = h.Renderer.Render(w, "service_detail", td)
}

// ProgramList serves GET /programs with upcoming and past groups.
func (h *PublicHandlers) ProgramList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	upcoming, err := h.Programs.ListActive(ctx, model.ProgramUpcoming)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	past, err := h.Programs.ListActive(ctx, model.ProgramPast)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Programs & Events"}).
		With("Upcoming", upcoming).
		With("Past", past)
	_ = h.Renderer.Render(w, "programs", td)
}

// ProgramDetail serves GET /programs/{slug}.
func (h *PublicHandlers) ProgramDetail(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Programs.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: ev.Title, Description: ev.Description}).
		With("Event", ev)
	_ = h.Renderer.Render(w, "program_detail", td)
}

// ResourceList serves GET /resources with an optional category filter.
func (h *PublicHandlers) ResourceList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	resources, err := h.Resources.ListActive(r.Context(), category)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Resources"}).
		With("Resources", resources).
		With("Category", category)
	_ = h.Renderer.Render(w, "resources", td)
}

// ResourceDetail serves GET /resources/{slug}. Inactive resources are
// indistinguishable from missing ones.
func (h *PublicHandlers) ResourceDetail(w http.ResponseWriter, r *http.Request) {
	res, err := h.Resources.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: res.Title, Description: res.Description}).
		With("Resource", res)
	_ = h.Renderer.Render(w, "resource_detail", td)
}

// ResourceDownload serves GET /resources/{slug}/download: bumps the
// download counter and redirects to the file. The count is best-effort
// bookkeeping and never blocks the download.
func (h *PublicHandlers) ResourceDownload(w http.ResponseWriter, r *http.Request) {
	res, err := h.Resources.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	if res.FileURL == nil || *res.FileURL == "" {
		h.NotFound(w, r)
		return
	}
	if err := h.Resources.IncrementDownloads(r.Context(), res.ID); err != nil {
		h.logger().WarnContext(r.Context(), "download count not recorded", "resource", res.ID, "err", err)
	}
	http.Redirect(w, r, *res.FileURL, http.StatusFound)
}

// BlogList serves GET /blog with offset paging over published posts.
func (h *PublicHandlers) BlogList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 10
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	posts, err := h.Blog.ListPublished(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	published := true
	total, err := h.Blog.Count(r.Context(), data.BlogListOptions{Published: &published})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Blog"}).
		With("Posts", posts).
		WithPagination(page, pageSize, total, "/blog")
	_ = h.Renderer.Render(w, "blog", td)
}

// BlogPost serves GET /blog/{slug}. Drafts are indistinguishable from
// missing posts.
func (h *PublicHandlers) BlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.Blog.GetPublishedBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: post.Title, Description: post.Excerpt}).
		With("Post", post)
	_ = h.Renderer.Render(w, "blog_post", td)
}

// Gallery serves GET /gallery.
func (h *PublicHandlers) Gallery(w http.ResponseWriter, r *http.Request) {
	items, err := h.Media.ListActive(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Gallery"}).With("Items", items)
	_ = h.Renderer.Render(w, "gallery", td)
}

// FAQGroup is one category block on the FAQ page.
type FAQGroup struct {
	Category string
	Items    []model.FAQItem
}

// FAQPage serves GET /faq grouped by category in stored order.
func (h *PublicHandlers) FAQPage(w http.ResponseWriter, r *http.Request) {
	items, err := h.FAQ.ListActive(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Frequently Asked Questions"}).
		With("Groups", groupFAQ(items))
	_ = h.Renderer.Render(w, "faq", td)
}

// LegalPage serves GET /legal/{key} (privacy, terms, disclaimer).
func (h *PublicHandlers) LegalPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.Legal.GetByKey(r.Context(), r.PathValue("key"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: page.Title}).With("Page", page)
	_ = h.Renderer.Render(w, "legal", td)
}

// ContactPage serves GET /contact.
func (h *PublicHandlers) ContactPage(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Sections.ListForPage(r.Context(), "contact")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Contact Us"}).
		With("Sections", sectionsByKey(sections))
	_ = h.Renderer.Render(w, "contact", td)
}

// VolunteerPage serves GET /get-involved.
func (h *PublicHandlers) VolunteerPage(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Sections.ListForPage(r.Context(), "get-involved")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Get Involved"}).
		With("Sections", sectionsByKey(sections))
	_ = h.Renderer.Render(w, "volunteer", td)
}

// NotFound renders the public 404 page.
func (h *PublicHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	td := NewTemplateData(r, PageMeta{Title: "Page Not Found"})
	_ = h.Renderer.RenderStatus(w, http.StatusNotFound, "not_found", td)
}

func (h *PublicHandlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path, "err", err)
	td := NewTemplateData(r, PageMeta{Title: "Something Went Wrong"})
	if rerr := h.Renderer.RenderStatus(w, http.StatusInternalServerError, "server_error", td); rerr != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// sectionsByKey indexes sections for template lookup. Values are
// pointers so a missing key reads as nil and {{with}} skips the block.
func sectionsByKey(sections []model.PageSection) map[string]*model.PageSection {
	out := make(map[string]*model.PageSection, len(sections))
	for i := range sections {
		out[sections[i].SectionKey] = &sections[i]
	}
	return out
}

func filterTeam(members []model.TeamMember, cat model.TeamCategory) []model.TeamMember {
	var out []model.TeamMember
	for _, m := range members {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// groupFAQ preserves the category order the repository returns.
func groupFAQ(items []model.FAQItem) []FAQGroup {
	var groups []FAQGroup
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, FAQGroup{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
