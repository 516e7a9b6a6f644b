package httpx

import (
	"net/http"
	"strings"

	"github.com/harborlight-collective/harborlight/internal/data"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
)

// SectionList serves GET /admin/pages with an optional page_key filter.
func (h *AdminHandlers) SectionList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.PageSectionsListOptions{
		ListOptions: lo,
		PageKey:     r.URL.Query().Get("page_key"),
	}
	sections, err := h.Sections.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Sections.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Page Content"}).
		With("Sections", sections).
		With("PageKey", opts.PageKey).
		WithPagination(page, pageSize, total, "/admin/pages")
	_ = h.Renderer.Render(w, "admin_pages", td)
}

// SectionCreate handles POST /admin/pages.
func (h *AdminHandlers) SectionCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	section := &model.PageSection{
		PageKey:       r.PostFormValue("page_key"),
		SectionKey:    r.PostFormValue("section_key"),
		Title:         r.PostFormValue("title"),
		Content:       r.PostFormValue("content"),
		ImageURL:      optionalField(r.PostFormValue("image_url")),
		ImagePosition: optionalField(r.PostFormValue("image_position")),
		OrderNum:      formInt(r, "order_num"),
		IsActive:      formBool(r, "is_active"),
	}
	if _, err := h.Sections.Create(r.Context(), section); err != nil {
		h.contentFormError(w, r, "admin_pages", "Page Content", err)
		return
	}
	http.Redirect(w, r, "/admin/pages", http.StatusSeeOther)
}

// SectionUpdate handles POST /admin/pages/{id}.
func (h *AdminHandlers) SectionUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	section := &model.PageSection{
		ID:            r.PathValue("id"),
		PageKey:       r.PostFormValue("page_key"),
		SectionKey:    r.PostFormValue("section_key"),
		Title:         r.PostFormValue("title"),
		Content:       r.PostFormValue("content"),
		ImageURL:      optionalField(r.PostFormValue("image_url")),
		ImagePosition: optionalField(r.PostFormValue("image_position")),
		OrderNum:      formInt(r, "order_num"),
		IsActive:      formBool(r, "is_active"),
	}
	if _, err := h.Sections.Update(r.Context(), section); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/pages", http.StatusSeeOther)
}

// SectionDelete handles POST /admin/pages/{id}/delete.
func (h *AdminHandlers) SectionDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sections.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/pages", http.StatusSeeOther)
}

// TeamList serves GET /admin/team.
func (h *AdminHandlers) TeamList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.TeamListOptions{ListOptions: lo}
	if cat := model.TeamCategory(r.URL.Query().Get("category")); cat.Valid() {
		opts.Category = &cat
	}
	members, err := h.Team.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Team.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Team"}).
		With("Members", members).
		WithPagination(page, pageSize, total, "/admin/team")
	_ = h.Renderer.Render(w, "admin_team", td)
}

// TeamCreate handles POST /admin/team.
func (h *AdminHandlers) TeamCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	member := teamMemberFromForm(r)
	if _, err := h.Team.Create(r.Context(), member); err != nil {
		h.contentFormError(w, r, "admin_team", "Team", err)
		return
	}
	http.Redirect(w, r, "/admin/team", http.StatusSeeOther)
}

// TeamUpdate handles POST /admin/team/{id}.
func (h *AdminHandlers) TeamUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	member := teamMemberFromForm(r)
	member.ID = r.PathValue("id")
	if _, err := h.Team.Update(r.Context(), member); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/team", http.StatusSeeOther)
}

// TeamDelete handles POST /admin/team/{id}/delete.
func (h *AdminHandlers) TeamDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Team.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/team", http.StatusSeeOther)
}

// AdminServiceList serves GET /admin/services.
func (h *AdminHandlers) AdminServiceList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.ServicesListOptions{ListOptions: lo}
	services, err := h.Services.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Services.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Services"}).
		With("Services", services).
		WithPagination(page, pageSize, total, "/admin/services")
	_ = h.Renderer.Render(w, "admin_services", td)
}

// ServiceCreate handles POST /admin/services. A blank slug is derived
// from the title.
func (h *AdminHandlers) ServiceCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	svc := serviceFromForm(r)
	if _, err := h.Services.Create(r.Context(), svc); err != nil {
		h.contentFormError(w, r, "admin_services", "Services", err)
		return
	}
	http.Redirect(w, r, "/admin/services", http.StatusSeeOther)
}

// ServiceUpdate handles POST /admin/services/{id}.
func (h *AdminHandlers) ServiceUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	svc := serviceFromForm(r)
	svc.ID = r.PathValue("id")
	if _, err := h.Services.Update(r.Context(), svc); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/services", http.StatusSeeOther)
}

// ServiceToggle handles POST /admin/services/{id}/active.
func (h *AdminHandlers) ServiceToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := h.Services.SetActive(r.Context(), r.PathValue("id"), formBool(r, "active")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/services", http.StatusSeeOther)
}

// ServiceDelete handles POST /admin/services/{id}/delete.
func (h *AdminHandlers) ServiceDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Services.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/services", http.StatusSeeOther)
}

// AdminProgramList serves GET /admin/programs.
func (h *AdminHandlers) AdminProgramList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.ProgramsListOptions{ListOptions: lo}
	if status := model.ProgramStatus(r.URL.Query().Get("status")); status.Valid() {
		opts.Status = &status
	}
	events, err := h.Programs.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Programs.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Programs & Events"}).
		With("Events", events).
		WithPagination(page, pageSize, total, "/admin/programs")
	_ = h.Renderer.Render(w, "admin_programs", td)
}

// ProgramCreate handles POST /admin/programs.
func (h *AdminHandlers) ProgramCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ev := programFromForm(r)
	if _, err := h.Programs.Create(r.Context(), ev); err != nil {
		h.contentFormError(w, r, "admin_programs", "Programs & Events", err)
		return
	}
	http.Redirect(w, r, "/admin/programs", http.StatusSeeOther)
}

// ProgramUpdate handles POST /admin/programs/{id}.
func (h *AdminHandlers) ProgramUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ev := programFromForm(r)
	ev.ID = r.PathValue("id")
	if _, err := h.Programs.Update(r.Context(), ev); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/programs", http.StatusSeeOther)
}

// ProgramDelete handles POST /admin/programs/{id}/delete.
func (h *AdminHandlers) ProgramDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Programs.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/programs", http.StatusSeeOther)
}

func (h *AdminHandlers) contentFormError(w http.ResponseWriter, r *http.Request, tmpl, title string, err error) {
	if !apperrors.IsValidation(err) && !apperrors.IsConflict(err) {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: title}).
		WithError(apperrors.UserMessage(err)).
		With("Form", r.PostForm)
	_ = h.Renderer.RenderStatus(w, http.StatusUnprocessableEntity, tmpl, td)
}

func teamMemberFromForm(r *http.Request) *model.TeamMember {
	socials := strings.TrimSpace(r.PostFormValue("socials_json"))
	if socials == "" {
		socials = "{}"
	}
	return &model.TeamMember{
		Name:        r.PostFormValue("name"),
		RoleTitle:   r.PostFormValue("role_title"),
		Category:    model.TeamCategory(r.PostFormValue("category")),
		Bio:         r.PostFormValue("bio"),
		PhotoURL:    optionalField(r.PostFormValue("photo_url")),
		SocialsJSON: socials,
		OrderNum:    formInt(r, "order_num"),
		IsActive:    formBool(r, "is_active"),
	}
}

func serviceFromForm(r *http.Request) *model.Service {
	slug := strings.TrimSpace(r.PostFormValue("slug"))
	if slug == "" {
		slug = model.Slugify(r.PostFormValue("title"))
	}
	return &model.Service{
		Title:       r.PostFormValue("title"),
		Slug:        slug,
		Description: r.PostFormValue("description"),
		Details:     r.PostFormValue("details"),
		Duration:    optionalField(r.PostFormValue("duration")),
		Price:       optionalField(r.PostFormValue("price")),
		Eligibility: optionalField(r.PostFormValue("eligibility")),
		OrderNum:    formInt(r, "order_num"),
		IsActive:    formBool(r, "is_active"),
	}
}

func programFromForm(r *http.Request) *model.ProgramEvent {
	slug := strings.TrimSpace(r.PostFormValue("slug"))
	if slug == "" {
		slug = model.Slugify(r.PostFormValue("title"))
	}
	return &model.ProgramEvent{
		Title:         r.PostFormValue("title"),
		Slug:          slug,
		Description:   r.PostFormValue("description"),
		EventDatetime: parseDatetimeLocal(r.PostFormValue("event_datetime")),
		Location:      optionalField(r.PostFormValue("location")),
		Link:          optionalField(r.PostFormValue("link")),
		ImageURL:      optionalField(r.PostFormValue("image_url")),
		Status:        model.ProgramStatus(r.PostFormValue("status")),
		IsActive:      formBool(r, "is_active"),
	}
}
