package httpx

import (
	"net/http"

	"github.com/harborlight-collective/harborlight/internal/data"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
)

// ContactList serves GET /admin/contact with an optional read filter.
func (h *AdminHandlers) ContactList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.ContactListOptions{ListOptions: lo}
	switch r.URL.Query().Get("state") {
	case "unread":
		v := false
		opts.Read = &v
	case "read":
		v := true
		opts.Read = &v
	}
	messages, err := h.Contacts.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Contacts.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Contact Messages"}).
		With("Messages", messages).
		WithPagination(page, pageSize, total, "/admin/contact")
	_ = h.Renderer.Render(w, "admin_contact", td)
}

// ContactMarkRead handles POST /admin/contact/{id}/read.
func (h *AdminHandlers) ContactMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := h.Contacts.MarkRead(r.Context(), r.PathValue("id"), formBool(r, "read")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/contact", http.StatusSeeOther)
}

// ContactDelete handles POST /admin/contact/{id}/delete.
func (h *AdminHandlers) ContactDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Contacts.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/contact", http.StatusSeeOther)
}

// BookingList serves GET /admin/bookings with an optional status filter.
func (h *AdminHandlers) BookingList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.BookingListOptions{ListOptions: lo}
	if status := model.BookingStatus(r.URL.Query().Get("status")); status.Valid() {
		opts.Status = &status
	}
	bookings, err := h.Bookings.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Bookings.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Bookings"}).
		With("Bookings", bookings).
		WithPagination(page, pageSize, total, "/admin/bookings")
	_ = h.Renderer.Render(w, "admin_bookings", td)
}

// BookingSetStatus handles POST /admin/bookings/{id}/status.
func (h *AdminHandlers) BookingSetStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	status := model.BookingStatus(r.PostFormValue("status"))
	if err := h.Bookings.SetStatus(r.Context(), r.PathValue("id"), status); err != nil {
		if apperrors.IsValidation(err) {
			http.Error(w, apperrors.UserMessage(err), http.StatusUnprocessableEntity)
			return
		}
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/bookings", http.StatusSeeOther)
}

// BookingDelete handles POST /admin/bookings/{id}/delete.
func (h *AdminHandlers) BookingDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/bookings", http.StatusSeeOther)
}

// VolunteerList serves GET /admin/volunteers.
func (h *AdminHandlers) VolunteerList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.VolunteerListOptions{ListOptions: lo}
	if status := model.VolunteerStatus(r.URL.Query().Get("status")); status.Valid() {
		opts.Status = &status
	}
	apps, err := h.Volunteers.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Volunteers.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Volunteer Applications"}).
		With("Applications", apps).
		WithPagination(page, pageSize, total, "/admin/volunteers")
	_ = h.Renderer.Render(w, "admin_volunteers", td)
}

// VolunteerSetStatus handles POST /admin/volunteers/{id}/status.
func (h *AdminHandlers) VolunteerSetStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	status := model.VolunteerStatus(r.PostFormValue("status"))
	if err := h.Volunteers.SetStatus(r.Context(), r.PathValue("id"), status); err != nil {
		if apperrors.IsValidation(err) {
			http.Error(w, apperrors.UserMessage(err), http.StatusUnprocessableEntity)
			return
		}
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/volunteers", http.StatusSeeOther)
}

// VolunteerDelete handles POST /admin/volunteers/{id}/delete.
func (h *AdminHandlers) VolunteerDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Volunteers.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/volunteers", http.StatusSeeOther)
}

// SubscriberList serves GET /admin/newsletters.
func (h *AdminHandlers) SubscriberList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 100
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.SubscriberListOptions{ListOptions: lo}
	switch r.URL.Query().Get("state") {
	case "active":
		v := true
		opts.Active = &v
	case "inactive":
		v := false
		opts.Active = &v
	}
	subs, err := h.Subscribers.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Subscribers.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Newsletter Subscribers"}).
		With("Subscribers", subs).
		WithPagination(page, pageSize, total, "/admin/newsletters")
	_ = h.Renderer.Render(w, "admin_newsletters", td)
}

// SubscriberToggle handles POST /admin/newsletters/{id}/active.
func (h *AdminHandlers) SubscriberToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := h.Subscribers.SetActive(r.Context(), r.PathValue("id"), formBool(r, "active")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/newsletters", http.StatusSeeOther)
}

// SubscriberDelete handles POST /admin/newsletters/{id}/delete.
func (h *AdminHandlers) SubscriberDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Subscribers.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/newsletters", http.StatusSeeOther)
}
