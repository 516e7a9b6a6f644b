package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
)

// SubmitContact handles POST /contact.
func (h *PublicHandlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	msg := &model.ContactMessage{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   optionalField(r.PostFormValue("phone")),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}

	created, err := h.Contacts.Create(r.Context(), msg)
	if err != nil {
		if apperrors.IsValidation(err) {
			td := NewTemplateData(r, PageMeta{Title: "Contact Us"}).
				WithError(apperrors.UserMessage(err)).
				With("Form", r.PostForm)
			_ = h.Renderer.RenderStatus(w, http.StatusUnprocessableEntity, "contact", td)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.Notifier.Notify(r.Context(), "contact.received", created)
	td := NewTemplateData(r, PageMeta{Title: "Contact Us"}).
		WithFlash("Thank you for reaching out. We will get back to you soon.")
	_ = h.Renderer.Render(w, "contact", td)
}

// SubmitBooking handles POST /services/{slug}/book. The booking is tied
// to the service when the slug still resolves; a stale slug degrades to
// an unattached booking rather than losing the submission.
func (h *PublicHandlers) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var serviceID *string
	svc, err := h.Services.GetBySlug(r.Context(), r.PathValue("slug"))
	if err == nil {
		serviceID = &svc.ID
	} else if !apperrors.IsNotFound(err) {
		h.serverError(w, r, err)
		return
	}

	booking := &model.BookingRequest{
		ServiceID:          serviceID,
		Name:               r.PostFormValue("name"),
		Email:              r.PostFormValue("email"),
		Phone:              optionalField(r.PostFormValue("phone")),
		PreferredDatetime:  parseDatetimeLocal(r.PostFormValue("preferred_datetime")),
		Message:            r.PostFormValue("message"),
		DisclaimerAccepted: r.PostFormValue("disclaimer_accepted") == "on",
	}

	created, err := h.Bookings.Create(r.Context(), booking)
	if err != nil {
		if apperrors.IsValidation(err) && svc != nil {
			td := NewTemplateData(r, PageMeta{Title: svc.Title}).
				With("Service", svc).
				WithError(apperrors.UserMessage(err)).
				With("Form", r.PostForm)
			_ = h.Renderer.RenderStatus(w, http.StatusUnprocessableEntity, "service_detail", td)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.Notifier.Notify(r.Context(), "booking.received", created)
	if svc != nil {
		td := NewTemplateData(r, PageMeta{Title: svc.Title}).
			With("Service", svc).
			WithFlash("Your booking request has been received.")
		_ = h.Renderer.Render(w, "service_detail", td)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Booking Received"}).
		WithFlash("Your booking request has been received.")
	_ = h.Renderer.Render(w, "services", td)
}

// SubmitVolunteer handles POST /get-involved.
func (h *PublicHandlers) SubmitVolunteer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	app := &model.VolunteerApplication{
		Name:         r.PostFormValue("name"),
		Email:        r.PostFormValue("email"),
		Phone:        optionalField(r.PostFormValue("phone")),
		InterestArea: r.PostFormValue("interest_area"),
		Message:      r.PostFormValue("message"),
	}

	created, err := h.Volunteers.Create(r.Context(), app)
	if err != nil {
		if apperrors.IsValidation(err) {
			td := NewTemplateData(r, PageMeta{Title: "Get Involved"}).
				WithError(apperrors.UserMessage(err)).
				With("Form", r.PostForm)
			_ = h.Renderer.RenderStatus(w, http.StatusUnprocessableEntity, "volunteer", td)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.Notifier.Notify(r.Context(), "volunteer.received", created)
	td := NewTemplateData(r, PageMeta{Title: "Get Involved"}).
		WithFlash("Thank you for volunteering. We will be in touch.")
	_ = h.Renderer.Render(w, "volunteer", td)
}

// SubmitSubscribe handles POST /subscribe from the footer form. The
// response is JSON so the form can submit without a page reload.
func (h *PublicHandlers) SubmitSubscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	consent := r.PostFormValue("consent") == "on" || r.PostFormValue("consent") == "true"

	sub, err := h.Subscribers.Subscribe(r.Context(), email, consent)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.Notifier.Notify(r.Context(), "subscriber.joined", sub)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "subscribed"})
}

func optionalField(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// parseDatetimeLocal accepts the browser datetime-local format; anything
// else is treated as unset, the field being optional.
func parseDatetimeLocal(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02T15:04", v)
	if err != nil {
		return nil
	}
	return &t
}
