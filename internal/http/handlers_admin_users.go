package httpx

import (
	"net/http"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
	"github.com/harborlight-collective/harborlight/internal/ports"
)

// UserList serves GET /admin/users.
func (h *AdminHandlers) UserList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 20
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := model.ProfilesListOptions{ListOptions: lo}
	if role, err := domainauth.ParseRole(r.URL.Query().Get("role")); err == nil {
		opts.Role = &role
	}

	profiles, err := h.Profiles.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Profiles.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Users"}).
		With("Profiles", profiles).
		With("Roles", domainauth.Roles()).
		WithPagination(page, pageSize, total, "/admin/users")
	_ = h.Renderer.Render(w, "admin_users", td)
}

// UserCreate handles POST /admin/users.
func (h *AdminHandlers) UserCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	role, err := domainauth.ParseRole(r.PostFormValue("role"))
	if err != nil {
		h.userFormError(w, r, "Choose a valid role.")
		return
	}

	_, err = h.Users.CreateUser(r.Context(), ports.NewUser{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		FullName: r.PostFormValue("full_name"),
		Role:     role,
	})
	if err != nil {
		switch {
		case apperrors.IsValidation(err), apperrors.IsConflict(err):
			h.userFormError(w, r, apperrors.UserMessage(err))
		default:
			h.serverError(w, r, err)
		}
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// UserUpdate handles POST /admin/users/{id}. Blank fields are unchanged;
// a role or password change revokes the user's live sessions.
func (h *AdminHandlers) UserUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	upd := ports.UserUpdate{UserID: r.PathValue("id")}
	if v := r.PostFormValue("full_name"); v != "" {
		upd.FullName = &v
	}
	if v := r.PostFormValue("role"); v != "" {
		role, err := domainauth.ParseRole(v)
		if err != nil {
			h.userFormError(w, r, "Choose a valid role.")
			return
		}
		upd.Role = &role
	}
	if v := r.PostFormValue("password"); v != "" {
		upd.Password = &v
	}

	if _, err := h.Users.UpdateUser(r.Context(), upd); err != nil {
		switch {
		case apperrors.IsValidation(err):
			h.userFormError(w, r, apperrors.UserMessage(err))
		default:
			h.fail(w, r, err)
		}
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// UserDelete handles POST /admin/users/{id}/delete. A super admin cannot
// delete their own account; that would lock the last key in the door.
func (h *AdminHandlers) UserDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if me := IdentityFromContext(r.Context()); me != nil && me.ID == id {
		h.userFormError(w, r, "You cannot delete your own account.")
		return
	}
	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (h *AdminHandlers) userFormError(w http.ResponseWriter, r *http.Request, msg string) {
	profiles, err := h.Profiles.List(r.Context(), model.ProfilesListOptions{})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Users"}).
		With("Profiles", profiles).
		With("Roles", domainauth.Roles()).
		WithError(msg)
	_ = h.Renderer.RenderStatus(w, http.StatusUnprocessableEntity, "admin_users", td)
}
