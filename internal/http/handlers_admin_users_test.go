package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/mock/gomock"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/mocks"
	"github.com/harborlight-collective/harborlight/internal/ports"
	"github.com/harborlight-collective/harborlight/internal/session"
)

func TestUserCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserAdmin(ctrl)
	users.EXPECT().
		CreateUser(gomock.Any(), ports.NewUser{
			Email:    "new@harborlight.org",
			Password: "s3cret-enough",
			FullName: "New Editor",
			Role:     domainauth.RoleEditor,
		}).
		Return(domainauth.Identity{ID: "u9", Email: "new@harborlight.org", Role: domainauth.RoleEditor}, nil)

	h := &AdminHandlers{Users: users, Renderer: newTestRenderer(t)}
	w := httptest.NewRecorder()
	h.UserCreate(w, postForm("/admin/users", url.Values{
		"email":     {"new@harborlight.org"},
		"password":  {"s3cret-enough"},
		"full_name": {"New Editor"},
		"role":      {"EDITOR"},
	}))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/users" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestUserUpdate_PartialFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserAdmin(ctrl)
	users.EXPECT().
		UpdateUser(gomock.Any(), gomock.Cond(func(upd ports.UserUpdate) bool {
			return upd.UserID == "u2" &&
				upd.Role != nil && *upd.Role == domainauth.RoleAdmin &&
				upd.FullName == nil && upd.Password == nil
		})).
		Return(domainauth.Identity{ID: "u2", Role: domainauth.RoleAdmin}, nil)

	h := &AdminHandlers{Users: users, Renderer: newTestRenderer(t)}
	r := postForm("/admin/users/u2", url.Values{"role": {"ADMIN"}})
	r.SetPathValue("id", "u2")
	w := httptest.NewRecorder()
	h.UserUpdate(w, r)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/users" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestUserDelete_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserAdmin(ctrl)
	users.EXPECT().DeleteUser(gomock.Any(), "u2").Return(nil)

	h := &AdminHandlers{Users: users, Renderer: newTestRenderer(t)}
	r := httptest.NewRequest(http.MethodPost, "/admin/users/u2/delete", nil)
	r.SetPathValue("id", "u2")
	r = r.WithContext(SetSnapshotInContext(r.Context(),
		session.Authenticated(domainauth.Identity{ID: "u1", Role: domainauth.RoleSuperAdmin})))
	w := httptest.NewRecorder()
	h.UserDelete(w, r)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/users" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}
