package httpx

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/harborlight-collective/harborlight/internal/data"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
)

const maxUploadBytes = 32 << 20

// AdminResourceList serves GET /admin/resources.
func (h *AdminHandlers) AdminResourceList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.ResourcesListOptions{
		ListOptions: lo,
		Category:    r.URL.Query().Get("category"),
	}
	resources, err := h.Resources.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Resources.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Resources"}).
		With("Resources", resources).
		WithPagination(page, pageSize, total, "/admin/resources")
	_ = h.Renderer.Render(w, "admin_resources", td)
}

// ResourceCreate handles POST /admin/resources. The form is multipart:
// an uploaded file wins over a pasted file URL.
func (h *AdminHandlers) ResourceCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	res := resourceFromForm(r)
	fileURL, err := h.storeUpload(r, "file")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if fileURL != "" {
		res.FileURL = &fileURL
	}
	if _, err := h.Resources.Create(r.Context(), res); err != nil {
		h.contentFormError(w, r, "admin_resources", "Resources", err)
		return
	}
	http.Redirect(w, r, "/admin/resources", http.StatusSeeOther)
}

// ResourceUpdate handles POST /admin/resources/{id}.
func (h *AdminHandlers) ResourceUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	res := resourceFromForm(r)
	res.ID = r.PathValue("id")
	fileURL, err := h.storeUpload(r, "file")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if fileURL != "" {
		res.FileURL = &fileURL
	}
	if _, err := h.Resources.Update(r.Context(), res); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/resources", http.StatusSeeOther)
}

// ResourceDelete handles POST /admin/resources/{id}/delete.
func (h *AdminHandlers) ResourceDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Resources.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/resources", http.StatusSeeOther)
}

// AdminBlogList serves GET /admin/blog.
func (h *AdminHandlers) AdminBlogList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.BlogListOptions{ListOptions: lo}
	switch r.URL.Query().Get("state") {
	case "published":
		v := true
		opts.Published = &v
	case "draft":
		v := false
		opts.Published = &v
	}
	posts, err := h.Blog.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Blog.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Blog"}).
		With("Posts", posts).
		WithPagination(page, pageSize, total, "/admin/blog")
	_ = h.Renderer.Render(w, "admin_blog", td)
}

// BlogCreate handles POST /admin/blog. Creating a post already marked
// published stamps its publication time.
func (h *AdminHandlers) BlogCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	post := blogPostFromForm(r)
	if _, err := h.Blog.Create(r.Context(), post); err != nil {
		h.contentFormError(w, r, "admin_blog", "Blog", err)
		return
	}
	http.Redirect(w, r, "/admin/blog", http.StatusSeeOther)
}

// BlogUpdate handles POST /admin/blog/{id}. First publication stamps the
// timestamp; unpublishing keeps it.
func (h *AdminHandlers) BlogUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	existing, err := h.Blog.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	post := blogPostFromForm(r)
	post.ID = existing.ID
	post.PublishedAt = existing.PublishedAt
	if _, err := h.Blog.Update(r.Context(), post); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/blog", http.StatusSeeOther)
}

// BlogDelete handles POST /admin/blog/{id}/delete.
func (h *AdminHandlers) BlogDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Blog.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/blog", http.StatusSeeOther)
}

// AdminMediaList serves GET /admin/media.
func (h *AdminHandlers) AdminMediaList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 50
	lo, page := listOptionsFromQuery(r, pageSize)
	opts := data.MediaListOptions{ListOptions: lo}
	if t := model.MediaType(r.URL.Query().Get("type")); t.Valid() {
		opts.Type = &t
	}
	items, err := h.Media.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.Media.Count(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "Media"}).
		With("Items", items).
		WithPagination(page, pageSize, total, "/admin/media")
	_ = h.Renderer.Render(w, "admin_media", td)
}

// MediaCreate handles POST /admin/media. Photos are uploaded into the
// blob store; videos reference an external URL.
func (h *AdminHandlers) MediaCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	item := &model.MediaItem{
		Type:         model.MediaType(r.PostFormValue("type")),
		Title:        r.PostFormValue("title"),
		URL:          r.PostFormValue("url"),
		ThumbnailURL: optionalField(r.PostFormValue("thumbnail_url")),
		OrderNum:     formInt(r, "order_num"),
		IsActive:     formBool(r, "is_active"),
	}
	uploaded, err := h.storeUpload(r, "file")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if uploaded != "" {
		item.URL = uploaded
	}
	if _, err := h.Media.Create(r.Context(), item); err != nil {
		h.contentFormError(w, r, "admin_media", "Media", err)
		return
	}
	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaUpdate handles POST /admin/media/{id}.
func (h *AdminHandlers) MediaUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	item := &model.MediaItem{
		ID:           r.PathValue("id"),
		Type:         model.MediaType(r.PostFormValue("type")),
		Title:        r.PostFormValue("title"),
		URL:          r.PostFormValue("url"),
		ThumbnailURL: optionalField(r.PostFormValue("thumbnail_url")),
		OrderNum:     formInt(r, "order_num"),
		IsActive:     formBool(r, "is_active"),
	}
	if _, err := h.Media.Update(r.Context(), item); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaDelete handles POST /admin/media/{id}/delete.
func (h *AdminHandlers) MediaDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Media.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// AdminFAQList serves GET /admin/faq.
func (h *AdminHandlers) AdminFAQList(w http.ResponseWriter, r *http.Request) {
	const pageSize = 100
	lo, page := listOptionsFromQuery(r, pageSize)
	items, err := h.FAQ.List(r.Context(), lo)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total, err := h.FAQ.Count(r.Context(), lo)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := NewTemplateData(r, PageMeta{Title: "FAQ"}).
		With("Items", items).
		WithPagination(page, pageSize, total, "/admin/faq")
	_ = h.Renderer.Render(w, "admin_faq", td)
}

// FAQCreate handles POST /admin/faq.
func (h *AdminHandlers) FAQCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	item := faqFromForm(r)
	if _, err := h.FAQ.Create(r.Context(), item); err != nil {
		h.contentFormError(w, r, "admin_faq", "FAQ", err)
		return
	}
	http.Redirect(w, r, "/admin/faq", http.StatusSeeOther)
}

// FAQUpdate handles POST /admin/faq/{id}.
func (h *AdminHandlers) FAQUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	item := faqFromForm(r)
	item.ID = r.PathValue("id")
	if _, err := h.FAQ.Update(r.Context(), item); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/faq", http.StatusSeeOther)
}

// FAQDelete handles POST /admin/faq/{id}/delete.
func (h *AdminHandlers) FAQDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.FAQ.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/faq", http.StatusSeeOther)
}

// AdminLegalList serves GET /admin/legal.
func (h *AdminHandlers) AdminLegalList(w http.ResponseWriter, r *http.Request) {
	pages, err := h.Legal.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Legal Pages"}).With("Pages", pages)
	_ = h.Renderer.Render(w, "admin_legal", td)
}

// LegalUpsert handles POST /admin/legal: creates or replaces the page
// for the submitted page_key.
func (h *AdminHandlers) LegalUpsert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	page := &model.LegalPage{
		PageKey: r.PostFormValue("page_key"),
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}
	if _, err := h.Legal.Upsert(r.Context(), page); err != nil {
		h.contentFormError(w, r, "admin_legal", "Legal Pages", err)
		return
	}
	http.Redirect(w, r, "/admin/legal", http.StatusSeeOther)
}

// LegalDelete handles POST /admin/legal/{id}/delete.
func (h *AdminHandlers) LegalDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Legal.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/legal", http.StatusSeeOther)
}

// AdminSettingsList serves GET /admin/settings.
func (h *AdminHandlers) AdminSettingsList(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	td := NewTemplateData(r, PageMeta{Title: "Site Settings"}).With("Settings", settings)
	_ = h.Renderer.Render(w, "admin_settings", td)
}

// SettingsUpsert handles POST /admin/settings.
func (h *AdminHandlers) SettingsUpsert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	key := strings.TrimSpace(r.PostFormValue("key"))
	if key == "" {
		h.contentFormError(w, r, "admin_settings", "Site Settings",
			apperrors.Validation("a setting key is required"))
		return
	}
	if _, err := h.Settings.Upsert(r.Context(), key, r.PostFormValue("value")); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}

// SettingsDelete handles POST /admin/settings/{key}/delete.
func (h *AdminHandlers) SettingsDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Settings.Delete(r.Context(), r.PathValue("key")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}

// storeUpload saves the named multipart file into the blob store and
// returns its public URL, or "" when the field is empty.
func (h *AdminHandlers) storeUpload(r *http.Request, field string) (string, error) {
	if h.Blobs == nil || r.MultipartForm == nil {
		return "", nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return "", nil
	}
	return h.putBlob(r, files[0])
}

func (h *AdminHandlers) putBlob(r *http.Request, header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	result, err := h.Blobs.Put(r.Context(), header.Filename, header.Header.Get("Content-Type"), f)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

func resourceFromForm(r *http.Request) *model.Resource {
	slug := strings.TrimSpace(r.PostFormValue("slug"))
	if slug == "" {
		slug = model.Slugify(r.PostFormValue("title"))
	}
	return &model.Resource{
		Title:       r.PostFormValue("title"),
		Slug:        slug,
		Description: r.PostFormValue("description"),
		Category:    r.PostFormValue("category"),
		Tags:        splitTags(r.PostFormValue("tags")),
		FileURL:     optionalField(r.PostFormValue("file_url")),
		CoverURL:    optionalField(r.PostFormValue("cover_url")),
		IsActive:    formBool(r, "is_active"),
	}
}

func blogPostFromForm(r *http.Request) *model.BlogPost {
	slug := strings.TrimSpace(r.PostFormValue("slug"))
	if slug == "" {
		slug = model.Slugify(r.PostFormValue("title"))
	}
	return &model.BlogPost{
		Title:      r.PostFormValue("title"),
		Slug:       slug,
		Excerpt:    r.PostFormValue("excerpt"),
		Content:    r.PostFormValue("content"),
		CoverURL:   optionalField(r.PostFormValue("cover_url")),
		AuthorName: r.PostFormValue("author_name"),
		Tags:       splitTags(r.PostFormValue("tags")),
		Published:  formBool(r, "published"),
	}
}

func faqFromForm(r *http.Request) *model.FAQItem {
	return &model.FAQItem{
		Question: r.PostFormValue("question"),
		Answer:   r.PostFormValue("answer"),
		Category: r.PostFormValue("category"),
		OrderNum: formInt(r, "order_num"),
		IsActive: formBool(r, "is_active"),
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
