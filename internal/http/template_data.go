package httpx

import (
	"net/http"
	"strconv"
	"time"
)

// PageMeta carries per-page head metadata.
type PageMeta struct {
	Title       string
	Description string
}

// TemplateDataBuilder accumulates template data for one render.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData seeds the builder with the data every page needs: the
// page meta, the signed-in identity (nil on public pages), the CSRF
// token and the current path for nav highlighting.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: map[string]any{
		"Title":       meta.Title,
		"Description": meta.Description,
		"Identity":    IdentityFromContext(r.Context()),
		"CSRFToken":   CSRFTokenFromContext(r.Context()),
		"Path":        r.URL.Path,
		"Year":        time.Now().Year(),
	}}
}

// With adds an arbitrary key.
func (b *TemplateDataBuilder) With(key string, val any) *TemplateDataBuilder {
	b.data[key] = val
	return b
}

// WithError sets a banner error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = msg
	return b
}

// WithFlash sets a one-shot success message.
func (b *TemplateDataBuilder) WithFlash(msg string) *TemplateDataBuilder {
	b.data["Flash"] = msg
	return b
}

// WithFieldError records a per-field validation message for form redisplay.
func (b *TemplateDataBuilder) WithFieldError(field, msg string) *TemplateDataBuilder {
	errs, _ := b.data["FieldErrors"].(map[string]string)
	if errs == nil {
		errs = make(map[string]string)
		b.data["FieldErrors"] = errs
	}
	errs[field] = msg
	return b
}

// WithPagination adds offset pagination state for list views.
func (b *TemplateDataBuilder) WithPagination(page, pageSize, total int, basePath string) *TemplateDataBuilder {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	b.data["Page"] = page
	b.data["PageSize"] = pageSize
	b.data["Total"] = total
	if page > 1 {
		b.data["PrevURL"] = pageURL(basePath, page-1)
	}
	if page*pageSize < total {
		b.data["NextURL"] = pageURL(basePath, page+1)
	}
	return b
}

// Build returns the accumulated data map.
func (b *TemplateDataBuilder) Build() map[string]any { return b.data }

func pageURL(basePath string, page int) string {
	if page <= 1 {
		return basePath
	}
	return basePath + "?page=" + strconv.Itoa(page)
}
