//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateSlug checks the URL-safe slug format shared by services,
// programs, resources, and blog posts.
func ValidateSlug(s string) error {
	if s == "" {
		return errors.New("slug is required")
	}
	if !slugRe.MatchString(s) {
		return errors.New("slug must be lowercase letters, digits, and hyphens")
	}
	return nil
}

// Slugify derives a slug from a title.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// PageSection is one editable block of a public page, addressed by
// (page_key, section_key).
type PageSection struct {
	ID            string    `json:"id"                       db:"id"`
	PageKey       string    `json:"page_key"                 db:"page_key"`
	SectionKey    string    `json:"section_key"              db:"section_key"`
	Title         string    `json:"title"                    db:"title"`
	Content       string    `json:"content"                  db:"content"`
	ImageURL      *string   `json:"image_url,omitempty"      db:"image_url"`
	ImagePosition *string   `json:"image_position,omitempty" db:"image_position"`
	OrderNum      int       `json:"order_num"                db:"order_num"`
	IsActive      bool      `json:"is_active"                db:"is_active"`
	CreatedAt     time.Time `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"               db:"updated_at"`
}

// TeamCategory groups team members on the public team page.
type TeamCategory string

const (
	TeamCategoryFounder    TeamCategory = "FOUNDER"
	TeamCategoryLeadership TeamCategory = "LEADERSHIP"
	TeamCategoryStaff      TeamCategory = "STAFF"
)

func (c TeamCategory) Valid() bool {
	switch c {
	case TeamCategoryFounder, TeamCategoryLeadership, TeamCategoryStaff:
		return true
	default:
		return false
	}
}

// TeamMember is a person shown on the team page. SocialsJSON holds the
// raw JSON object of social links, stored and displayed verbatim.
type TeamMember struct {
	ID          string       `json:"id"           db:"id"`
	Name        string       `json:"name"         db:"name"`
	RoleTitle   string       `json:"role_title"   db:"role_title"`
	Category    TeamCategory `json:"category"     db:"category"`
	Bio         string       `json:"bio"          db:"bio"`
	PhotoURL    *string      `json:"photo_url"    db:"photo_url"`
	SocialsJSON string       `json:"socials_json" db:"socials_json"`
	OrderNum    int          `json:"order_num"    db:"order_num"`
	IsActive    bool         `json:"is_active"    db:"is_active"`
	CreatedAt   time.Time    `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"   db:"updated_at"`
}

// Service is an offered service with a public detail page.
type Service struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Slug        string    `json:"slug"        db:"slug"`
	Description string    `json:"description" db:"description"`
	Details     string    `json:"details"     db:"details"`
	Duration    *string   `json:"duration"    db:"duration"`
	Price       *string   `json:"price"       db:"price"`
	Eligibility *string   `json:"eligibility" db:"eligibility"`
	OrderNum    int       `json:"order_num"   db:"order_num"`
	IsActive    bool      `json:"is_active"   db:"is_active"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}

// Validate checks required service fields.
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("title is required")
	}
	return ValidateSlug(s.Slug)
}

// ProgramStatus marks a program event as upcoming or past.
type ProgramStatus string

const (
	ProgramUpcoming ProgramStatus = "UPCOMING"
	ProgramPast     ProgramStatus = "PAST"
)

func (s ProgramStatus) Valid() bool { return s == ProgramUpcoming || s == ProgramPast }

// ProgramEvent is a program or community event.
type ProgramEvent struct {
	ID            string        `json:"id"             db:"id"`
	Title         string        `json:"title"          db:"title"`
	Slug          string        `json:"slug"           db:"slug"`
	Description   string        `json:"description"    db:"description"`
	EventDatetime *time.Time    `json:"event_datetime" db:"event_datetime"`
	Location      *string       `json:"location"       db:"location"`
	Link          *string       `json:"link"           db:"link"`
	ImageURL      *string       `json:"image_url"      db:"image_url"`
	Status        ProgramStatus `json:"status"         db:"status"`
	IsActive      bool          `json:"is_active"      db:"is_active"`
	CreatedAt     time.Time     `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"     db:"updated_at"`
}

// Resource is a downloadable document or guide.
type Resource struct {
	ID            string    `json:"id"             db:"id"`
	Title         string    `json:"title"          db:"title"`
	Slug          string    `json:"slug"           db:"slug"`
	Description   string    `json:"description"    db:"description"`
	Category      string    `json:"category"       db:"category"`
	Tags          []string  `json:"tags"           db:"tags"`
	FileURL       *string   `json:"file_url"       db:"file_url"`
	CoverURL      *string   `json:"cover_url"      db:"cover_url"`
	DownloadCount int       `json:"download_count" db:"download_count"`
	IsActive      bool      `json:"is_active"      db:"is_active"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"     db:"updated_at"`
}

// BlogPost is a published article.
type BlogPost struct {
	ID          string     `json:"id"           db:"id"`
	Title       string     `json:"title"        db:"title"`
	Slug        string     `json:"slug"         db:"slug"`
	Excerpt     string     `json:"excerpt"      db:"excerpt"`
	Content     string     `json:"content"      db:"content"`
	CoverURL    *string    `json:"cover_url"    db:"cover_url"`
	AuthorName  string     `json:"author_name"  db:"author_name"`
	Tags        []string   `json:"tags"         db:"tags"`
	Published   bool       `json:"published"    db:"published"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"   db:"updated_at"`
}

// MediaType distinguishes gallery items.
type MediaType string

const (
	MediaPhoto MediaType = "PHOTO"
	MediaVideo MediaType = "VIDEO"
)

func (t MediaType) Valid() bool { return t == MediaPhoto || t == MediaVideo }

// MediaItem is a photo or video in the public gallery.
type MediaItem struct {
	ID           string    `json:"id"            db:"id"`
	Type         MediaType `json:"type"          db:"type"`
	Title        string    `json:"title"         db:"title"`
	URL          string    `json:"url"           db:"url"`
	ThumbnailURL *string   `json:"thumbnail_url" db:"thumbnail_url"`
	OrderNum     int       `json:"order_num"     db:"order_num"`
	IsActive     bool      `json:"is_active"     db:"is_active"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}

// FAQItem is one question/answer pair, grouped by category.
type FAQItem struct {
	ID        string    `json:"id"         db:"id"`
	Question  string    `json:"question"   db:"question"`
	Answer    string    `json:"answer"     db:"answer"`
	Category  string    `json:"category"   db:"category"`
	OrderNum  int       `json:"order_num"  db:"order_num"`
	IsActive  bool      `json:"is_active"  db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LegalPage is a static legal document (privacy, terms, disclaimer)
// addressed by page_key.
type LegalPage struct {
	ID        string    `json:"id"         db:"id"`
	PageKey   string    `json:"page_key"   db:"page_key"`
	Title     string    `json:"title"      db:"title"`
	Content   string    `json:"content"    db:"content"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SiteSetting is one key/value pair of site-wide configuration.
type SiteSetting struct {
	ID        string    `json:"id"         db:"id"`
	Key       string    `json:"key"        db:"key"`
	Value     string    `json:"value"      db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
