// Package devseed populates a development database with a few staff
// accounts and enough site content to click through every page. Seeding
// is idempotent: rows that already exist are left alone.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harborlight-collective/harborlight/internal/data"
	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
	"github.com/harborlight-collective/harborlight/internal/ports"
)

// DevPassword is the password every seeded staff account gets.
const DevPassword = "harborlight-dev"

// Deps bundles the dependencies needed for development seeding.
type Deps struct {
	DB       *sql.DB
	Users    ports.UserAdmin
	Profiles *data.ProfileRepo

	Sections *data.PageSectionRepo
	Team     *data.TeamRepo
	Services *data.ServiceRepo
	Programs *data.ProgramRepo
	Blog     *data.BlogRepo
	FAQ      *data.FAQRepo
	Legal    *data.LegalRepo
	Settings *data.SettingsRepo
}

// Run seeds staff accounts and site content. Existing rows are skipped,
// so it is safe to run repeatedly.
func Run(ctx context.Context, deps Deps, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	users, err := seedUsers(ctx, deps)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	content, err := seedContent(ctx, deps)
	if err != nil {
		return fmt.Errorf("seed content: %w", err)
	}

	logger.InfoContext(ctx, "development seed complete",
		"users_created", users,
		"content_created", content,
		"dev_password", DevPassword,
	)
	return nil
}

func seedUsers(ctx context.Context, deps Deps) (int, error) {
	seeds := []ports.NewUser{
		{Email: "owner@harborlight.local", FullName: "Sam Reyes", Role: domainauth.RoleSuperAdmin},
		{Email: "admin@harborlight.local", FullName: "Priya Nair", Role: domainauth.RoleAdmin},
		{Email: "editor@harborlight.local", FullName: "Jo Whitfield", Role: domainauth.RoleEditor},
	}

	created := 0
	for _, in := range seeds {
		if _, err := deps.Profiles.GetByEmail(ctx, in.Email); err == nil {
			continue
		} else if !apperrors.IsNotFound(err) {
			return created, err
		}

		in.Password = DevPassword
		if _, err := deps.Users.CreateUser(ctx, in); err != nil {
			if apperrors.IsConflict(err) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

//nolint:gocyclo // linear sequence of independent seed groups.
func seedContent(ctx context.Context, deps Deps) (int, error) {
	created := 0

	for _, s := range defaultSections() {
		ok, err := createSectionIfMissing(ctx, deps.Sections, s)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	existingTeam, err := deps.Team.Count(ctx, data.TeamListOptions{})
	if err != nil {
		return created, err
	}
	if existingTeam == 0 {
		for _, m := range defaultTeam() {
			if _, err := deps.Team.Create(ctx, m); err != nil {
				return created, err
			}
			created++
		}
	}

	for _, svc := range defaultServices() {
		ok, err := createServiceIfMissing(ctx, deps.Services, svc)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	for _, p := range defaultPrograms() {
		if _, err := deps.Programs.GetBySlug(ctx, p.Slug); err == nil {
			continue
		} else if !apperrors.IsNotFound(err) {
			return created, err
		}
		if _, err := deps.Programs.Create(ctx, p); err != nil {
			return created, err
		}
		created++
	}

	for _, post := range defaultPosts() {
		if _, err := deps.Blog.GetPublishedBySlug(ctx, post.Slug); err == nil {
			continue
		} else if !apperrors.IsNotFound(err) {
			return created, err
		}
		if _, err := deps.Blog.Create(ctx, post); err != nil {
			if apperrors.IsConflict(err) {
				continue
			}
			return created, err
		}
		created++
	}

	existingFAQ, err := deps.FAQ.Count(ctx, model.ListOptions{})
	if err != nil {
		return created, err
	}
	if existingFAQ == 0 {
		for _, f := range defaultFAQ() {
			if _, err := deps.FAQ.Create(ctx, f); err != nil {
				return created, err
			}
			created++
		}
	}

	for _, p := range defaultLegal() {
		if _, err := deps.Legal.GetByKey(ctx, p.PageKey); err == nil {
			continue
		} else if !apperrors.IsNotFound(err) {
			return created, err
		}
		if _, err := deps.Legal.Upsert(ctx, p); err != nil {
			return created, err
		}
		created++
	}

	for key, value := range defaultSettings() {
		if _, err := deps.Settings.Get(ctx, key); err == nil {
			continue
		} else if !apperrors.IsNotFound(err) {
			return created, err
		}
		if _, err := deps.Settings.Upsert(ctx, key, value); err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}

func createSectionIfMissing(ctx context.Context, repo *data.PageSectionRepo, s *model.PageSection) (bool, error) {
	existing, err := repo.ListForPage(ctx, s.PageKey)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e.SectionKey == s.SectionKey {
			return false, nil
		}
	}
	if _, err := repo.Create(ctx, s); err != nil {
		return false, err
	}
	return true, nil
}

func createServiceIfMissing(ctx context.Context, repo *data.ServiceRepo, s *model.Service) (bool, error) {
	_, err := repo.GetBySlug(ctx, s.Slug)
	if err == nil {
		return false, nil
	}
	if !apperrors.IsNotFound(err) {
		return false, err
	}
	if _, createErr := repo.Create(ctx, s); createErr != nil {
		return false, createErr
	}
	return true, nil
}

func defaultSections() []*model.PageSection {
	return []*model.PageSection{
		{
			PageKey:    "home",
			SectionKey: "hero",
			Title:      "A safe harbor for every family",
			Content:    "Harborlight Collective offers counseling, advocacy, and community programs at no cost to the families who need them.",
			OrderNum:   1,
			IsActive:   true,
		},
		{
			PageKey:    "home",
			SectionKey: "mission",
			Title:      "Our mission",
			Content:    "We believe stability is the foundation families build everything else on. Our staff and volunteers walk alongside households through crisis and into long-term security.",
			OrderNum:   2,
			IsActive:   true,
		},
		{
			PageKey:    "about",
			SectionKey: "story",
			Title:      "How we started",
			Content:    "Founded in 2014 by two social workers out of a church basement, Harborlight now serves over four hundred families a year across the harbor district.",
			OrderNum:   1,
			IsActive:   true,
		},
		{
			PageKey:    "about",
			SectionKey: "values",
			Title:      "What guides us",
			Content:    "Dignity first. Families lead, we follow. No one pays for care.",
			OrderNum:   2,
			IsActive:   true,
		},
	}
}

func defaultTeam() []*model.TeamMember {
	return []*model.TeamMember{
		{
			Name:        "Sam Reyes",
			RoleTitle:   "Executive Director",
			Category:    model.TeamCategoryFounder,
			Bio:         "Sam co-founded Harborlight after a decade in child and family services.",
			SocialsJSON: "{}",
			OrderNum:    1,
			IsActive:    true,
		},
		{
			Name:        "Priya Nair",
			RoleTitle:   "Program Director",
			Category:    model.TeamCategoryLeadership,
			Bio:         "Priya oversees counseling services and the volunteer program.",
			SocialsJSON: "{}",
			OrderNum:    2,
			IsActive:    true,
		},
		{
			Name:        "Jo Whitfield",
			RoleTitle:   "Community Coordinator",
			Category:    model.TeamCategoryStaff,
			Bio:         "Jo runs intake and keeps the community calendar full.",
			SocialsJSON: "{}",
			OrderNum:    3,
			IsActive:    true,
		},
	}
}

func defaultServices() []*model.Service {
	duration := "50 minutes"
	eligibility := "Open to residents of the harbor district"
	return []*model.Service{
		{
			Title:       "Family Counseling",
			Slug:        "family-counseling",
			Description: "One-on-one and family counseling sessions with licensed clinicians.",
			Details:     "Sessions are available weekdays and two evenings a week. Interpretation is available on request.",
			Duration:    &duration,
			Eligibility: &eligibility,
			OrderNum:    1,
			IsActive:    true,
		},
		{
			Title:       "Housing Advocacy",
			Slug:        "housing-advocacy",
			Description: "Advocates who navigate housing applications, disputes, and emergency placement with you.",
			Details:     "Bring any notices or paperwork you have received. Walk-ins welcome on Tuesdays.",
			OrderNum:    2,
			IsActive:    true,
		},
	}
}

func defaultPrograms() []*model.ProgramEvent {
	when := time.Now().AddDate(0, 1, 0).Truncate(time.Hour)
	location := "Harborlight Community Room"
	return []*model.ProgramEvent{
		{
			Title:         "Community Dinner Night",
			Slug:          "community-dinner-night",
			Description:   "A monthly shared meal for families in the program and their neighbors.",
			EventDatetime: &when,
			Location:      &location,
			Status:        model.ProgramUpcoming,
			IsActive:      true,
		},
	}
}

func defaultPosts() []*model.BlogPost {
	publishedAt := time.Now().AddDate(0, 0, -7)
	return []*model.BlogPost{
		{
			Title:       "Welcome to the new Harborlight site",
			Slug:        "welcome-to-the-new-site",
			Excerpt:     "A fresh home for our programs, resources, and stories from the community.",
			Content:     "We rebuilt our site so families can find services faster and supporters can see the work up close. Have a look around, and tell us what you think through the contact page.",
			AuthorName:  "Sam Reyes",
			Tags:        []string{"announcements"},
			Published:   true,
			PublishedAt: &publishedAt,
		},
	}
}

func defaultFAQ() []*model.FAQItem {
	return []*model.FAQItem{
		{
			Question: "Do your services cost anything?",
			Answer:   "No. Every Harborlight program is free for participants.",
			Category: "Services",
			OrderNum: 1,
			IsActive: true,
		},
		{
			Question: "How do I volunteer?",
			Answer:   "Fill out the form on the Get Involved page and our coordinator will reach out within a week.",
			Category: "Volunteering",
			OrderNum: 1,
			IsActive: true,
		},
	}
}

func defaultLegal() []*model.LegalPage {
	return []*model.LegalPage{
		{
			PageKey: "privacy",
			Title:   "Privacy Policy",
			Content: "We collect only the information needed to deliver services and never sell or share personal data.",
		},
		{
			PageKey: "terms",
			Title:   "Terms of Use",
			Content: "Content on this site is provided for general information about Harborlight Collective programs.",
		},
	}
}

func defaultSettings() map[string]string {
	return map[string]string{
		"contact_email": "hello@harborlight.local",
		"contact_phone": "(555) 010-4400",
		"address":       "12 Quay Street, Harbor District",
	}
}

// ResetSchema drops and recreates the public schema. Dev only.
func ResetSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("db handle is required")
	}
	_, err := db.ExecContext(ctx, `DROP SCHEMA public CASCADE; CREATE SCHEMA public;`)
	if err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	return nil
}
