package errors

import (
	"context"
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the field name from a unique violation detail:
// "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// tableLabels maps content tables to the label shown in user-facing
// foreign-key messages.
var tableLabels = map[string]string{
	"services":             "a service",
	"booking_requests":     "a booking request",
	"blog_posts":           "a blog post",
	"program_events":       "a program",
	"resources":            "a resource",
	"media_items":          "a media item",
	"profiles":             "a user",
	"contact_messages":     "a contact message",
	"subscribers":          "a subscriber",
	"team_members":         "a team member",
	"faq_items":            "an FAQ item",
	"page_sections":        "a page section",
	"legal_pages":          "a legal page",
	"site_settings":        "a site setting",
	"volunteer_applications": "a volunteer application",
}

// MapDBError maps database errors to AppError instances:
// pgx.ErrNoRows → NotFound, unique violations → Conflict (field-tagged,
// covering duplicate slugs and emails), foreign keys → ForeignKey,
// check/not-null violations → Validation, context deadline → Timeout.
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field := pgErr.ColumnName
		if field == "" && pgErr.Detail != "" {
			if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
				field = m[1]
			}
		}
		msg := "This value already exists. Please choose a different one."
		switch field {
		case "slug":
			msg = "This slug is already in use."
		case "email":
			msg = "This email address is already registered."
		}
		return &AppError{Code: ErrCodeConflict, Message: msg, Field: field, Cause: pgErr}

	case pgerrcode.ForeignKeyViolation:
		label := tableLabels[pgErr.TableName]
		if label == "" {
			label = "another record"
		}
		return &AppError{
			Code:    ErrCodeForeignKey,
			Message: "Cannot complete the operation because this item is linked to " + label + ".",
			Cause:   pgErr,
		}

	case pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field is required.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}

	case pgerrcode.CheckViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Invalid data. Please check your input.",
			Cause:   pgErr,
		}

	default:
		return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: pgErr}
	}
}
