//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "strings"

const defaultPageSize = 20

// ListOptions controls paging, search, and ordering for list queries.
// Q matches via ILIKE substring against the entity's searchable columns.
// Sort/Dir are validated per repository against an allowlist.
type ListOptions struct {
	Limit  int
	Offset int
	Q      string
	Sort   string
	Dir    string
}

// Normalized returns a copy with paging clamped and direction lowered.
func (o ListOptions) Normalized() ListOptions {
	out := o
	if out.Limit <= 0 {
		out.Limit = defaultPageSize
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	out.Q = strings.TrimSpace(out.Q)
	out.Dir = strings.ToLower(strings.TrimSpace(out.Dir))
	if out.Dir != "asc" && out.Dir != "desc" {
		out.Dir = ""
	}
	return out
}
