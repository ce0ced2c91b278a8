// internal/router/slug.go
//
// Slug helpers for the %s segment routes.
//
// MakeSlug reduces arbitrary text to lower-kebab ASCII so it is safe as a
// path segment: lower-case, any run of non-[a-z0-9] becomes one "-",
// leading/trailing dashes trimmed, capped at 100 bytes, "item" when
// nothing survives.  The page admin uses it to derive a slug from the
// title when the form leaves the slug blank.

package router

import "strings"

// MakeSlug converts title → lower-kebab ASCII.
func MakeSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "item"
	}
	if len(slug) > 100 {
		slug = strings.TrimRight(slug[:100], "-")
	}
	return slug
}

// JoinPath joins parent and slug with exactly one leading slash and no
// duplicate separators.
func JoinPath(parent, slug string) string {
	parent = strings.Trim(parent, "/")
	slug = strings.Trim(slug, "/")

	switch {
	case parent == "" && slug == "":
		return "/"
	case parent == "":
		return "/" + slug
	case slug == "":
		return "/" + parent
	default:
		return "/" + parent + "/" + slug
	}
}
