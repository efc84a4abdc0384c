package repository

import "strings"

// Slugify turns a loan name into the filename stem used as its id:
// lowercase, alphanumerics kept, everything else collapsed to single
// hyphens. An empty result falls back to "loan".
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "loan"
	}
	return slug
}
