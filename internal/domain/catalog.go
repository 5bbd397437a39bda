package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CatalogEntry is one applet listed on the public index page.
type CatalogEntry struct {
	Slug        string
	Title       string
	Link        string
	Description string
}

// DefaultSlug is used when a title has no usable characters.
const DefaultSlug = "applet"

// SharedAssetDir is the public-site folder holding the shared Zdog build.
// No applet may be published under it.
const SharedAssetDir = "js"

// IsReservedSlug reports whether slug names a public-site folder that is not
// an applet.
func IsReservedSlug(slug string) bool {
	return slug == SharedAssetDir
}

// DescriptionLimit caps the card description taken from the question text.
const DescriptionLimit = 150

// NewCatalogEntry builds the index entry for a record.
func NewCatalogEntry(r *AppletRecord) CatalogEntry {
	slug := r.Slug()
	return CatalogEntry{
		Slug:        slug,
		Title:       r.Title,
		Link:        LinkForSlug(slug),
		Description: Summarize(r.QuestionText, DescriptionLimit),
	}
}

// LinkForSlug returns the relative link of an applet from the index page.
func LinkForSlug(slug string) string {
	return "./" + slug + "/"
}

// Slugify lowercases title, strips diacritics and collapses every run of
// characters outside [a-z0-9] into a single hyphen. A result that collides
// with a reserved folder gets the DefaultSlug suffix.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, c := range folded {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(c)
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return DefaultSlug
	}
	slug := b.String()
	if IsReservedSlug(slug) {
		return slug + "-" + DefaultSlug
	}
	return slug
}

// Summarize collapses whitespace and truncates s to at most limit runes,
// marking the cut with "...".
func Summarize(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if limit <= 3 || len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit-3])) + "..."
}
