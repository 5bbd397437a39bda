package catalog

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alexanderramin/appletgen/internal/domain"
	"golang.org/x/net/html/charset"
)

// PageTitle heads the rendered index page.
const PageTitle = "Math Applets"

// endMarker closes the card list. html/template drops comments written in
// the template, so it is passed in as data.
const endMarker = template.HTML("<!-- end cards -->")

const defaultDescription = "Interactive mathematics visualization applet"

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

type indexData struct {
	Title     string
	Entries   []domain.CatalogEntry
	EndMarker template.HTML
}

// Render writes the full index page for cat. Output depends only on the
// entries.
func Render(w io.Writer, cat *Catalog) error {
	entries := cat.Entries()
	for i := range entries {
		if entries[i].Description == "" {
			entries[i].Description = defaultDescription
		}
	}
	if err := indexTmpl.Execute(w, indexData{Title: PageTitle, Entries: entries, EndMarker: endMarker}); err != nil {
		return fmt.Errorf("rendering index: %w", err)
	}
	return nil
}

// Load reads the cards of an existing index page. contentType may carry a
// charset parameter; otherwise the encoding is sniffed from the document.
func Load(r io.Reader, contentType string) (*Catalog, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("detecting index encoding: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}

	cat := New()
	doc.Find(".card").Each(func(_ int, card *goquery.Selection) {
		link, _ := card.Find("a.card-button").Attr("href")
		slug, ok := card.Attr("data-slug")
		if !ok || strings.TrimSpace(slug) == "" {
			// Cards written before data-slug existed only carry the link.
			slug = slugFromLink(link)
		}
		if slug == "" {
			return
		}
		if link == "" {
			link = domain.LinkForSlug(slug)
		}
		title := strings.TrimSpace(card.Find(".card-title").First().Text())
		if title == "" {
			title = slug
		}
		cat.Upsert(domain.CatalogEntry{
			Slug:        strings.TrimSpace(slug),
			Title:       title,
			Link:        link,
			Description: strings.TrimSpace(card.Find(".card-description").First().Text()),
		})
	})
	return cat, nil
}

// slugFromLink turns "./name/" or "name/index.html" into "name".
func slugFromLink(link string) string {
	link = strings.TrimSpace(link)
	link = strings.TrimSuffix(link, "index.html")
	link = strings.TrimPrefix(link, "./")
	link = strings.Trim(link, "/")
	if link == "" || strings.ContainsAny(link, "/:?#") {
		return ""
	}
	return link
}
