// Package render maps a persisted content document to the public landing
// page. It is tolerant by construction: every field is optional, absent
// fields are omitted, and no content shape can make rendering fail.
package render

import (
	"strings"

	"github.com/slateworks/slate/internal/domain"
)

// DefaultHeroTitle is the only synthesized placeholder: a landing page with
// no hero title still needs a headline.
const DefaultHeroTitle = "Welcome"

// Hero is the landing page's lead block.
type Hero struct {
	Title    string
	Subtitle string
	CTAText  string
	CTALink  string
	BGImage  string
}

// ShowCTA reports whether the call-to-action button renders: both the text
// and the link must be present.
func (h Hero) ShowCTA() bool {
	return h.CTAText != "" && h.CTALink != ""
}

// Contact is the landing page's footer block.
type Contact struct {
	Email   string
	Phone   string
	Address string
}

// Any reports whether the footer renders at all.
func (c Contact) Any() bool {
	return c.Email != "" || c.Phone != "" || c.Address != ""
}

// Page is the display tree for one public landing page.
type Page struct {
	SiteName string
	Hero     Hero
	Contact  Contact
}

// BuildPage derives the display tree from a content document. Pure; never
// fails; unknown sections and fields are ignored.
func BuildPage(siteName string, content domain.Content) Page {
	hero := content["hero"]
	contact := content["contact"]

	p := Page{
		SiteName: siteName,
		Hero: Hero{
			Title:    hero["title"],
			Subtitle: hero["subtitle"],
			CTAText:  hero["ctaText"],
			CTALink:  normalizeLink(hero["ctaLink"]),
			BGImage:  hero["bg_image"],
		},
		Contact: Contact{
			Email:   contact["email"],
			Phone:   contact["phone"],
			Address: contact["address"],
		},
	}

	if p.Hero.Title == "" {
		p.Hero.Title = DefaultHeroTitle
	}

	return p
}

// normalizeLink prefixes scheme-less CTA links with https:// so a bare
// "example.com" still leaves the page as an absolute URL.
func normalizeLink(link string) string {
	if link == "" || strings.HasPrefix(link, "http") {
		return link
	}
	return "https://" + link
}
