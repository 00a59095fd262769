// Package render maps the content store and a visitor's view state to the
// page model the HTML templates consume.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/varunkk24/portfolio/internal/content"
)

//go:embed templates/*.html
var templateFS embed.FS

// State is the read side of the view-state controller.
type State interface {
	Dark() bool
	Scrolled() bool
	Expanded(name string) bool
	ExpandedSkills() []string
}

// ProjectVisual names the hand-built illustration used in place of a
// project's image, or "" when the image is shown.
func ProjectVisual(title string) string {
	switch title {
	case "Apply AI":
		return "apply-ai"
	case "Medical AI Assistant":
		return "medical-ai"
	case "Enterprise-Grade Full-Stack Application with Kubernetes":
		return "kubernetes"
	}
	return ""
}

var sections = []struct{ label, anchor string }{
	{"Home", "home"},
	{"About", "about"},
	{"Experience", "experience"},
	{"Education", "education"},
	{"Expertise", "expertise"},
	{"Projects", "projects"},
	{"Certifications", "certifications"},
	{"Contact", "contact"},
}

type NavLink struct {
	Label string
	Href  string
	Class string
}

type ThemeIcon struct {
	Name  string
	Class string
	Label string
}

// Nav is the navigation fragment. Open repeats the expanded categories so
// a plain theme form post keeps them.
type Nav struct {
	Links []NavLink
	Icon  ThemeIcon
	Dark  bool
	Open  []string
}

type SkillCard struct {
	content.SkillCategory
	Expanded bool
}

type ProjectCard struct {
	content.ProjectEntry
	Visual string
}

// Page is everything the page template needs.
type Page struct {
	RootClass    string
	Nav          Nav
	Profile      content.Profile
	About        template.HTML
	Experience   []content.ExperienceEntry
	Education    []content.EducationEntry
	Expertise    Expertise
	Projects     []ProjectCard
	Certificates []content.CertificateEntry
}

// Expertise is the skill grid fragment. Open holds the currently expanded
// names so each card can post the full set back.
type Expertise struct {
	Cards []SkillCard
	Open  []string
}

// Build is a pure function of its inputs.
func Build(store *content.Store, state State) Page {
	p := Page{
		Nav:          BuildNav(state),
		Profile:      store.Profile(),
		About:        Markdown(store.Profile().About),
		Experience:   store.Experience(),
		Education:    store.Education(),
		Expertise:    BuildExpertise(store, state),
		Certificates: store.Certificates(),
	}
	if state.Dark() {
		p.RootClass = "dark"
	}

	projects := store.Projects()
	p.Projects = make([]ProjectCard, len(projects))
	for i, pr := range projects {
		p.Projects[i] = ProjectCard{ProjectEntry: pr, Visual: ProjectVisual(pr.Title)}
	}
	return p
}

// BuildNav renders the navigation model for the given state.
func BuildNav(state State) Nav {
	class := NavLinkClass(state.Dark(), state.Scrolled())
	links := make([]NavLink, len(sections))
	for i, s := range sections {
		links[i] = NavLink{Label: s.label, Href: "#" + s.anchor, Class: class}
	}
	return Nav{
		Links: links,
		Icon:  ThemeToggleIcon(state.Dark()),
		Dark:  state.Dark(),
		Open:  state.ExpandedSkills(),
	}
}

// BuildExpertise renders the skill grid for the given state.
func BuildExpertise(store *content.Store, state State) Expertise {
	cats := store.Expertise()
	cards := make([]SkillCard, len(cats))
	for i, c := range cats {
		cards[i] = SkillCard{SkillCategory: c, Expanded: state.Expanded(c.Name)}
	}
	return Expertise{Cards: cards, Open: state.ExpandedSkills()}
}

// NavLinkClass picks the link color. Links stay white on the dark theme and
// over the hero image; they turn black once a light page scrolls past it.
func NavLinkClass(dark, scrolled bool) string {
	color := "text-white"
	if !dark && scrolled {
		color = "text-black"
	}
	return "transition-colors hover:text-blue-500 " + color
}

func ThemeToggleIcon(dark bool) ThemeIcon {
	if dark {
		return ThemeIcon{Name: "sun", Class: "text-yellow-400", Label: "Switch to light mode"}
	}
	return ThemeIcon{Name: "moon", Class: "text-white", Label: "Switch to dark mode"}
}

var md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Typographer))

// Markdown converts trusted markdown to HTML. Conversion errors yield the
// escaped source.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// ExpandedQuery encodes an expanded set for a page URL.
func ExpandedQuery(names []string) string {
	v := url.Values{}
	for _, n := range names {
		v.Add("expanded", n)
	}
	return v.Encode()
}

var funcs = template.FuncMap{
	"anchor": func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), ""))
	},
	"join": strings.Join,
	"last": func(i, n int) bool { return i == n-1 },
	"list": func(items ...string) []string { return items },
}

// Templates parses the embedded page and fragment templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
