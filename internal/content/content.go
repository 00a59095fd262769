// Package content holds the read-only portfolio data the site renders.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

var (
	// ErrDuplicate is returned when two records share a lookup key.
	ErrDuplicate = errors.New("duplicate key")
	// ErrEmptyKey is returned when a keyed record has no key.
	ErrEmptyKey = errors.New("empty key")
)

type Profile struct {
	Name      string `yaml:"name" json:"name"`
	Headline  string `yaml:"headline" json:"headline"`
	HeroImage string `yaml:"hero_image" json:"hero_image,omitempty"`
	Photo     string `yaml:"photo" json:"photo,omitempty"`
	Resume    string `yaml:"resume" json:"resume,omitempty"`
	Email     string `yaml:"email" json:"email"`
	Phone     string `yaml:"phone" json:"phone,omitempty"`
	Location  string `yaml:"location" json:"location,omitempty"`
	GitHub    string `yaml:"github" json:"github,omitempty"`
	LinkedIn  string `yaml:"linkedin" json:"linkedin,omitempty"`
	// About is markdown.
	About string `yaml:"about" json:"about"`
}

// SkillCategory is one expertise card. Name is unique within a Store.
type SkillCategory struct {
	Name   string   `yaml:"name" json:"name"`
	Icon   string   `yaml:"icon" json:"icon,omitempty"`
	Skills []string `yaml:"skills" json:"skills"`
}

type ExperienceEntry struct {
	Title        string   `yaml:"title" json:"title"`
	Company      string   `yaml:"company" json:"company"`
	Badge        string   `yaml:"badge" json:"badge,omitempty"`
	Period       string   `yaml:"period" json:"period"`
	Project      string   `yaml:"project" json:"project,omitempty"`
	Technologies []string `yaml:"technologies" json:"technologies,omitempty"`
	Achievements []string `yaml:"achievements" json:"achievements"`
}

type EducationEntry struct {
	Degree   string   `yaml:"degree" json:"degree"`
	School   string   `yaml:"school" json:"school"`
	Period   string   `yaml:"period" json:"period"`
	Location string   `yaml:"location" json:"location"`
	GPA      string   `yaml:"gpa" json:"gpa,omitempty"`
	Courses  []string `yaml:"courses" json:"courses,omitempty"`
}

// ProjectEntry is one gallery item. Title is unique within a Store and
// selects a custom visual when one exists.
type ProjectEntry struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Image        string   `yaml:"image" json:"image"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Repository   string   `yaml:"repository" json:"repository"`
	Demo         string   `yaml:"demo" json:"demo,omitempty"`
}

type CertificateEntry struct {
	Name   string `yaml:"name" json:"name"`
	Issuer string `yaml:"issuer" json:"issuer"`
	Image  string `yaml:"image" json:"image"`
	Link   string `yaml:"link" json:"link"`
}

type document struct {
	Profile      Profile            `yaml:"profile"`
	Expertise    []SkillCategory    `yaml:"expertise"`
	Education    []EducationEntry   `yaml:"education"`
	Experience   []ExperienceEntry  `yaml:"experience"`
	Projects     []ProjectEntry     `yaml:"projects"`
	Certificates []CertificateEntry `yaml:"certificates"`
}

// Store is an immutable set of portfolio records. Accessors return copies,
// so callers cannot mutate what other readers see.
type Store struct {
	doc        document
	categories map[string]int
	projects   map[string]int
}

// Default returns the store built from the embedded content file.
func Default() (*Store, error) {
	return Load(bytes.NewReader(defaultContent))
}

// LoadFile reads a store from a YAML file on disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening content %s: %w", path, err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading content %s: %w", path, err)
	}
	return s, nil
}

// Load decodes and validates a YAML content document.
func Load(r io.Reader) (*Store, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	return New(doc.Profile, doc.Expertise, doc.Education, doc.Experience, doc.Projects, doc.Certificates)
}

// New builds a store from already decoded records. Any list may be empty.
func New(profile Profile, expertise []SkillCategory, education []EducationEntry, experience []ExperienceEntry, projects []ProjectEntry, certificates []CertificateEntry) (*Store, error) {
	s := &Store{
		doc: document{
			Profile:      profile,
			Expertise:    cloneCategories(expertise),
			Education:    cloneEducation(education),
			Experience:   cloneExperience(experience),
			Projects:     cloneProjects(projects),
			Certificates: append([]CertificateEntry(nil), certificates...),
		},
		categories: make(map[string]int, len(expertise)),
		projects:   make(map[string]int, len(projects)),
	}

	for i, c := range s.doc.Expertise {
		if c.Name == "" {
			return nil, fmt.Errorf("skill category %d: %w", i, ErrEmptyKey)
		}
		if _, ok := s.categories[c.Name]; ok {
			return nil, fmt.Errorf("skill category %q: %w", c.Name, ErrDuplicate)
		}
		s.categories[c.Name] = i
	}
	for i, p := range s.doc.Projects {
		if p.Title == "" {
			return nil, fmt.Errorf("project %d: %w", i, ErrEmptyKey)
		}
		if _, ok := s.projects[p.Title]; ok {
			return nil, fmt.Errorf("project %q: %w", p.Title, ErrDuplicate)
		}
		s.projects[p.Title] = i
	}
	return s, nil
}

func (s *Store) Profile() Profile { return s.doc.Profile }

func (s *Store) Expertise() []SkillCategory { return cloneCategories(s.doc.Expertise) }

func (s *Store) Education() []EducationEntry { return cloneEducation(s.doc.Education) }

func (s *Store) Experience() []ExperienceEntry { return cloneExperience(s.doc.Experience) }

func (s *Store) Projects() []ProjectEntry { return cloneProjects(s.doc.Projects) }

func (s *Store) Certificates() []CertificateEntry {
	return append([]CertificateEntry(nil), s.doc.Certificates...)
}

// CategoryNames lists skill category names in display order.
func (s *Store) CategoryNames() []string {
	names := make([]string, len(s.doc.Expertise))
	for i, c := range s.doc.Expertise {
		names[i] = c.Name
	}
	return names
}

// HasSkillCategory reports whether a category with the given name exists.
func (s *Store) HasSkillCategory(name string) bool {
	_, ok := s.categories[name]
	return ok
}

// Project looks up a project by title.
func (s *Store) Project(title string) (ProjectEntry, bool) {
	i, ok := s.projects[title]
	if !ok {
		return ProjectEntry{}, false
	}
	return cloneProjects(s.doc.Projects[i : i+1])[0], true
}

// Counts summarizes list sizes, keyed by section name.
func (s *Store) Counts() map[string]int {
	return map[string]int{
		"expertise":    len(s.doc.Expertise),
		"education":    len(s.doc.Education),
		"experience":   len(s.doc.Experience),
		"projects":     len(s.doc.Projects),
		"certificates": len(s.doc.Certificates),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneCategories(in []SkillCategory) []SkillCategory {
	out := make([]SkillCategory, len(in))
	for i, c := range in {
		c.Skills = cloneStrings(c.Skills)
		out[i] = c
	}
	return out
}

func cloneEducation(in []EducationEntry) []EducationEntry {
	out := make([]EducationEntry, len(in))
	for i, e := range in {
		e.Courses = cloneStrings(e.Courses)
		out[i] = e
	}
	return out
}

func cloneExperience(in []ExperienceEntry) []ExperienceEntry {
	out := make([]ExperienceEntry, len(in))
	for i, e := range in {
		e.Technologies = cloneStrings(e.Technologies)
		e.Achievements = cloneStrings(e.Achievements)
		out[i] = e
	}
	return out
}

func cloneProjects(in []ProjectEntry) []ProjectEntry {
	out := make([]ProjectEntry, len(in))
	for i, p := range in {
		p.Technologies = cloneStrings(p.Technologies)
		out[i] = p
	}
	return out
}
