// Package catalog loads the game's lookup tables: ideologies, policy questions,
// donation laws, committee templates, departments, policies, and name pools.
// Built-in defaults are embedded; any file can be replaced from a directory.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/talgya/polity/internal/finance"
	"github.com/talgya/polity/internal/generator"
	"github.com/talgya/polity/internal/ideology"
	"github.com/talgya/polity/internal/policy"
	"github.com/talgya/polity/internal/social"
)

//go:embed data/*.yaml
var builtin embed.FS

// ErrEmpty is returned when a required table loads with no entries.
var ErrEmpty = errors.New("catalog table is empty")

const (
	fileIdeologies    = "ideologies.yaml"
	fileQuestions     = "questions.yaml"
	fileLaws          = "laws.yaml"
	fileCommittees    = "committees.yaml"
	fileDepartments   = "departments.yaml"
	fileJurisdictions = "jurisdictions.yaml"
	filePolicies      = "policies.yaml"
	fileNames         = "names.yaml"
	fileCosmetics     = "cosmetics.yaml"
)

// Catalog is every lookup table the game reads.
type Catalog struct {
	Ideologies    []ideology.Ideology
	Questions     []ideology.Question
	Laws          []finance.Law
	Committees    []social.CommitteeTemplate
	Departments   []policy.Department
	Jurisdictions map[policy.Level]policy.Stats
	Policies      []policy.Policy
	Names         Names
	Cosmetics     generator.Cosmetics

	ideologies *ideology.Catalog
}

// Default loads only the embedded tables.
func Default() (*Catalog, error) {
	return Load("")
}

// Load reads every table, taking a file from dir when it exists there and from the
// embedded defaults otherwise. An empty dir means defaults only.
func Load(dir string) (*Catalog, error) {
	src := source{dir: dir}
	c := &Catalog{}

	steps := []struct {
		file     string
		into     any
		required bool
	}{
		{fileIdeologies, &c.Ideologies, true},
		{fileQuestions, &c.Questions, true},
		{fileLaws, &c.Laws, true},
		{fileCommittees, &c.Committees, false},
		{fileDepartments, &c.Departments, false},
		{fileJurisdictions, &c.Jurisdictions, false},
		{filePolicies, &c.Policies, false},
		{fileNames, &c.Names, false},
		{fileCosmetics, &c.Cosmetics, false},
	}
	for _, st := range steps {
		if err := src.decode(st.file, st.into); err != nil {
			return nil, err
		}
	}

	if len(c.Ideologies) == 0 {
		return nil, fmt.Errorf("load %s: %w", fileIdeologies, ErrEmpty)
	}
	if len(c.Questions) == 0 {
		return nil, fmt.Errorf("load %s: %w", fileQuestions, ErrEmpty)
	}
	if len(c.Laws) == 0 {
		return nil, fmt.Errorf("load %s: %w", fileLaws, ErrEmpty)
	}

	for _, p := range c.Policies {
		for i, raw := range p.Effects {
			if _, err := policy.Decode(raw); err != nil {
				slog.Warn("policy effect will be skipped", "policy", p.ID, "effect", i, "error", err)
			}
		}
	}

	c.ideologies = ideology.NewCatalog(c.Ideologies)
	slog.Info("catalog loaded",
		"dir", dir,
		"ideologies", len(c.Ideologies),
		"questions", len(c.Questions),
		"laws", len(c.Laws),
		"committees", len(c.Committees),
		"departments", len(c.Departments),
		"policies", len(c.Policies),
	)
	return c, nil
}

// IdeologyCatalog returns the indexed ideologies.
func (c *Catalog) IdeologyCatalog() *ideology.Catalog {
	if c.ideologies == nil {
		c.ideologies = ideology.NewCatalog(c.Ideologies)
	}
	return c.ideologies
}

// Law returns the donation law with the given id.
func (c *Catalog) Law(id string) (*finance.Law, bool) {
	for i := range c.Laws {
		if c.Laws[i].ID == id {
			law := c.Laws[i]
			return &law, true
		}
	}
	return nil, false
}

// Policy returns the enactable policy with the given id.
func (c *Catalog) Policy(id string) (policy.Policy, bool) {
	for _, p := range c.Policies {
		if p.ID == id {
			return p, true
		}
	}
	return policy.Policy{}, false
}

// InitialState seeds jurisdiction statistics from the base tables and departments.
func (c *Catalog) InitialState() *policy.State {
	return policy.Seed(c.Jurisdictions, c.Departments)
}

type source struct {
	dir string
}

func (s source) read(name string) ([]byte, string, error) {
	if s.dir != "" {
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, fmt.Errorf("read %s: %w", path, err)
		}
	}
	data, err := builtin.ReadFile("data/" + name)
	if err != nil {
		return nil, name, fmt.Errorf("read builtin %s: %w", name, err)
	}
	return data, "builtin:" + name, nil
}

func (s source) decode(name string, into any) error {
	data, from, err := s.read(name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse %s: %w", from, err)
	}
	return nil
}
