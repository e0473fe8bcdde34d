// Package views maps the three dashboard pages to the engine calls that
// produce their sections.
package views

import (
	"fmt"
	"strings"

	"github.com/lisacrebassa/pals-analysis/engine"
)

// ============================================================================
// KINDS: the closed set of navigation entries
// ============================================================================

// Kind identifies a dashboard page.
type Kind string

const (
	Combat Kind = "combat"
	Camp   Kind = "camp"
	Zones  Kind = "zones"
)

var kindTitles = map[Kind]string{
	Combat: "Stratégie de Combat",
	Camp:   "Gestion du Campement",
	Zones:  "Zones & Boss",
}

// Kinds lists the pages in navigation order.
func Kinds() []Kind {
	return []Kind{Combat, Camp, Zones}
}

// Title is the navigation label of the page.
func (k Kind) Title() string {
	return kindTitles[k]
}

// ParseKind accepts a page slug ("zones") or its navigation label
// ("Zones & Boss"), case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds() {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, k.Title()) {
			return k, nil
		}
	}
	return "", &UnknownViewError{Name: s}
}

// UnknownViewError is returned for a page outside the navigation set.
type UnknownViewError struct {
	Name string
}

func (e *UnknownViewError) Error() string {
	return fmt.Sprintf("unknown view %q", e.Name)
}

// ============================================================================
// PAGE: what a render pass produces
// ============================================================================

// Page title and subtitle shared by every view.
const (
	PageTitle    = "Analyse stratégique de Palworld"
	PageSubtitle = "Optimisez vos combats et votre production grâce à cette interface interactive."
)

// Section types.
const (
	SectionTable   = "table"
	SectionChart   = "chart"
	SectionText    = "text"
	SectionMessage = "message"
)

// Page is one rendered view.
type Page struct {
	Kind     Kind       `json:"kind"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Header   string     `json:"header"`
	Sections []*Section `json:"sections"`
	RenderID string     `json:"renderId"`
}

// Section is one block of a page. Type says which payload is set; a table
// section may carry a Text line printed above the table.
type Section struct {
	ID      string              `json:"id"`
	Title   string              `json:"title,omitempty"`
	Type    string              `json:"type"`
	Table   *engine.TableData   `json:"table,omitempty"`
	Chart   *engine.ChartConfig `json:"chart,omitempty"`
	Text    *engine.TextData    `json:"text,omitempty"`
	Message string              `json:"message,omitempty"`
}

// Section returns the section with the given id, or nil.
func (p *Page) Section(id string) *Section {
	for _, s := range p.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}
