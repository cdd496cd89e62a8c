package site

import (
	"fmt"
)

// SidebarItem is one sidebar entry: either a page link or a named section.
type SidebarItem struct {
	Text     string        `yaml:"text,omitempty"`
	Href     string        `yaml:"href,omitempty"`
	Section  string        `yaml:"section,omitempty"`
	Contents []SidebarItem `yaml:"contents,omitempty"`
}

type quartoProject struct {
	Type string `yaml:"type"`
}

type quartoSidebar struct {
	Style    string        `yaml:"style"`
	Search   bool          `yaml:"search"`
	Contents []SidebarItem `yaml:"contents"`
}

type quartoWebsite struct {
	Title          string        `yaml:"title"`
	Sidebar        quartoSidebar `yaml:"sidebar"`
	PageNavigation bool          `yaml:"page-navigation"`
}

type quartoHTML struct {
	Theme      string `yaml:"theme"`
	CSS        string `yaml:"css"`
	TOC        bool   `yaml:"toc"`
	MathMethod string `yaml:"html-math-method"`
}

type quartoFormat struct {
	HTML quartoHTML `yaml:"html"`
}

type quartoConfig struct {
	Project quartoProject `yaml:"project"`
	Website quartoWebsite `yaml:"website"`
	Format  quartoFormat  `yaml:"format"`
}

// QuartoConfig renders _quarto.yml for the grouped notes.
func QuartoConfig(tree Tree, s Settings) ([]byte, error) {
	q := quartoConfig{
		Project: quartoProject{Type: "website"},
		Website: quartoWebsite{
			Title: s.Title,
			Sidebar: quartoSidebar{
				Style:    "docked",
				Search:   true,
				Contents: sidebarContents(tree),
			},
			PageNavigation: true,
		},
		Format: quartoFormat{
			HTML: quartoHTML{
				Theme:      s.Theme,
				CSS:        s.CSS,
				TOC:        true,
				MathMethod: "katex",
			},
		},
	}
	out, err := marshalYAML(q)
	if err != nil {
		return nil, fmt.Errorf("site: render quarto config: %w", err)
	}
	return out, nil
}

// sidebarContents lists Home first, then one section per topic containing
// one section per course. Section labels show underscores as spaces; leaf
// entries link to the converted note.
func sidebarContents(tree Tree) []SidebarItem {
	items := []SidebarItem{{Text: "Home", Href: "index.qmd"}}
	for _, topic := range tree.Topics {
		topicItem := SidebarItem{Section: displayName(topic.Name)}
		for _, course := range topic.Courses {
			courseItem := SidebarItem{Section: displayName(course.Name)}
			for _, n := range course.Notes {
				courseItem.Contents = append(courseItem.Contents, SidebarItem{
					Text: n.Title,
					Href: n.OutputPath,
				})
			}
			topicItem.Contents = append(topicItem.Contents, courseItem)
		}
		items = append(items, topicItem)
	}
	return items
}
