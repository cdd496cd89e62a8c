// Package site renders the generated website artifacts: per-note front
// matter, the homepage, and the Quarto project configuration.
package site

import (
	"bytes"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/veleda/muninn/internal/models"
)

// Settings are the site-level options rendered into the artifacts.
type Settings struct {
	Title string
	Theme string
	CSS   string
}

// Tree groups notes by topic, then course, in presentation order.
type Tree struct {
	Topics []Topic
}

// Topic is one top-level subject area.
type Topic struct {
	Name    string
	Courses []Course
}

// Course is one class within a topic.
type Course struct {
	Name  string
	Notes []models.Note
}

// BuildTree groups notes into the topic -> course -> note hierarchy. Topics
// and courses are ordered by name, notes by the canonical note order.
func BuildTree(notes []models.Note) Tree {
	byTopic := map[string]map[string][]models.Note{}
	for _, n := range notes {
		courses, ok := byTopic[n.Topic]
		if !ok {
			courses = map[string][]models.Note{}
			byTopic[n.Topic] = courses
		}
		courses[n.Course] = append(courses[n.Course], n)
	}

	tree := Tree{Topics: make([]Topic, 0, len(byTopic))}
	for _, topicName := range slices.Sorted(maps.Keys(byTopic)) {
		courses := byTopic[topicName]
		topic := Topic{Name: topicName, Courses: make([]Course, 0, len(courses))}
		for _, courseName := range slices.Sorted(maps.Keys(courses)) {
			list := courses[courseName]
			slices.SortStableFunc(list, models.Compare)
			topic.Courses = append(topic.Courses, Course{Name: courseName, Notes: list})
		}
		tree.Topics = append(tree.Topics, topic)
	}
	return tree
}

// displayName turns a sanitized path segment back into a sidebar label.
func displayName(segment string) string {
	return strings.ReplaceAll(segment, "_", " ")
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
