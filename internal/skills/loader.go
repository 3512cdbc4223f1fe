package skills

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed content/manifest.yaml content/*.md
var embeddedContent embed.FS

const manifestPath = "content/manifest.yaml"

// LoadManifest parses the embedded manifest YAML.
func LoadManifest() (*Manifest, error) {
	raw, err := embeddedContent.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read embedded skills manifest: %w", err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse skills manifest: %w", err)
	}
	return &manifest, nil
}

// LoadSkills loads all skill content from embedded files, sorted by priority.
func LoadSkills(manifest *Manifest) ([]Skill, error) {
	skills := make([]Skill, 0, len(manifest.Skills))

	for _, entry := range manifest.Skills {
		content, err := embeddedContent.ReadFile("content/" + entry.File)
		if err != nil {
			return nil, fmt.Errorf("skill file %q not found for skill %q: %w", entry.File, entry.Name, err)
		}
		skills = append(skills, Skill{
			Entry:   entry,
			Content: string(content),
		})
	}

	sort.Slice(skills, func(i, j int) bool {
		return skills[i].Entry.Priority < skills[j].Entry.Priority
	})

	return skills, nil
}

// LoadDefaultSelector loads the embedded manifest and skills and returns a
// ready Selector, the composition surface promptbuilder uses.
func LoadDefaultSelector() (*Selector, error) {
	manifest, err := LoadManifest()
	if err != nil {
		return nil, err
	}
	loaded, err := LoadSkills(manifest)
	if err != nil {
		return nil, err
	}
	return NewSelector(loaded), nil
}
