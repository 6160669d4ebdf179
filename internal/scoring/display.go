package scoring

import "strings"

// DisplayGroup is a presentation grouping of criteria. It does not change
// which category a criterion belongs to.
type DisplayGroup struct {
	Key      string             `json:"key"`
	Label    string             `json:"label"`
	Points   float64            `json:"points"`
	Criteria []DisplayCriterion `json:"criteria"`
}

// DisplayCriterion is one weight as shown to an admin, with its points.
type DisplayCriterion struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Points   float64  `json:"points"`
}

// displayOverrides moves criteria to another group on screen. Skills and
// certifications are edited next to education in the dashboard.
var displayOverrides = map[string]Category{
	"experience_skills.skills":         CategoryEducation,
	"experience_skills.certifications": CategoryEducation,
}

var groupLabels = map[Category]string{
	CategoryExperienceSkills:      "Experience",
	CategoryEducation:             "Education & Skills",
	CategoryAvailabilityLogistics: "Availability & Logistics",
	CategoryProfileCompleteness:   "Profile Completeness",
	CategoryInterviewPerformance:  "Interview Performance",
}

// DisplayGroups regroups the configuration for the weights editor.
func DisplayGroups(w ScoringWeights) []DisplayGroup {
	index := make(map[Category]int, 5)
	groups := make([]DisplayGroup, 0, 5)
	for _, cat := range Categories() {
		index[cat] = len(groups)
		groups = append(groups, DisplayGroup{Key: string(cat), Label: groupLabels[cat]})
	}

	for _, c := range w.Criteria() {
		target := c.Category
		if override, ok := displayOverrides[c.Path()]; ok {
			target = override
		}
		g := &groups[index[target]]
		g.Criteria = append(g.Criteria, DisplayCriterion{
			Category: c.Category,
			Name:     c.Name,
			Label:    criterionLabel(c.Name),
			Points:   c.Points,
		})
		g.Points += c.Points
	}
	return groups
}

func criterionLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
