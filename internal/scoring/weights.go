// Package scoring implements the weighted candidate-scoring model: the
// 100-point weight configuration, the per-category scorers, grade banding
// and the score distribution summary.
package scoring

import "time"

// Category names the five scoring categories as they appear on the wire.
type Category string

const (
	CategoryExperienceSkills      Category = "experience_skills"
	CategoryEducation             Category = "education"
	CategoryAvailabilityLogistics Category = "availability_logistics"
	CategoryProfileCompleteness   Category = "profile_completeness"
	CategoryInterviewPerformance  Category = "interview_performance"
)

// TotalPoints is the budget every configuration must distribute.
const TotalPoints = 100.0

// SumTolerance is the allowed floating drift between the weight sum and TotalPoints.
const SumTolerance = 0.1

type ExperienceSkillsWeights struct {
	YearsOfExperience float64 `json:"years_of_experience"`
	Skills            float64 `json:"skills"`
	Certifications    float64 `json:"certifications"`
}

type EducationWeights struct {
	EducationLevel float64 `json:"education_level"`
	Courses        float64 `json:"courses"`
}

type AvailabilityLogisticsWeights struct {
	ImmediateAvailability float64 `json:"immediate_availability"`
	OwnTransportation     float64 `json:"own_transportation"`
	TravelAvailability    float64 `json:"travel_availability"`
	HeightPainting        float64 `json:"height_painting"`
}

type ProfileCompletenessWeights struct {
	EssentialFields    float64 `json:"essential_fields"`
	ProfessionalFields float64 `json:"professional_fields"`
	AdditionalInfo     float64 `json:"additional_info"`
}

type InterviewPerformanceWeights struct {
	AverageRating   float64 `json:"average_rating"`
	FeedbackQuality float64 `json:"feedback_quality"`
}

// ScoringWeights is the full weight configuration. Leaf values are points.
type ScoringWeights struct {
	ExperienceSkills      ExperienceSkillsWeights      `json:"experience_skills"`
	Education             EducationWeights             `json:"education"`
	AvailabilityLogistics AvailabilityLogisticsWeights `json:"availability_logistics"`
	ProfileCompleteness   ProfileCompletenessWeights   `json:"profile_completeness"`
	InterviewPerformance  InterviewPerformanceWeights  `json:"interview_performance"`
}

// ScoringConfig is a weight configuration as stored by the backend.
type ScoringConfig struct {
	Weights   ScoringWeights `json:"weights"`
	IsCustom  bool           `json:"is_custom"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

// Criterion is a single leaf of the configuration.
type Criterion struct {
	Category Category
	Name     string
	Points   float64
}

// Path returns the dotted "category.criterion" form used in error messages.
func (c Criterion) Path() string {
	return string(c.Category) + "." + c.Name
}

// DefaultWeights returns the fixed baseline configuration.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		ExperienceSkills: ExperienceSkillsWeights{
			YearsOfExperience: 15,
			Skills:            10,
			Certifications:    5,
		},
		Education: EducationWeights{
			EducationLevel: 12,
			Courses:        3,
		},
		AvailabilityLogistics: AvailabilityLogisticsWeights{
			ImmediateAvailability: 8,
			OwnTransportation:     5,
			TravelAvailability:    4,
			HeightPainting:        3,
		},
		ProfileCompleteness: ProfileCompletenessWeights{
			EssentialFields:    7,
			ProfessionalFields: 5,
			AdditionalInfo:     3,
		},
		InterviewPerformance: InterviewPerformanceWeights{
			AverageRating:   15,
			FeedbackQuality: 5,
		},
	}
}

// Reset returns the default configuration with the custom flag cleared.
func Reset() ScoringConfig {
	return ScoringConfig{Weights: DefaultWeights(), IsCustom: false}
}

// NewConfig wraps weights, flagging them custom when they diverge from the defaults.
func NewConfig(w ScoringWeights) ScoringConfig {
	return ScoringConfig{Weights: w, IsCustom: !w.Equal(DefaultWeights())}
}

// Categories lists the categories in display order.
func Categories() []Category {
	return []Category{
		CategoryExperienceSkills,
		CategoryEducation,
		CategoryAvailabilityLogistics,
		CategoryProfileCompleteness,
		CategoryInterviewPerformance,
	}
}

// Criteria flattens the configuration into its leaves, in category order.
func (w ScoringWeights) Criteria() []Criterion {
	return []Criterion{
		{CategoryExperienceSkills, "years_of_experience", w.ExperienceSkills.YearsOfExperience},
		{CategoryExperienceSkills, "skills", w.ExperienceSkills.Skills},
		{CategoryExperienceSkills, "certifications", w.ExperienceSkills.Certifications},
		{CategoryEducation, "education_level", w.Education.EducationLevel},
		{CategoryEducation, "courses", w.Education.Courses},
		{CategoryAvailabilityLogistics, "immediate_availability", w.AvailabilityLogistics.ImmediateAvailability},
		{CategoryAvailabilityLogistics, "own_transportation", w.AvailabilityLogistics.OwnTransportation},
		{CategoryAvailabilityLogistics, "travel_availability", w.AvailabilityLogistics.TravelAvailability},
		{CategoryAvailabilityLogistics, "height_painting", w.AvailabilityLogistics.HeightPainting},
		{CategoryProfileCompleteness, "essential_fields", w.ProfileCompleteness.EssentialFields},
		{CategoryProfileCompleteness, "professional_fields", w.ProfileCompleteness.ProfessionalFields},
		{CategoryProfileCompleteness, "additional_info", w.ProfileCompleteness.AdditionalInfo},
		{CategoryInterviewPerformance, "average_rating", w.InterviewPerformance.AverageRating},
		{CategoryInterviewPerformance, "feedback_quality", w.InterviewPerformance.FeedbackQuality},
	}
}

// Total sums every leaf of the configuration.
func (w ScoringWeights) Total() float64 {
	total := 0.0
	for _, c := range w.Criteria() {
		total += c.Points
	}
	return total
}

// CategoryTotal sums the leaves of one category. Unknown categories sum to 0.
func (w ScoringWeights) CategoryTotal(category Category) float64 {
	total := 0.0
	for _, c := range w.Criteria() {
		if c.Category == category {
			total += c.Points
		}
	}
	return total
}

// CategoryTotals returns every category sum keyed by category.
func (w ScoringWeights) CategoryTotals() map[Category]float64 {
	totals := make(map[Category]float64, 5)
	for _, c := range w.Criteria() {
		totals[c.Category] += c.Points
	}
	return totals
}

func (w ScoringWeights) Equal(other ScoringWeights) bool {
	return w == other
}
