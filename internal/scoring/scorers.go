// internal/scoring/scorers.go
package scoring

import (
	"math"
	"strings"
	"time"

	"recruit-scoring/internal/models"
)

const daysPerYear = 365.25

// Flag values used by the candidate form.
const (
	flagYes          = "sim"
	flagOccasionally = "ocasionalmente"
)

// Availability start codes.
const (
	StartImmediate = "imediato"
	Start15Days    = "15_dias"
	Start30Days    = "30_dias"
)

var educationLevelFractions = map[string]float64{
	"fundamental_incompleto": 0.2,
	"fundamental_completo":   0.3,
	"medio_incompleto":       0.5,
	"medio_completo":         0.6,
	"tecnica_incompleta":     0.7,
	"tecnica_completa":       0.8,
	"superior_incompleta":    0.85,
	"superior_completa":      0.95,
	"pos_graduacao":          1.0,
}

var completedInterviewStatuses = map[string]bool{
	"completed": true,
	"concluida": true,
	"realizada": true,
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01",
}

const coursePoints = 0.5

// CriterionScores holds the points earned per criterion, keyed by "category.criterion".
type CriterionScores map[string]float64

func scoreExperienceSkills(c *models.Candidate, w ExperienceSkillsWeights, now time.Time, out CriterionScores) float64 {
	years, hasTenure := tenureYears(c.Experiences, now)

	yearsPoints := 0.0
	if hasTenure {
		yearsPoints = w.YearsOfExperience * yearsFraction(years)
	}

	skills := countTokens(c.Skills)
	skillsPoints := 0.0
	switch {
	case skills >= 5:
		skillsPoints = w.Skills
	case skills >= 3:
		skillsPoints = w.Skills * 0.75
	case skills >= 1:
		skillsPoints = w.Skills * 0.5
	}

	certs := countTokens(c.Certifications)
	certPoints := 0.0
	switch {
	case certs >= 3:
		certPoints = w.Certifications
	case certs >= 2:
		certPoints = w.Certifications * 0.71
	case certs >= 1:
		certPoints = w.Certifications * 0.43
	}

	out["experience_skills.years_of_experience"] = yearsPoints
	out["experience_skills.skills"] = skillsPoints
	out["experience_skills.certifications"] = certPoints
	return yearsPoints + skillsPoints + certPoints
}

// yearsFraction buckets tenure; callers only use it when at least one
// experience carries a start date, so the floor is never zero.
func yearsFraction(years float64) float64 {
	switch {
	case years >= 6:
		return 1.0
	case years >= 4:
		return 0.87
	case years >= 2:
		return 0.67
	case years >= 1:
		return 0.33
	default:
		return 0.13
	}
}

// tenureYears sums the duration of every experience with a parseable start
// date. The second result is false when no such experience exists.
func tenureYears(exps []models.ProfessionalExperience, now time.Time) (float64, bool) {
	found := false
	days := 0.0
	for _, exp := range exps {
		start, ok := parseDate(exp.StartDate)
		if !ok {
			continue
		}
		found = true

		end := now
		if exp.EndDate != nil && strings.TrimSpace(*exp.EndDate) != "" {
			parsed, ok := parseDate(*exp.EndDate)
			if !ok {
				continue
			}
			end = parsed
		}
		if end.Before(start) {
			continue
		}
		days += end.Sub(start).Hours() / 24
	}
	return days / daysPerYear, found
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func scoreEducation(c *models.Candidate, w EducationWeights, out CriterionScores) float64 {
	levelPoints := w.EducationLevel * educationLevelFractions[normalizeCode(c.EducationLevel)]

	coursePts := math.Min(float64(countTokens(c.Courses))*coursePoints, w.Courses)

	out["education.education_level"] = levelPoints
	out["education.courses"] = coursePts
	return levelPoints + coursePts
}

func scoreAvailabilityLogistics(c *models.Candidate, w AvailabilityLogisticsWeights, out CriterionScores) float64 {
	immediate := 0.0
	switch normalizeCode(c.AvailabilityStart) {
	case StartImmediate:
		immediate = w.ImmediateAvailability
	case Start15Days:
		immediate = w.ImmediateAvailability * 0.75
	case Start30Days:
		immediate = w.ImmediateAvailability * 0.5
	}

	transport := 0.0
	if isYes(c.OwnTransportation) {
		transport = w.OwnTransportation
	}

	travel := 0.0
	switch normalizeCode(c.TravelAvailability) {
	case flagYes:
		travel = w.TravelAvailability
	case flagOccasionally:
		travel = w.TravelAvailability * 0.5
	}

	height := 0.0
	if isYes(c.HeightPainting) {
		height = w.HeightPainting
	}

	out["availability_logistics.immediate_availability"] = immediate
	out["availability_logistics.own_transportation"] = transport
	out["availability_logistics.travel_availability"] = travel
	out["availability_logistics.height_painting"] = height
	return immediate + transport + travel + height
}

// scoreProfileCompleteness prefers a completeness value supplied by the
// backend. That value is spread over the three criteria in proportion to
// their weights so the criteria still add up to the category total.
func scoreProfileCompleteness(c *models.Candidate, w ProfileCompletenessWeights, out CriterionScores) float64 {
	budget := w.EssentialFields + w.ProfessionalFields + w.AdditionalInfo
	if c.ProfileCompleteness != nil {
		v := *c.ProfileCompleteness
		if math.IsNaN(v) {
			v = 0
		}
		v = clamp(v, 0, budget)

		share := 0.0
		if budget > 0 {
			share = v / budget
		}
		out["profile_completeness.essential_fields"] = w.EssentialFields * share
		out["profile_completeness.professional_fields"] = w.ProfessionalFields * share
		out["profile_completeness.additional_info"] = w.AdditionalInfo * share
		return v
	}

	essential := w.EssentialFields * filledFraction(c.Name, c.Email, c.Phone, c.City)

	professional := w.ProfessionalFields * filledFraction(
		c.EducationLevel,
		c.Skills,
		boolField(len(c.Experiences) > 0),
	)

	additional := w.AdditionalInfo * filledFraction(
		c.Certifications,
		c.Courses,
		c.AvailabilityStart,
		c.OwnTransportation,
		c.TravelAvailability,
	)

	out["profile_completeness.essential_fields"] = essential
	out["profile_completeness.professional_fields"] = professional
	out["profile_completeness.additional_info"] = additional
	return essential + professional + additional
}

func scoreInterviewPerformance(c *models.Candidate, w InterviewPerformanceWeights, out CriterionScores) float64 {
	ratingSum, rated := 0.0, 0
	completed, withFeedback := 0, 0
	for _, iv := range c.Interviews {
		if iv.Rating != nil && *iv.Rating >= 1 && *iv.Rating <= 5 {
			ratingSum += *iv.Rating
			rated++
		}
		if completedInterviewStatuses[normalizeCode(iv.Status)] {
			completed++
			if strings.TrimSpace(iv.Feedback) != "" {
				withFeedback++
			}
		}
	}

	ratingPoints := 0.0
	if rated > 0 {
		ratingPoints = (ratingSum / float64(rated)) / 5 * w.AverageRating
	}

	feedbackPoints := 0.0
	if completed > 0 {
		feedbackPoints = float64(withFeedback) / float64(completed) * w.FeedbackQuality
	}

	out["interview_performance.average_rating"] = ratingPoints
	out["interview_performance.feedback_quality"] = feedbackPoints
	return ratingPoints + feedbackPoints
}

// countTokens counts the non-empty entries of a comma separated field.
func countTokens(csv string) int {
	n := 0
	for _, tok := range strings.Split(csv, ",") {
		if strings.TrimSpace(tok) != "" {
			n++
		}
	}
	return n
}

func normalizeCode(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func isYes(v string) bool {
	return normalizeCode(v) == flagYes
}

func boolField(b bool) string {
	if b {
		return "x"
	}
	return ""
}

func filledFraction(fields ...string) float64 {
	if len(fields) == 0 {
		return 0
	}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
