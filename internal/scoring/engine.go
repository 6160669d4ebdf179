package scoring

import (
	"time"

	"recruit-scoring/internal/models"
)

// Breakdown is the per-category result for one candidate.
type Breakdown struct {
	CandidateID           string          `json:"candidate_id,omitempty"`
	ExperienceSkills      float64         `json:"experience_skills"`
	Education             float64         `json:"education"`
	AvailabilityLogistics float64         `json:"availability_logistics"`
	ProfileCompleteness   float64         `json:"profile_completeness"`
	InterviewPerformance  float64         `json:"interview_performance"`
	Total                 float64         `json:"total"`
	Grade                 Grade           `json:"grade"`
	Criteria              CriterionScores `json:"criteria,omitempty"`
}

// Rounded returns a copy with every numeric field rounded to one decimal.
// The grade is kept as computed from the unrounded total.
func (b Breakdown) Rounded() Breakdown {
	out := b
	out.ExperienceSkills = Round1(b.ExperienceSkills)
	out.Education = Round1(b.Education)
	out.AvailabilityLogistics = Round1(b.AvailabilityLogistics)
	out.ProfileCompleteness = Round1(b.ProfileCompleteness)
	out.InterviewPerformance = Round1(b.InterviewPerformance)
	out.Total = Round1(b.Total)
	if b.Criteria != nil {
		out.Criteria = make(CriterionScores, len(b.Criteria))
		for k, v := range b.Criteria {
			out.Criteria[k] = Round1(v)
		}
	}
	return out
}

// CategoryScore returns the points earned in one category.
func (b Breakdown) CategoryScore(c Category) float64 {
	switch c {
	case CategoryExperienceSkills:
		return b.ExperienceSkills
	case CategoryEducation:
		return b.Education
	case CategoryAvailabilityLogistics:
		return b.AvailabilityLogistics
	case CategoryProfileCompleteness:
		return b.ProfileCompleteness
	case CategoryInterviewPerformance:
		return b.InterviewPerformance
	}
	return 0
}

// Engine computes breakdowns. It holds no state besides its clock and is
// safe for concurrent use.
type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

// WithClock overrides the reference time used for open-ended experiences.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the breakdown of a candidate under the given weights.
func (e *Engine) Score(c *models.Candidate, w ScoringWeights) Breakdown {
	if c == nil {
		c = &models.Candidate{}
	}
	criteria := make(CriterionScores, 14)

	b := Breakdown{
		CandidateID:           c.ID,
		ExperienceSkills:      scoreExperienceSkills(c, w.ExperienceSkills, e.now(), criteria),
		Education:             scoreEducation(c, w.Education, criteria),
		AvailabilityLogistics: scoreAvailabilityLogistics(c, w.AvailabilityLogistics, criteria),
		ProfileCompleteness:   scoreProfileCompleteness(c, w.ProfileCompleteness, criteria),
		InterviewPerformance:  scoreInterviewPerformance(c, w.InterviewPerformance, criteria),
		Criteria:              criteria,
	}
	b.Total = Aggregate(
		b.ExperienceSkills,
		b.Education,
		b.AvailabilityLogistics,
		b.ProfileCompleteness,
		b.InterviewPerformance,
	)
	b.Grade = GradeFor(b.Total)
	return b
}
