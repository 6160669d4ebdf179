package scoring

import "math"

// Grade is the letter band assigned to a total score.
type Grade string

const (
	GradeAPlus  Grade = "A+"
	GradeA      Grade = "A"
	GradeAMinus Grade = "A-"
	GradeBPlus  Grade = "B+"
	GradeB      Grade = "B"
	GradeBMinus Grade = "B-"
	GradeCPlus  Grade = "C+"
	GradeC      Grade = "C"
	GradeCMinus Grade = "C-"
	GradeD      Grade = "D"
	GradeF      Grade = "F"
)

// gradeBands is ordered from the highest lower bound down. Lower bounds are inclusive.
var gradeBands = []struct {
	min   float64
	grade Grade
}{
	{95, GradeAPlus},
	{90, GradeA},
	{85, GradeAMinus},
	{80, GradeBPlus},
	{75, GradeB},
	{70, GradeBMinus},
	{65, GradeCPlus},
	{60, GradeC},
	{55, GradeCMinus},
	{50, GradeD},
}

// Grades lists every grade from best to worst.
func Grades() []Grade {
	out := make([]Grade, 0, len(gradeBands)+1)
	for _, b := range gradeBands {
		out = append(out, b.grade)
	}
	return append(out, GradeF)
}

// GradeFor bands a total into a letter grade.
func GradeFor(total float64) Grade {
	for _, b := range gradeBands {
		if total >= b.min {
			return b.grade
		}
	}
	return GradeF
}

// Aggregate sums category scores and clamps the result to [0, 100].
func Aggregate(scores ...float64) float64 {
	sum := 0.0
	for _, s := range scores {
		if math.IsNaN(s) {
			continue
		}
		sum += s
	}
	return clamp(sum, 0, TotalPoints)
}

// Round1 rounds to one decimal place for display.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
