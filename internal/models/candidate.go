// internal/models/candidate.go
package models

// Candidate is the read-only candidate snapshot served by the recruitment backend.
// Every field is optional: missing values earn no credit during scoring.
type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	City  string `json:"city"`

	EducationLevel     string `json:"education_level"`
	Skills             string `json:"skills"`
	Certifications     string `json:"certifications"`
	Courses            string `json:"courses"`
	OwnTransportation  string `json:"own_transportation"`
	TravelAvailability string `json:"travel_availability"`
	HeightPainting     string `json:"height_painting"`
	AvailabilityStart  string `json:"availability_start"`
	CurrentlyEmployed  string `json:"currently_employed"`

	// ProfileCompleteness is set when the backend already computed the
	// completeness points for this candidate.
	ProfileCompleteness *float64 `json:"profile_completeness,omitempty"`

	Experiences []ProfessionalExperience `json:"professional_experiences"`
	Interviews  []Interview              `json:"interviews"`
}

type ProfessionalExperience struct {
	ID          string  `json:"id,omitempty"`
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	LeaveReason string  `json:"leave_reason,omitempty"`
}

type Interview struct {
	ID       string   `json:"id,omitempty"`
	Status   string   `json:"status"`
	Rating   *float64 `json:"rating,omitempty"`
	Feedback string   `json:"feedback"`
}
