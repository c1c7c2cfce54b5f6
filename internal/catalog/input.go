package catalog

import (
	"strings"
	"time"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/validation"
)

// SchemeInput is the body of scheme create and update requests, and the
// shape of entries in the seed file.
type SchemeInput struct {
	Name               string   `json:"name" yaml:"name" validate:"required,max=200"`
	Description        string   `json:"description" yaml:"description" validate:"required"`
	Benefits           []string `json:"benefits" yaml:"benefits" validate:"required,min=1,dive,required"`
	Eligibility        []string `json:"eligibility" yaml:"eligibility" validate:"required,min=1,dive,required"`
	DocumentsRequired  []string `json:"documents_required" yaml:"documents_required" validate:"required,min=1,dive,required"`
	ApplicationProcess string   `json:"application_process" yaml:"application_process" validate:"required"`
	Website            string   `json:"website" yaml:"website" validate:"required,url"`
	Category           string   `json:"category" yaml:"category" validate:"required,oneof=Employment Housing Education Healthcare Agriculture 'Social Welfare'"`
	Status             string   `json:"status" yaml:"status" validate:"omitempty,oneof=Active Inactive"`
}

// Validate normalizes and checks in.
func (in *SchemeInput) Validate() error {
	in.Name = account.CleanText(in.Name)
	in.Description = account.CleanText(in.Description)
	in.ApplicationProcess = account.CleanText(in.ApplicationProcess)
	in.Website = strings.TrimSpace(in.Website)
	in.Benefits = cleanList(in.Benefits)
	in.Eligibility = cleanList(in.Eligibility)
	in.DocumentsRequired = cleanList(in.DocumentsRequired)
	if in.Status == "" {
		in.Status = SchemeActive
	}
	return validation.Struct(in)
}

// Apply copies the input onto s.
func (in *SchemeInput) Apply(s *Scheme) {
	s.Name = in.Name
	s.Description = in.Description
	s.Benefits = in.Benefits
	s.Eligibility = in.Eligibility
	s.DocumentsRequired = in.DocumentsRequired
	s.ApplicationProcess = in.ApplicationProcess
	s.Website = in.Website
	s.Category = in.Category
	s.Status = in.Status
}

// CourseInput is the body of course create and update requests.
type CourseInput struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required"`
	RequiredSkills []string `json:"required_skills" validate:"omitempty,dive,required"`
	Type           string   `json:"type" validate:"required,oneof=training workshop seminar"`
	Duration       string   `json:"duration" validate:"required,max=100"`
	StartDate      string   `json:"start_date" validate:"required"`
	Status         string   `json:"status" validate:"omitempty,oneof=upcoming ongoing completed"`

	startDate time.Time
}

// Validate normalizes and checks in.
func (in *CourseInput) Validate() error {
	in.Title = account.CleanText(in.Title)
	in.Description = account.CleanText(in.Description)
	in.Duration = account.CleanText(in.Duration)
	in.RequiredSkills = cleanList(in.RequiredSkills)
	if in.Status == "" {
		in.Status = CourseUpcoming
	}
	if err := validation.Struct(in); err != nil {
		return err
	}
	d, err := time.Parse(account.DateLayout, strings.TrimSpace(in.StartDate))
	if err != nil {
		return apperr.Validation("start_date", "must be a date formatted YYYY-MM-DD")
	}
	in.startDate = d
	return nil
}

// Apply copies the validated input onto c.
func (in *CourseInput) Apply(c *Course) {
	c.Title = in.Title
	c.Description = in.Description
	c.RequiredSkills = in.RequiredSkills
	c.Type = in.Type
	c.Duration = in.Duration
	c.StartDate = in.startDate
	c.Status = in.Status
}

// VacancyInput is the body of vacancy create and update requests.
type VacancyInput struct {
	Title              string   `json:"title" validate:"required,max=200"`
	Description        string   `json:"description" validate:"required"`
	RequiredSkills     []string `json:"required_skills" validate:"omitempty,dive,required"`
	RequiredExperience string   `json:"required_experience" validate:"required,oneof=entry intermediate senior"`
	Location           string   `json:"location" validate:"required,max=200"`
	EmploymentType     string   `json:"employment_type" validate:"required,oneof=full-time part-time contract internship"`
	Status             string   `json:"status" validate:"omitempty,oneof=open closed on-hold"`
}

// Validate normalizes and checks in.
func (in *VacancyInput) Validate() error {
	in.Title = account.CleanText(in.Title)
	in.Description = account.CleanText(in.Description)
	in.Location = account.CleanText(in.Location)
	in.RequiredSkills = cleanList(in.RequiredSkills)
	if in.Status == "" {
		in.Status = VacancyOpen
	}
	return validation.Struct(in)
}

// Apply copies the input onto v.
func (in *VacancyInput) Apply(v *Vacancy) {
	v.Title = in.Title
	v.Description = in.Description
	v.RequiredSkills = in.RequiredSkills
	v.RequiredExperience = in.RequiredExperience
	v.Location = in.Location
	v.EmploymentType = in.EmploymentType
	v.Status = in.Status
}

// ApplicationStatusInput is the body of an application review.
type ApplicationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending shortlisted rejected accepted"`
}

func cleanList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, account.CleanText(s))
	}
	return out
}
