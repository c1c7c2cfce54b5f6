package catalog

import (
	"time"

	"github.com/lib/pq"
)

// Scheme statuses. Only active schemes are listed publicly.
const (
	SchemeActive   = "Active"
	SchemeInactive = "Inactive"
)

// SchemeCategories lists the accepted scheme categories.
var SchemeCategories = []string{"Employment", "Housing", "Education", "Healthcare", "Agriculture", "Social Welfare"}

// Scheme is a government welfare scheme.
type Scheme struct {
	ID                 string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string         `gorm:"not null;uniqueIndex:idx_schemes_name" json:"name"`
	Description        string         `gorm:"not null" json:"description"`
	Benefits           pq.StringArray `gorm:"type:text[]" json:"benefits"`
	Eligibility        pq.StringArray `gorm:"type:text[]" json:"eligibility"`
	DocumentsRequired  pq.StringArray `gorm:"type:text[]" json:"documents_required"`
	ApplicationProcess string         `gorm:"not null" json:"application_process"`
	Website            string         `json:"website"`
	Category           string         `gorm:"not null;index" json:"category"`
	Status             string         `gorm:"not null;default:Active" json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Course statuses.
const (
	CourseUpcoming  = "upcoming"
	CourseOngoing   = "ongoing"
	CourseCompleted = "completed"
)

// Course is a training, workshop or seminar run by an instructor.
type Course struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `gorm:"not null" json:"description"`
	RequiredSkills pq.StringArray `gorm:"type:text[]" json:"required_skills"`
	Type           string         `gorm:"not null" json:"type"`
	Duration       string         `gorm:"not null" json:"duration"`
	StartDate      time.Time      `gorm:"type:date;not null" json:"start_date"`
	InstructorID   string         `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Status         string         `gorm:"not null;default:upcoming" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Enrollment records that an account joined a course. An account enrolls in
// a course at most once.
type Enrollment struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_course_account,priority:1" json:"course_id"`
	AccountID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_course_account,priority:2" json:"account_id"`
	EnrolledAt time.Time `gorm:"not null" json:"enrolled_at"`
}

// Vacancy statuses.
const (
	VacancyOpen   = "open"
	VacancyClosed = "closed"
	VacancyOnHold = "on-hold"
)

// Vacancy is a job posted by a job provider.
type Vacancy struct {
	ID                 string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title              string         `gorm:"not null" json:"title"`
	Description        string         `gorm:"not null" json:"description"`
	RequiredSkills     pq.StringArray `gorm:"type:text[]" json:"required_skills"`
	RequiredExperience string         `gorm:"not null" json:"required_experience"`
	Location           string         `gorm:"not null;index" json:"location"`
	EmploymentType     string         `gorm:"not null" json:"employment_type"`
	PostedBy           string         `gorm:"type:uuid;not null;index" json:"posted_by"`
	Status             string         `gorm:"not null;default:open;index" json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Application statuses.
const (
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
	ApplicationAccepted    = "accepted"
)

// Application is an account's application to a vacancy.
type Application struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	VacancyID string    `gorm:"type:uuid;not null;uniqueIndex:idx_applications_vacancy_account,priority:1" json:"vacancy_id"`
	AccountID string    `gorm:"type:uuid;not null;uniqueIndex:idx_applications_vacancy_account,priority:2" json:"account_id"`
	Status    string    `gorm:"not null;default:pending" json:"status"`
	AppliedAt time.Time `gorm:"not null" json:"applied_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Scheme) TableName() string      { return "catalog.schemes" }
func (Course) TableName() string      { return "catalog.courses" }
func (Enrollment) TableName() string  { return "catalog.enrollments" }
func (Vacancy) TableName() string     { return "catalog.vacancies" }
func (Application) TableName() string { return "catalog.applications" }
