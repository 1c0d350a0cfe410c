package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalStatus string

const (
	StatusToDo       GoalStatus = "to_do"
	StatusInProgress GoalStatus = "in_progress"
	StatusDone       GoalStatus = "done"
	StatusArchived   GoalStatus = "archived"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone, StatusArchived:
		return true
	}
	return false
}

// Priority is stored as its rank so goals can be ordered by it; it is
// exchanged by name.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = map[Priority]string{
	PriorityLow:      "low",
	PriorityMedium:   "medium",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	return 0, &FieldError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", s)}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type Goal struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	CategoryID  uuid.UUID  `json:"categoryId" gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Status      GoalStatus `json:"status" gorm:"type:varchar(16);not null;default:'to_do';index"`
	Priority    Priority   `json:"priority" gorm:"not null;default:2"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Category *GoalCategory `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	User     *User         `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Status == "" {
		g.Status = StatusToDo
	}
	if g.Priority == 0 {
		g.Priority = PriorityMedium
	}
	return nil
}

// Goal DTOs
type CreateGoalRequest struct {
	CategoryID  uuid.UUID  `json:"category"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     Date       `json:"dueDate"`
	Status      GoalStatus `json:"status"`
	Priority    Priority   `json:"priority"`
}

type UpdateGoalRequest struct {
	CategoryID  *uuid.UUID  `json:"category"`
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	DueDate     Date        `json:"dueDate"`
	Status      *GoalStatus `json:"status"`
	Priority    *Priority   `json:"priority"`
}

// FieldError is a decoding failure attributable to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Date accepts "2006-01-02" or RFC3339. Set records whether the field was
// present in the payload at all, so an explicit null clears the value.
type Date struct {
	Set  bool
	Time *time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	d.Set = true
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.Time = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		d.Time = &t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return &FieldError{Field: "due_date", Message: "use YYYY-MM-DD or RFC3339"}
	}
	d.Time = &t
	return nil
}
