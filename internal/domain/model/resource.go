package model

import "time"

// Resource is a study material (document, video, exercise set) the teacher
// shares with students.
type Resource struct {
	ID           string
	Title        string
	Description  string
	Category     string
	Level        string
	ResourceType string
	URL          string
	CreatedAt    time.Time
}

// StudentResource assigns one resource to one student.
type StudentResource struct {
	ID         string
	StudentID  string
	ResourceID string
	AssignedAt time.Time

	// joined, optional
	Resource *Resource
}
