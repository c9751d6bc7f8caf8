package subject

import (
	"context"
	"errors"
)

// ErrAlreadyAssigned is returned by repositories when the API refuses an assignment that already exists.
var ErrAlreadyAssigned = errors.New("subject already assigned")

// Repository is the read-only view of the API's subjects.
type Repository interface {
	QuerySubjects(ctx context.Context) ([]Subject, error)
}

type Subject struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Year    int    `json:"year"`
	Credits int    `json:"credits"`
}

// Find returns the subject with the given ID from subjects.
func Find(subjects []Subject, id string) (Subject, bool) {
	for _, s := range subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// Contains reports whether a subject with the given ID is in subjects.
func Contains(subjects []Subject, id string) bool {
	_, ok := Find(subjects, id)
	return ok
}

// Without returns a copy of subjects without the subject identified by id.
func Without(subjects []Subject, id string) []Subject {
	out := make([]Subject, 0, len(subjects))
	for _, s := range subjects {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns an independent copy of subjects (nil stays nil).
func Clone(subjects []Subject) []Subject {
	if subjects == nil {
		return nil
	}
	out := make([]Subject, len(subjects))
	copy(out, subjects)
	return out
}

// FirstID returns the ID of the first subject, or "" when there is none.
func FirstID(subjects []Subject) string {
	if len(subjects) == 0 {
		return ""
	}
	return subjects[0].ID
}
