// Package model defines the shared data structures for the board service.
package model

import (
	"fmt"
	"time"
)

// JobType mirrors the job_type enum used by the relational backend.
type JobType string

const (
	TypeFullTime   JobType = "FULL_TIME"
	TypePartTime   JobType = "PART_TIME"
	TypeContract   JobType = "CONTRACT"
	TypeInternship JobType = "INTERNSHIP"
)

// ParseJobType converts a raw string to a JobType, returning an error for
// unknown values.
func ParseJobType(s string) (JobType, error) {
	t := JobType(s)
	switch t {
	case TypeFullTime, TypePartTime, TypeContract, TypeInternship:
		return t, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

// Source names the channel a job record arrived through.
const (
	SourceDirect     = "Direct"
	SourceBulkImport = "Bulk Import"
	SourceKariyerNet = "Kariyer.net"
	SourceLinkedIn   = "LinkedIn"
)

// JobRecord is one job posting. CreatedAt is assigned once at ingestion and
// never mutated; records are never updated or deleted after creation.
type JobRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"` // rich text / HTML
	Requirements []string  `json:"requirements"`
	Type         JobType   `json:"type"`
	Salary       string    `json:"salary,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Source       string    `json:"source"`
	SourceURL    string    `json:"sourceUrl,omitempty"`
	EmployerID   string    `json:"employerId,omitempty"`
}

// Role mirrors the user_role enum.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleEmployer  Role = "EMPLOYER"
	RoleCandidate Role = "CANDIDATE"
)

// ParseRole converts a raw string to a Role, returning an error for unknown
// values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleAdmin, RoleEmployer, RoleCandidate:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialised to clients.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Application links a candidate to a job. At most one exists per
// (user, job) pair; a repeat apply is a no-op.
type Application struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	JobID     string    `json:"jobId"`
	CreatedAt time.Time `json:"createdAt"`
}
