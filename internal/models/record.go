// internal/models/record.go
package models

import "strings"

// LocalRecord is a locally captured person awaiting linkage to a directory
// entry. The engine only reads it; on approval the store updates ExternalRef.
type LocalRecord struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ExternalRef string `json:"externalRef,omitempty"`
}

// FullName derives the display name used for comparison.
func (r LocalRecord) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// IsLinked reports whether the record already carries an external reference.
func (r LocalRecord) IsLinked() bool {
	return r.ExternalRef != ""
}

// CandidateRecord is an external directory entry. It is an immutable snapshot
// fetched once per matching run and never mutated by the engine.
type CandidateRecord struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
	Status string   `json:"status,omitempty"` // informational only
}
