// Package platform recognises job-platform emails and pulls job details out of them.
//
// The signature table is plain data: it is loaded once (from the embedded
// platforms.yaml or an override file) into a Registry, and the Registry is
// handed to whoever needs detection or extraction.
package platform

import (
	"regexp"
)

// Field names a piece of job information extracted from an email.
type Field string

const (
	FieldJobTitle Field = "jobTitle"
	FieldCompany  Field = "company"
	FieldLocation Field = "location"
)

// Fields lists every extractable field in output order.
var Fields = []Field{FieldJobTitle, FieldCompany, FieldLocation}

func (f Field) valid() bool {
	switch f {
	case FieldJobTitle, FieldCompany, FieldLocation:
		return true
	}
	return false
}

// Signature describes how one platform's emails look.
type Signature struct {
	Name     string
	Senders  []*regexp.Regexp
	Subjects []*regexp.Regexp
	Fields   map[Field][]*regexp.Regexp
}

// matches reports whether the sender OR the subject fits this platform.
func (s *Signature) matches(fromEmail, subject string) bool {
	for _, re := range s.Senders {
		if re.MatchString(fromEmail) {
			return true
		}
	}
	for _, re := range s.Subjects {
		if re.MatchString(subject) {
			return true
		}
	}
	return false
}

// JobDetails is what the extractor managed to find. Any field may be nil.
type JobDetails struct {
	JobTitle *string `json:"jobTitle"`
	Company  *string `json:"company"`
	Location *string `json:"location"`
}

// Empty reports whether nothing was extracted.
func (d JobDetails) Empty() bool {
	return d.JobTitle == nil && d.Company == nil && d.Location == nil
}

func (d *JobDetails) set(f Field, v *string) {
	switch f {
	case FieldJobTitle:
		d.JobTitle = v
	case FieldCompany:
		d.Company = v
	case FieldLocation:
		d.Location = v
	}
}
