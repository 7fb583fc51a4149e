package models

// Submission is one student's ordered list of submitted file blobs for an
// assessment.
type Submission struct {
	StudentID string   `json:"studentId"`
	Files     []string `json:"files"`
}

// Assessment represents a graded assessment document. StudentSubmissions
// holds at most one entry per student; lookups are exact-match on the
// student ID.
type Assessment struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Files              []string     `json:"files"`
	Visibility         bool         `json:"visibility"`
	StudentSubmissions []Submission `json:"studentSubmissions"`

	// Version is the optimistic concurrency stamp maintained by the
	// repository. It is a storage concern and never serialized.
	Version int64 `json:"-"`
}

// SubmissionFor returns the submission entry for the given student, or false
// when the student has not submitted anything.
func (a *Assessment) SubmissionFor(studentID string) (Submission, bool) {
	for _, sub := range a.StudentSubmissions {
		if sub.StudentID == studentID {
			return sub, true
		}
	}
	return Submission{}, false
}

// AppendSubmission merges blob IDs into the student's submission entry,
// creating the entry if the student has none. Blob IDs already present are
// skipped so a conflicted retry never duplicates files. Returns false if
// nothing changed.
func (a *Assessment) AppendSubmission(studentID string, blobIDs []string) bool {
	for i := range a.StudentSubmissions {
		if a.StudentSubmissions[i].StudentID != studentID {
			continue
		}
		changed := false
		for _, id := range blobIDs {
			if containsString(a.StudentSubmissions[i].Files, id) {
				continue
			}
			a.StudentSubmissions[i].Files = append(a.StudentSubmissions[i].Files, id)
			changed = true
		}
		return changed
	}

	a.StudentSubmissions = append(a.StudentSubmissions, Submission{
		StudentID: studentID,
		Files:     append([]string(nil), blobIDs...),
	})
	return true
}
