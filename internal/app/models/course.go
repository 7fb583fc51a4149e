package models

// Review is an immutable course review. There is no update operation;
// reviews only ever get appended to a course.
type Review struct {
	ID       string `json:"id"`
	AuthorID string `json:"authorId"`
	Text     string `json:"text"`
	Score    int    `json:"score"`
	Anon     bool   `json:"anon"`
}

// Course represents a course document.
//
// Students, Teachers and Assessments are membership sets: they must never
// contain duplicate IDs. Files is an ordered sequence of blob IDs; Image is
// a blob ID or empty. All mutation helpers below are idempotent merges so a
// conflicted save can simply be retried against a fresh copy.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        string   `json:"tags"`
	Level       string   `json:"level"`
	Students    []string `json:"students"`
	Teachers    []string `json:"teachers"`
	Files       []string `json:"files"`
	Image       string   `json:"image"`
	Assessments []string `json:"assessments"`
	Reviews     []Review `json:"reviews"`

	// Version is the optimistic concurrency stamp maintained by the
	// repository. It is a storage concern and never serialized.
	Version int64 `json:"-"`
}

// AddStudent adds id to the students set. Returns false if already present.
func (c *Course) AddStudent(id string) bool {
	if containsString(c.Students, id) {
		return false
	}
	c.Students = append(c.Students, id)
	return true
}

// RemoveStudent removes id from the students set. Returns false if absent.
func (c *Course) RemoveStudent(id string) bool {
	next, changed := removeString(c.Students, id)
	c.Students = next
	return changed
}

// AddTeacher adds id to the teachers set. Returns false if already present.
func (c *Course) AddTeacher(id string) bool {
	if containsString(c.Teachers, id) {
		return false
	}
	c.Teachers = append(c.Teachers, id)
	return true
}

// RemoveTeacher removes id from the teachers set. Returns false if absent.
func (c *Course) RemoveTeacher(id string) bool {
	next, changed := removeString(c.Teachers, id)
	c.Teachers = next
	return changed
}

// AddAssessment adds id to the assessments set. Returns false if already present.
func (c *Course) AddAssessment(id string) bool {
	if containsString(c.Assessments, id) {
		return false
	}
	c.Assessments = append(c.Assessments, id)
	return true
}

// RemoveAssessment removes id from the assessments set. Returns false if absent.
func (c *Course) RemoveAssessment(id string) bool {
	next, changed := removeString(c.Assessments, id)
	c.Assessments = next
	return changed
}

// AppendFiles appends blob IDs to the course's file sequence, skipping IDs
// already present.
func (c *Course) AppendFiles(blobIDs []string) bool {
	changed := false
	for _, id := range blobIDs {
		if containsString(c.Files, id) {
			continue
		}
		c.Files = append(c.Files, id)
		changed = true
	}
	return changed
}

// RemoveFile removes a blob ID from the file sequence and clears the image
// reference if it points at the same blob. Returns false if nothing changed.
func (c *Course) RemoveFile(blobID string) bool {
	next, changed := removeString(c.Files, blobID)
	c.Files = next
	if c.Image == blobID {
		c.Image = ""
		changed = true
	}
	return changed
}

// AddReview appends a review. Re-appending a review with an ID already
// present is a no-op, which keeps conflicted retries from duplicating it.
func (c *Course) AddReview(review Review) bool {
	for _, r := range c.Reviews {
		if r.ID == review.ID {
			return false
		}
	}
	c.Reviews = append(c.Reviews, review)
	return true
}

// AverageScore returns the arithmetic mean of all review scores, or 0 when
// there are no reviews.
func (c *Course) AverageScore() float64 {
	if len(c.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range c.Reviews {
		sum += r.Score
	}
	return float64(sum) / float64(len(c.Reviews))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) ([]string, bool) {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}
