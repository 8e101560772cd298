// Package types provides type definitions for structured data used throughout the resume parsing service.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// ResumeRecord is the structured resume produced from raw resume text.
// Decoding is lenient: scalars of the wrong type are converted, single
// entries are accepted where a sequence is expected, and members of an
// unexpected shape are skipped. After ApplyDefaults every container key is
// present when the record is serialized.
type ResumeRecord struct {
	PersonalInfo   PersonalInfo   `json:"personalInfo"`
	Experience     []Experience   `json:"experience"`
	Education      []Education    `json:"education"`
	Skills         Skills         `json:"skills"`
	Hobbies        []string       `json:"hobbies"`
	CodingProfiles CodingProfiles `json:"codingProfiles"`
}

// PersonalInfo holds contact and summary details
type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
	Summary   string `json:"summary"`
	PhotoURL  string `json:"photoUrl"`
}

// Experience represents a single position. Description keeps bullet points
// separated by newlines.
type Experience struct {
	ID          LooseString `json:"id"`
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	Current     LooseBool   `json:"current"`
	Description string      `json:"description"`
}

// Education represents a single degree or program
type Education struct {
	ID             LooseString `json:"id"`
	Degree         string      `json:"degree"`
	School         string      `json:"school"`
	Location       string      `json:"location"`
	GraduationDate string      `json:"graduationDate"`
	GPA            LooseString `json:"gpa"`
}

// Skills groups skill lists by category
type Skills struct {
	Technical      []string `json:"technical"`
	Languages      []string `json:"languages"`
	Certifications []string `json:"certifications"`
}

// CodingProfiles holds competitive programming and code hosting profile URLs
type CodingProfiles struct {
	GitHub     string `json:"github"`
	LeetCode   string `json:"leetcode"`
	HackerRank string `json:"hackerrank"`
	Codeforces string `json:"codeforces"`
	Kaggle     string `json:"kaggle"`
	CodeChef   string `json:"codechef"`
}

// ApplyDefaults replaces nil sequences with empty ones so the serialized
// record always has the full shape.
func (r *ResumeRecord) ApplyDefaults() {
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Hobbies == nil {
		r.Hobbies = []string{}
	}
	if r.Skills.Technical == nil {
		r.Skills.Technical = []string{}
	}
	if r.Skills.Languages == nil {
		r.Skills.Languages = []string{}
	}
	if r.Skills.Certifications == nil {
		r.Skills.Certifications = []string{}
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (r *ResumeRecord) UnmarshalJSON(data []byte) error {
	*r = ResumeRecord{}
	return decodeFields(data, map[string]json.Unmarshaler{
		"personalInfo":   &r.PersonalInfo,
		"experience":     (*looseList[Experience])(&r.Experience),
		"education":      (*looseList[Education])(&r.Education),
		"skills":         &r.Skills,
		"hobbies":        (*StringList)(&r.Hobbies),
		"codingProfiles": &r.CodingProfiles,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *PersonalInfo) UnmarshalJSON(data []byte) error {
	*p = PersonalInfo{}
	return decodeFields(data, map[string]json.Unmarshaler{
		"fullName":  (*LooseString)(&p.FullName),
		"email":     (*LooseString)(&p.Email),
		"phone":     (*LooseString)(&p.Phone),
		"location":  (*LooseString)(&p.Location),
		"linkedin":  (*LooseString)(&p.LinkedIn),
		"portfolio": (*LooseString)(&p.Portfolio),
		"summary":   (*LooseString)(&p.Summary),
		"photoUrl":  (*LooseString)(&p.PhotoURL),
	})
}

// UnmarshalJSON implements json.Unmarshaler. A description sent as a list
// of bullet points is joined with newlines.
func (e *Experience) UnmarshalJSON(data []byte) error {
	*e = Experience{}
	return decodeFields(data, map[string]json.Unmarshaler{
		"id":          &e.ID,
		"title":       (*LooseString)(&e.Title),
		"company":     (*LooseString)(&e.Company),
		"location":    (*LooseString)(&e.Location),
		"startDate":   (*LooseString)(&e.StartDate),
		"endDate":     (*LooseString)(&e.EndDate),
		"current":     &e.Current,
		"description": (*LooseString)(&e.Description),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Education) UnmarshalJSON(data []byte) error {
	*e = Education{}
	return decodeFields(data, map[string]json.Unmarshaler{
		"id":             &e.ID,
		"degree":         (*LooseString)(&e.Degree),
		"school":         (*LooseString)(&e.School),
		"location":       (*LooseString)(&e.Location),
		"graduationDate": (*LooseString)(&e.GraduationDate),
		"gpa":            &e.GPA,
	})
}

// UnmarshalJSON implements json.Unmarshaler. A flat list of skills is
// treated as the technical category.
func (s *Skills) UnmarshalJSON(data []byte) error {
	*s = Skills{}
	if !isObject(data) {
		return (*StringList)(&s.Technical).UnmarshalJSON(data)
	}
	return decodeFields(data, map[string]json.Unmarshaler{
		"technical":      (*StringList)(&s.Technical),
		"languages":      (*StringList)(&s.Languages),
		"certifications": (*StringList)(&s.Certifications),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (c *CodingProfiles) UnmarshalJSON(data []byte) error {
	*c = CodingProfiles{}
	return decodeFields(data, map[string]json.Unmarshaler{
		"github":     (*LooseString)(&c.GitHub),
		"leetcode":   (*LooseString)(&c.LeetCode),
		"hackerrank": (*LooseString)(&c.HackerRank),
		"codeforces": (*LooseString)(&c.Codeforces),
		"kaggle":     (*LooseString)(&c.Kaggle),
		"codechef":   (*LooseString)(&c.CodeChef),
	})
}

// ParsedResume is a decoded ResumeRecord together with the JSON document it
// was decoded from. It serializes as that document, unchanged, so members
// the record does not model are passed through.
type ParsedResume struct {
	ResumeRecord
	Document json.RawMessage `json:"-"`
}

// MarshalJSON implements json.Marshaler
func (p ParsedResume) MarshalJSON() ([]byte, error) {
	if len(p.Document) == 0 {
		return json.Marshal(p.ResumeRecord)
	}
	return p.Document, nil
}

// FullShape returns a copy of the decoded record with defaults applied, for
// consumers that need every container key present.
func (p *ParsedResume) FullShape() *ResumeRecord {
	record := p.ResumeRecord
	record.ApplyDefaults()
	return &record
}
