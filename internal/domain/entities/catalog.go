package entities

import "strings"

// Doctor is a read-only directory entry.
type Doctor struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Specialty    string   `json:"specialty"`
	Experience   int      `json:"experience"`
	Rating       float64  `json:"rating"`
	Education    string   `json:"education"`
	Availability []string `json:"availability"`
	Image        string   `json:"image"`
}

// Article is a health tip or self-checkup topic. Expanded is UI state only.
type Article struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
	Expanded    bool   `json:"expanded"`
}

// DoctorFilter narrows the directory listing.
type DoctorFilter struct {
	Specialty string
	Search    string
}

// MedicalReport is a mock report shown on the reports screen.
type MedicalReport struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Doctor      string `json:"doctor"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Description string `json:"description"`
	FileURL     string `json:"file_url"`
}

// Matches reports whether d passes the filter. Specialty compares the whole
// name case-insensitively; Search is a case-insensitive substring of the
// doctor's name or specialty.
func (f DoctorFilter) Matches(d Doctor) bool {
	specialty := strings.TrimSpace(f.Specialty)
	if specialty != "" && !strings.EqualFold(d.Specialty, specialty) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Name), q) ||
		strings.Contains(strings.ToLower(d.Specialty), q)
}
