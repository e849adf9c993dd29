package domain

// PostRecord is a post as the election API returns it.
type PostRecord struct {
	ID         int64             `json:"id"`
	Title      string            `json:"title"`
	IsActive   bool              `json:"is_active"`
	Candidates []CandidateRecord `json:"candidates,omitempty"`
}

type CandidateRecord struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

// Post is a ballot entry keyed by its UI identifier (see PostUIID).
type Post struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

// HasCandidate reports whether candidateID belongs to p.
func (p Post) HasCandidate(candidateID string) bool {
	for _, c := range p.Candidates {
		if c.ID == candidateID {
			return true
		}
	}
	return false
}

type ElectoralVoter struct {
	VoterID     int64  `json:"voter_id"`
	SlNo        int    `json:"sl_no"`
	FormNo      string `json:"form_no"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	IDNo        string `json:"id_no"`
	CreatedAt   string `json:"created_at"`
}

type Pagination struct {
	CurrentPage     int  `json:"current_page"`
	ItemsPerPage    int  `json:"items_per_page"`
	TotalItems      int  `json:"total_items"`
	TotalPages      int  `json:"total_pages"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

type ElectoralPage struct {
	Voters     []ElectoralVoter `json:"voters"`
	Pagination Pagination       `json:"pagination"`
	Summary    struct {
		TotalVoters int `json:"total_voters"`
	} `json:"summary"`
}
