package domain

type ResultCandidate struct {
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int64  `json:"votes"`
}

type ResultPost struct {
	PostID     int64             `json:"post_id"`
	Title      string            `json:"title"`
	Candidates []ResultCandidate `json:"candidates"`
}

type ResultsSummary struct {
	TotalVoters int64 `json:"total_voters,omitempty"`
	TotalVotes  int64 `json:"total_votes,omitempty"`
	VotedCount  int64 `json:"voted_count,omitempty"`
}

type Results struct {
	Results []ResultPost    `json:"results"`
	Summary *ResultsSummary `json:"summary,omitempty"`
}

// Leader returns the candidate with the most votes, or false when the post has none.
// Ties keep the candidate listed first.
func (p ResultPost) Leader() (ResultCandidate, bool) {
	if len(p.Candidates) == 0 {
		return ResultCandidate{}, false
	}
	best := p.Candidates[0]
	for _, c := range p.Candidates[1:] {
		if c.Votes > best.Votes {
			best = c
		}
	}
	return best, true
}

// TotalVotes sums the votes of every candidate in the post.
func (p ResultPost) TotalVotes() int64 {
	var total int64
	for _, c := range p.Candidates {
		total += c.Votes
	}
	return total
}
