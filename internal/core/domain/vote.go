package domain

// WireVote is the backend pair sent to the vote-casting endpoint.
type WireVote struct {
	PostID      int64 `json:"post_id"`
	CandidateID int64 `json:"candidate_id"`
}

type FailedVote struct {
	PostID int64  `json:"post_id"`
	Error  string `json:"error"`
}

type CastVoteResult struct {
	Message     string       `json:"message"`
	VotesCast   int          `json:"votes_cast"`
	FailedVotes []FailedVote `json:"failed_votes,omitempty"`
}
