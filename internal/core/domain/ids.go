package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

const postIDPrefix = "post-"

var (
	postIDPattern      = regexp.MustCompile(`^post-([1-9][0-9]*)$`)
	candidateIDPattern = regexp.MustCompile(`^([1-9][0-9]*)-([1-9][0-9]*)$`)
)

// PostUIID encodes a backend post id as "post-<id>".
func PostUIID(postID int64) string {
	return postIDPrefix + strconv.FormatInt(postID, 10)
}

// CandidateUIID encodes a backend candidate id as "<post>-<candidate>".
func CandidateUIID(postID, candidateID int64) string {
	return strconv.FormatInt(postID, 10) + "-" + strconv.FormatInt(candidateID, 10)
}

func ParsePostID(uiPostID string) (int64, error) {
	m := postIDPattern.FindStringSubmatch(uiPostID)
	if m == nil {
		return 0, malformedID("post", uiPostID)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, malformedID("post", uiPostID)
	}
	return id, nil
}

// ParseCandidateID returns the post and candidate components of a candidate UI id.
func ParseCandidateID(uiCandidateID string) (postID, candidateID int64, err error) {
	m := candidateIDPattern.FindStringSubmatch(uiCandidateID)
	if m == nil {
		return 0, 0, malformedID("candidate", uiCandidateID)
	}
	postID, err = strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, 0, malformedID("candidate", uiCandidateID)
	}
	candidateID, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, 0, malformedID("candidate", uiCandidateID)
	}
	return postID, candidateID, nil
}

// ToWireVote decodes a UI selection into the backend pair. The candidate id is
// taken from its own component, never from a position inside the post.
func ToWireVote(uiPostID, uiCandidateID string) (WireVote, error) {
	postID, err := ParsePostID(uiPostID)
	if err != nil {
		return WireVote{}, err
	}
	_, candidateID, err := ParseCandidateID(uiCandidateID)
	if err != nil {
		return WireVote{}, err
	}
	return WireVote{PostID: postID, CandidateID: candidateID}, nil
}

// BallotFromRecords turns fetched records into ballot posts. Inactive posts are
// dropped and fetch order is kept.
func BallotFromRecords(records []PostRecord) []Post {
	posts := make([]Post, 0, len(records))
	for _, r := range records {
		if !r.IsActive {
			continue
		}
		post := Post{
			ID:         PostUIID(r.ID),
			Title:      r.Title,
			Candidates: make([]Candidate, 0, len(r.Candidates)),
		}
		for _, c := range r.Candidates {
			post.Candidates = append(post.Candidates, Candidate{
				ID:         CandidateUIID(r.ID, c.ID),
				Name:       c.Name,
				Department: c.Department,
				PhotoURL:   c.PhotoURL,
			})
		}
		posts = append(posts, post)
	}
	return posts
}

func malformedID(what, value string) error {
	return &Error{
		Kind:    KindMalformedID,
		Message: fmt.Sprintf("invalid %s id format: %q", what, value),
	}
}
