package syncer

import "time"

// Skip records one item that was left out of the run and why. Skips are
// operational signal, not run-level failures.
type Skip struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// Summary is the run result: what made it into the manifest and what did not.
type Summary struct {
	Albums      int       `json:"albums"`
	Photos      int       `json:"photos"`
	Skipped     []Skip    `json:"skipped,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

func (s *Summary) skip(item, reason string) {
	s.Skipped = append(s.Skipped, Skip{Item: item, Reason: reason})
}
