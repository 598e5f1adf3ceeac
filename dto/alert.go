// file: dto/alert.go
package dto

type AlertItemResp struct {
	ID             uint64  `json:"id"`
	UserID         uint32  `json:"user_id"`
	Username       string  `json:"username"`
	Type           string  `json:"type"`
	Severity       string  `json:"severity"`
	Details        string  `json:"details"`
	Rationale      string  `json:"rationale"`
	Acknowledged   bool    `json:"acknowledged"`
	AcknowledgedBy *uint32 `json:"acknowledged_by,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type ScoreboardEntryResp struct {
	Rank        uint   `json:"rank"`
	UserID      uint32 `json:"user_id"`
	Username    string `json:"username"`
	Score       uint   `json:"score"`
	SolvedCount int    `json:"solved_count"`
	LastSolveAt string `json:"last_solve_at,omitempty"`
}

type SolveFeedEntryResp struct {
	UserID         uint32 `json:"user_id"`
	Username       string `json:"username"`
	ChallengeID    uint32 `json:"challenge_id"`
	ChallengeTitle string `json:"challenge_title"`
	Points         uint   `json:"points"`
	SolvedAt       string `json:"solved_at"`
}
