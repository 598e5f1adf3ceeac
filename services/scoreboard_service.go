// file: services/scoreboard_service.go
package services

import (
	"NovaCTF/config"
	"NovaCTF/database"
	"NovaCTF/models"
	"NovaCTF/utils"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

type ScoreboardEntry struct {
	Rank        uint       `json:"rank"`
	UserID      uint32     `json:"user_id"`
	Username    string     `json:"username"`
	Score       uint       `json:"score"`
	SolvedCount int        `json:"solved_count"`
	LastSolveAt *time.Time `json:"last_solve_at,omitempty"`
}

type SolveFeedEntry struct {
	UserID         uint32    `json:"user_id"`
	Username       string    `json:"username"`
	ChallengeID    uint32    `json:"challenge_id"`
	ChallengeTitle string    `json:"challenge_title"`
	Points         uint      `json:"points"`
	SolvedAt       time.Time `json:"solved_at"`
}

// GetScoreboard computes the ranking from the submission ledger alone, never
// from cached counters, so it stays trivially consistent under replay/audit.
// A short-lived Redis cache sits in front of the computation only.
func GetScoreboard(limit int) ([]ScoreboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("scoreboard:overall:%d", limit)
	if database.RDB != nil {
		if val, err := database.RDB.Get(database.Ctx, cacheKey).Result(); err == nil {
			var cached []ScoreboardEntry
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		}
	}

	entries, err := aggregateScoreboard()
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	if database.RDB != nil {
		if jsonData, err := json.Marshal(entries); err == nil {
			// Short TTL: near-realtime ranking without hammering the ledger.
			database.RDB.Set(database.Ctx, cacheKey, jsonData, 15*time.Second)
		}
	}
	return entries, nil
}

func aggregateScoreboard() ([]ScoreboardEntry, error) {
	var solves []models.Submission
	if err := database.DB.
		Where("result = ?", models.FlagResultCorrect).
		Order("submitted_at asc").
		Find(&solves).Error; err != nil {
		return nil, err
	}
	if len(solves) == 0 {
		return []ScoreboardEntry{}, nil
	}

	points, err := challengePoints(solves)
	if err != nil {
		return nil, err
	}
	names, err := usernames(solves)
	if err != nil {
		return nil, err
	}

	// Deduplicate per (user, challenge): even if duplicate CORRECT rows exist,
	// only the first solving event counts, so a user can never be credited
	// twice for the same challenge.
	type userChallenge struct {
		userID      uint32
		challengeID uint32
	}
	seen := make(map[userChallenge]bool)
	byUser := make(map[uint32]*ScoreboardEntry)

	for _, s := range solves {
		key := userChallenge{s.UserID, s.ChallengeID}
		if seen[key] {
			continue
		}
		seen[key] = true

		entry, ok := byUser[s.UserID]
		if !ok {
			entry = &ScoreboardEntry{UserID: s.UserID, Username: names[s.UserID]}
			byUser[s.UserID] = entry
		}
		entry.Score += points[s.ChallengeID]
		entry.SolvedCount++
		solvedAt := s.SubmittedAt
		if entry.LastSolveAt == nil || solvedAt.After(*entry.LastSolveAt) {
			t := solvedAt
			entry.LastSolveAt = &t
		}
	}

	entries := make([]ScoreboardEntry, 0, len(byUser))
	for _, e := range byUser {
		entries = append(entries, *e)
	}

	tiebreakEarliest := config.C.ScoreboardTiebreak != "none"
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if tiebreakEarliest && entries[i].LastSolveAt != nil && entries[j].LastSolveAt != nil &&
			!entries[i].LastSolveAt.Equal(*entries[j].LastSolveAt) {
			return entries[i].LastSolveAt.Before(*entries[j].LastSolveAt)
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = uint(i + 1)
	}
	return entries, nil
}

// GetRecentSolves is the live-feed projection: latest CORRECT ledger rows,
// first solve per (user, challenge) only.
func GetRecentSolves(limit int) ([]SolveFeedEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var solves []models.Submission
	if err := database.DB.
		Where("result = ?", models.FlagResultCorrect).
		Order("submitted_at asc").
		Find(&solves).Error; err != nil {
		return nil, err
	}
	if len(solves) == 0 {
		return []SolveFeedEntry{}, nil
	}

	names, err := usernames(solves)
	if err != nil {
		return nil, err
	}

	challengeIDs := make([]uint32, 0, len(solves))
	for _, s := range solves {
		challengeIDs = append(challengeIDs, s.ChallengeID)
	}
	var challenges []models.Challenge
	if err := database.DB.Where("id IN ?", challengeIDs).Find(&challenges).Error; err != nil {
		return nil, err
	}
	titles := make(map[uint32]models.Challenge, len(challenges))
	for _, c := range challenges {
		titles[c.ID] = c
	}

	type userChallenge struct {
		userID      uint32
		challengeID uint32
	}
	seen := make(map[userChallenge]bool)
	feed := make([]SolveFeedEntry, 0, len(solves))
	for _, s := range solves {
		key := userChallenge{s.UserID, s.ChallengeID}
		if seen[key] {
			continue
		}
		seen[key] = true
		c := titles[s.ChallengeID]
		feed = append(feed, SolveFeedEntry{
			UserID:         s.UserID,
			Username:       names[s.UserID],
			ChallengeID:    s.ChallengeID,
			ChallengeTitle: c.Title,
			Points:         c.Points,
			SolvedAt:       s.SubmittedAt,
		})
	}

	// Newest first.
	sort.Slice(feed, func(i, j int) bool { return feed[i].SolvedAt.After(feed[j].SolvedAt) })
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

// InvalidateScoreboardCache drops every cached ranking after a new solve.
// Best-effort: a stale 15s cache is acceptable, a failed submission is not.
func InvalidateScoreboardCache() {
	if database.RDB == nil {
		return
	}
	keys, err := database.RDB.Keys(database.Ctx, "scoreboard:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := database.RDB.Del(database.Ctx, keys...).Err(); err != nil {
		utils.Logger.Warn("scoreboard cache invalidation failed", "err", err.Error())
	}
}

func challengePoints(solves []models.Submission) (map[uint32]uint, error) {
	ids := make([]uint32, 0, len(solves))
	for _, s := range solves {
		ids = append(ids, s.ChallengeID)
	}
	var challenges []models.Challenge
	if err := database.DB.Where("id IN ?", ids).Find(&challenges).Error; err != nil {
		return nil, err
	}
	points := make(map[uint32]uint, len(challenges))
	for _, c := range challenges {
		points[c.ID] = c.Points
	}
	return points, nil
}

func usernames(solves []models.Submission) (map[uint32]string, error) {
	ids := make([]uint32, 0, len(solves))
	for _, s := range solves {
		ids = append(ids, s.UserID)
	}
	var users []models.User
	if err := database.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[uint32]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}
