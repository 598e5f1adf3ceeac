// file: controllers/scoreboard_controller.go
package controllers

import (
	"NovaCTF/dto"
	"NovaCTF/services"
	"NovaCTF/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetScoreboard serves the ranking projection (Redis-cached on hot paths).
func GetScoreboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := services.GetScoreboard(limit)
	if err != nil {
		utils.Logger.Error("scoreboard aggregation failed", "err", err.Error())
		utils.ServerError(c)
		return
	}

	items := make([]dto.ScoreboardEntryResp, 0, len(entries))
	for _, e := range entries {
		item := dto.ScoreboardEntryResp{
			Rank:        e.Rank,
			UserID:      e.UserID,
			Username:    e.Username,
			Score:       e.Score,
			SolvedCount: e.SolvedCount,
		}
		if e.LastSolveAt != nil {
			item.LastSolveAt = e.LastSolveAt.Format("2006-01-02 15:04:05")
		}
		items = append(items, item)
	}

	utils.Success(c, "success", items)
}

// GetSolveFeed serves the recent-solves projection.
func GetSolveFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	feed, err := services.GetRecentSolves(limit)
	if err != nil {
		utils.Logger.Error("solve feed query failed", "err", err.Error())
		utils.ServerError(c)
		return
	}

	items := make([]dto.SolveFeedEntryResp, 0, len(feed))
	for _, f := range feed {
		items = append(items, dto.SolveFeedEntryResp{
			UserID:         f.UserID,
			Username:       f.Username,
			ChallengeID:    f.ChallengeID,
			ChallengeTitle: f.ChallengeTitle,
			Points:         f.Points,
			SolvedAt:       f.SolvedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.Success(c, "success", items)
}
