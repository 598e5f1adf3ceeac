// file: controllers/flag_controller.go
package controllers

import (
	"NovaCTF/dto"
	"NovaCTF/middlewares"
	"NovaCTF/services"
	"NovaCTF/utils"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SetChallengeFlag is the privileged flag-set endpoint. The admin role has
// already been re-derived from the users table by the route middleware; the
// plaintext exists only in this request and, when generated, in the response.
func SetChallengeFlag(c *gin.Context) {
	challengeID, _ := strconv.Atoi(c.Param("id"))

	var req dto.SetFlagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "invalid parameters: "+err.Error())
		return
	}

	generated := ""
	if req.Generate {
		generated = utils.GenerateFlag()
		req.Flag = generated
	}
	if req.Flag == "" {
		utils.Error(c, 1001, "flag is required (or set generate=true)")
		return
	}

	actorID, ok := middlewares.UserID(c)
	if !ok {
		utils.Error(c, 4001, "not authenticated")
		return
	}

	if err := services.SetFlag(actorID, uint32(challengeID), req.Flag); err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			utils.Error(c, 4004, "challenge not found")
			return
		}
		utils.Logger.Error("flag set failed", "challenge_id", challengeID, "err", err.Error())
		utils.ServerError(c)
		return
	}

	data := gin.H{"success": true}
	if generated != "" {
		data["flag"] = generated
	}
	utils.Success(c, "Flag updated", data)
}
