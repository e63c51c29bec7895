package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/samyuktha-jana/SAP-hackathon/internal/util"
)

type leaderRow struct {
	MentorID    uint   `json:"mentor_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Team        string `json:"team"`
	PointsTotal int    `json:"points_total"`
}

// Leaderboard 导师积分排行，积分相同按 ID
func Leaderboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []leaderRow
		err := db.WithContext(c.Request.Context()).
			Table("rewards").
			Select("rewards.mentor_id, users.name, users.email, users.team, rewards.points_total").
			Joins("JOIN users ON users.id = rewards.mentor_id").
			Order("rewards.points_total DESC, rewards.mentor_id ASC").
			Limit(100).
			Scan(&rows).Error
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "load leaderboard failed")
			return
		}
		util.Success(c, util.Response{"items": rows})
	}
}
