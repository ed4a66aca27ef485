package auth

import (
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/utils"
)

// SessionInfo satisfies middleware.SessionFetcher against the app_auth
// tables.
type SessionInfo struct{}

func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session

	err := db.DB.First(&session, "session_id = ?", id).Error
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
