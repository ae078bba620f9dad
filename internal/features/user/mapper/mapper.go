package mapper

import (
	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/features/user/models"
)

// ToUserResponse applies the display defaults: a missing status reads as
// inactive and a missing level as 1.
func ToUserResponse(user *models.User) *models.UserResponse {
	status := user.SubscriptionStatus
	if status == "" {
		status = validation.StatusInactive
	}
	level := 1
	if user.Level != nil && *user.Level != 0 {
		level = *user.Level
	}
	return &models.UserResponse{
		UserID:                 user.UserID,
		FirstName:              user.FirstName,
		LastName:               user.LastName,
		Username:               user.Username,
		CreditBalance:          user.CreditBalance,
		SubscriptionStatus:     status,
		StatusClass:            validation.StatusClass(user.SubscriptionStatus),
		SubscriptionExpiryDate: user.SubscriptionExpiryDate,
		Level:                  level,
		XP:                     user.XP,
		CreatedAt:              user.CreatedAt,
	}
}

func ToUserResponses(users []models.User) []*models.UserResponse {
	out := make([]*models.UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
