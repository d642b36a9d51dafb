package httpapi

import "coderhack/internal/domain"

// POST /users body
type registerRequest struct {
	UserID   string `json:"userId" validate:"notblank,max=255"`
	Username string `json:"username" validate:"notblank"`
}

// "field.tag" (json name, validator tag) -> message for a failed registerRequest rule
var registerFieldMessages = map[string]string{
	"userId.notblank":   domain.MsgUserIDRequired,
	"userId.max":        domain.MsgUserIDTooLong,
	"username.notblank": domain.MsgUsernameRequired,
}

type userResponse struct {
	UserID   string          `json:"userId"`
	Username string          `json:"username"`
	Score    int             `json:"score"`
	Badges   domain.BadgeSet `json:"badges"`
}

type messageOnly struct {
	Message string `json:"message"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Score:    u.Score,
		Badges:   u.Badges,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}
