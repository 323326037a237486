package converter

import (
	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO. The password hash never leaves the entity.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		Login: user.Login,
		Role:  user.Role.String(),
	}
}
