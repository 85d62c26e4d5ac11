package api

import (
	"net/http"

	"github.com/pawmart/pawmart/internal/auth"
)

// Me returns the authenticated caller's profile, reflecting whatever the last
// login upserted.
// GET /api/me
//
// @Summary      Current user
// @Tags         Users
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /me [get]
func Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required", "AUTH_REQUIRED")
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
	})
}
