package profiles

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/gemiwell/server/gemiwell/profiles"
	"codeberg.org/gemiwell/server/internal/auth"
	"codeberg.org/gemiwell/server/internal/errors"
	"codeberg.org/gemiwell/server/internal/feed"
	"github.com/gin-gonic/gin"
)

// GetHandler godoc
// @Summary Get the current user's health profile
// @Tags profile
// @Produce json
// @Success 200 {object} profiles.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/profile [get]
// @Security BearerAuth
func GetHandler(store ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		profile, err := store.Get(c.Request.Context(), userID)
		if stderrors.Is(err, profiles.ErrProfileNotFound) {
			errors.NotFound(c, "profile")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to load profile", err)
			return
		}

		c.JSON(http.StatusOK, profile)
	}
}

// UpdateHandler godoc
// @Summary Create or update the current user's health profile
// @Description Only the provided fields change
// @Tags profile
// @Accept json
// @Produce json
// @Param request body profiles.UpdateRequest true "Profile fields"
// @Success 200 {object} profiles.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/profile [put]
// @Security BearerAuth
func UpdateHandler(store ProfileStore, publisher feed.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req profiles.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		profile, err := store.Upsert(c.Request.Context(), userID, req)
		if err != nil {
			errors.InternalError(c, "failed to save profile", err)
			return
		}

		feed.Notify(c.Request.Context(), publisher, userID, feed.TypeProfileUpdated, feed.CollectionProfile, userID, profile)

		c.JSON(http.StatusOK, profile)
	}
}
