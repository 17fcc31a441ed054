package reasoning

import (
	"net/http"

	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// CompareHandler godoc
// @Summary Compare a doctor's reasoning with AI reasoning
// @Description Nothing is persisted. Generation failures come back as 200 with {"error": message}.
// @Tags reasoning
// @Accept json
// @Produce json
// @Param request body Request true "Patient data and the doctor's reasoning"
// @Success 200 {object} assistant.ReasoningOutput
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/v1/reasoning/compare [post]
// @Security BearerAuth
func CompareHandler(comparer Comparer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid request body", err)
			return
		}

		result := comparer.CompareReasoning(c.Request.Context(), assistant.ReasoningInput{
			PatientData:     req.PatientData,
			DoctorReasoning: req.DoctorReasoning,
		})

		c.JSON(http.StatusOK, result)
	}
}
