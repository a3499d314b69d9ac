package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/middleware"
	"sandwich-shop-api/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Handler serves the HTTP API on top of the services
type Handler struct {
	svc  *services.Services
	auth *middleware.Auth
	log  *logrus.Entry
}

func New(svc *services.Services, auth *middleware.Auth, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, auth: auth, log: log.WithField("component", "handlers")}
}

// respondError maps a service error onto a status code and an {"error": ...} body.
func (h *Handler) respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status := http.StatusBadRequest
		if appErr.Kind == apperr.KindNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": appErr.Message})
		return
	}
	_ = c.Error(err)
	h.log.WithError(err).WithField("path", c.FullPath()).Error("unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// bindJSON decodes the body into req and answers 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": describeBindError(err)})
		return false
	}
	return true
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return v, true
}

type amountRequest struct {
	Amount *int `json:"amount" binding:"required"`
}
