package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/revorbit/auto-frames/internal/api/middleware"
	"github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/utils/response"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// authenticated writes the 401 itself when the request carries no claims.
func authenticated(w http.ResponseWriter, r *http.Request) (*models.Claims, *slog.Logger, bool) {

	logger := middleware.LoggerFromContext(r.Context())

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn("Unauthorized access attempt: missing user claims")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, logger, false
	}

	return claims, logger.With(slog.String("userID", claims.UserID.String())), true
}

func pagination(r *http.Request) (int, int) {

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	return page, pageSize
}
