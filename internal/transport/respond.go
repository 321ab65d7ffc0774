package transport

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pantry-keeper/internal/middleware"
	"pantry-keeper/internal/repository"
	"pantry-keeper/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errorStatus maps service and repository errors to HTTP status codes.
// Anything unrecognised is a 500.
var errorStatus = []struct {
	err    error
	status int
}{
	{repository.ErrGroceryItemNotFound, http.StatusNotFound},
	{repository.ErrInventoryItemNotFound, http.StatusNotFound},
	{repository.ErrInvitationNotFound, http.StatusNotFound},
	{repository.ErrFamilyMemberNotFound, http.StatusNotFound},
	{repository.ErrUserNotFound, http.StatusNotFound},
	{repository.ErrUserAlreadyExists, http.StatusConflict},
	{repository.ErrInvitationAlreadyExists, http.StatusConflict},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrTokenExpired, http.StatusUnauthorized},
	{service.ErrInvalidName, http.StatusBadRequest},
	{service.ErrInvalidQuantity, http.StatusBadRequest},
	{service.ErrInvalidPrice, http.StatusBadRequest},
	{service.ErrInvalidLocation, http.StatusBadRequest},
	{service.ErrEmailRequired, http.StatusBadRequest},
	{service.ErrSelfInvitation, http.StatusBadRequest},
	{service.ErrInvalidRelationship, http.StatusBadRequest},
}

// respondServiceError writes the error reply for err. Known errors keep their
// message, unknown ones are logged and replaced with fallback.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	for _, known := range errorStatus {
		if errors.Is(err, known.err) {
			logger.Debug(fallback, zap.Error(err))
			middleware.RespondWithError(w, known.status, known.err.Error())
			return
		}
	}

	logger.Error(fallback, zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
}

// callerID returns the authenticated user or replies 401
func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}

// uuidParam parses the named URL parameter or replies 400
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// wantsText reports whether the client asked for the plain-text download
func wantsText(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "text")
}

// respondWithAttachment serves body as a downloadable text file
func respondWithAttachment(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// reportFilename names a report download after its kind and date
func reportFilename(kind string, at time.Time) string {
	return kind + "-report-" + at.Format("2006-01-02") + ".txt"
}
