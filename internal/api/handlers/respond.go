package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{Error: message})
}

// respondWithAppError maps service errors onto HTTP status codes.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: appErr.Message, Fields: appErr.Fields})
	case apperrors.ErrorTypeInvalidCredentials, apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		log.Error().Err(appErr).Str("path", r.URL.Path).Msg("internal error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body into dst, replying 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	respondWithError(w, http.StatusBadRequest, "invalid request payload")
	return false
}
