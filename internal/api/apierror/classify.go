// Package apierror maps failures to the JSON error envelope returned by
// every endpoint. Classification is pure: the same error always yields the
// same category, status and wording.
package apierror

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dndvault/character-api/internal/core/domain"
	"github.com/dndvault/character-api/internal/core/recovery"
)

// Type is the machine-readable error category.
type Type string

const (
	TypeNetwork    Type = "network_error"
	TypeAuth       Type = "auth_error"
	TypeConfig     Type = "config_error"
	TypeNotFound   Type = "not_found"
	TypeValidation Type = "validation_error"
	TypeDatabase   Type = "database_error"
)

// Classification is the outcome of Classify.
type Classification struct {
	Type            Type
	Status          int
	Title           string
	Message         string
	Troubleshooting []string
}

var networkTroubleshooting = []string{
	"Check your internet connection",
	"Verify the data store is reachable from the API host",
	"Wait a few moments and try again",
	"If the problem persists, check the service status page",
}

var configTroubleshooting = []string{
	"Verify the data store connection settings",
	"Check that the service key or API key is valid",
	"Make sure the project or database name is correct",
	"Restart the server after changing configuration",
}

var authMarkers = []string{"jwt", "authentication", "permission", "401"}

var configMarkers = []string{"invalid api key", "invalid project", "service key"}

// rule pairs a predicate with the classification it produces. Order matters:
// the first matching rule wins.
type rule struct {
	match    func(err error, msg string) bool
	classify func(err error) Classification
}

var rules = []rule{
	{
		match: func(err error, _ string) bool { return recovery.IsTransient(err) },
		classify: func(error) Classification {
			return Classification{
				Type:            TypeNetwork,
				Status:          http.StatusServiceUnavailable,
				Title:           "Network error",
				Message:         "Unable to reach the data store. Please try again shortly.",
				Troubleshooting: networkTroubleshooting,
			}
		},
	},
	{
		match: func(err error, msg string) bool {
			return errors.Is(err, domain.ErrUnauthorized) ||
				errors.Is(err, domain.ErrInvalidCredentials) ||
				containsAny(msg, authMarkers)
		},
		classify: func(error) Classification {
			return Classification{
				Type:    TypeAuth,
				Status:  http.StatusUnauthorized,
				Title:   "Authentication error",
				Message: "Your session is missing, invalid or expired. Please sign in again.",
			}
		},
	},
	{
		match: func(_ error, msg string) bool { return containsAny(msg, configMarkers) },
		classify: func(error) Classification {
			return Classification{
				Type:            TypeConfig,
				Status:          http.StatusInternalServerError,
				Title:           "Configuration error",
				Message:         "The server is not configured correctly to reach the data store.",
				Troubleshooting: configTroubleshooting,
			}
		},
	},
	{
		match: func(err error, _ string) bool {
			return errors.Is(err, domain.ErrCharacterNotFound) || errors.Is(err, domain.ErrUserNotFound)
		},
		classify: func(err error) Classification {
			return Classification{
				Type:    TypeNotFound,
				Status:  http.StatusNotFound,
				Title:   "Not found",
				Message: notFoundMessage(err),
			}
		},
	},
	{
		match: func(err error, _ string) bool {
			return errors.Is(err, domain.ErrInvalidCharacter) || errors.Is(err, domain.ErrInvalidShareToken)
		},
		classify: func(err error) Classification {
			return Classification{
				Type:    TypeValidation,
				Status:  http.StatusBadRequest,
				Title:   "Validation error",
				Message: err.Error(),
			}
		},
	},
}

// Classify maps err to exactly one category. Unmatched errors fall through
// to a generic database error whose message reveals nothing internal.
func Classify(err error) Classification {
	msg := ""
	if err != nil {
		msg = strings.ToLower(err.Error())
	}
	for _, r := range rules {
		if r.match(err, msg) {
			return r.classify(err)
		}
	}
	return Classification{
		Type:    TypeDatabase,
		Status:  http.StatusInternalServerError,
		Title:   "Database error",
		Message: "An unexpected error occurred while processing the request.",
	}
}

// ForStatus classifies an explicit HTTP status chosen by a handler or
// middleware, keeping the handler's own message.
func ForStatus(status int, message string) Classification {
	c := Classification{Status: status, Message: message}
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		c.Type, c.Title = TypeValidation, "Validation error"
	case http.StatusConflict:
		c.Type, c.Title = TypeValidation, "Conflict"
	case http.StatusUnauthorized:
		c.Type, c.Title = TypeAuth, "Authentication error"
	case http.StatusNotFound:
		c.Type, c.Title = TypeNotFound, "Not found"
	case http.StatusServiceUnavailable:
		c.Type, c.Title = TypeNetwork, "Network error"
		c.Troubleshooting = networkTroubleshooting
	default:
		c.Type, c.Title = TypeDatabase, http.StatusText(status)
	}
	return c
}

func notFoundMessage(err error) string {
	if errors.Is(err, domain.ErrUserNotFound) {
		return "User not found."
	}
	return "Character not found."
}

func containsAny(msg string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Response is the JSON error envelope.
type Response struct {
	Error           string    `json:"error"`
	Message         string    `json:"message"`
	Type            Type      `json:"type"`
	Code            string    `json:"code,omitempty"`
	Hint            string    `json:"hint,omitempty"`
	Troubleshooting []string  `json:"troubleshooting,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewResponse renders c, attaching the store's code and hint when err
// carries them.
func NewResponse(c Classification, err error, now time.Time) Response {
	resp := Response{
		Error:           c.Title,
		Message:         c.Message,
		Type:            c.Type,
		Troubleshooting: c.Troubleshooting,
		Timestamp:       now.UTC(),
	}

	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) {
		resp.Code = coded.ErrorCode()
	}
	var hinted interface{ ErrorHint() string }
	if errors.As(err, &hinted) {
		resp.Hint = hinted.ErrorHint()
	}
	return resp
}
