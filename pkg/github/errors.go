package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
)

// APIError represents a GitHub API error response
type APIError struct {
	StatusCode int
	Message    string
	Errors     []APIErrorDetail
	// RateLimited is set when the request was rejected by the rate limiter.
	RateLimited bool

	err error
}

// APIErrorDetail represents individual error details from GitHub
type APIErrorDetail struct {
	Resource string
	Field    string
	Code     string
	Message  string
}

// Error returns the error message
func (e *APIError) Error() string {
	msg := e.Message
	for _, d := range e.Errors {
		if d.Message != "" {
			msg += "; " + d.Message
		}
	}
	if msg != "" {
		return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("GitHub API error (status %d)", e.StatusCode)
}

// Unwrap returns the go-github error this APIError was built from.
func (e *APIError) Unwrap() error {
	return e.err
}

// wrapError converts go-github errors into *APIError so callers can classify
// them without importing go-github. Other errors are returned unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		status := http.StatusForbidden
		if rateErr.Response != nil {
			status = rateErr.Response.StatusCode
		}
		return &APIError{StatusCode: status, Message: rateErr.Message, RateLimited: true, err: err}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		status := http.StatusForbidden
		if abuseErr.Response != nil {
			status = abuseErr.Response.StatusCode
		}
		return &APIError{StatusCode: status, Message: abuseErr.Message, RateLimited: true, err: err}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		apiErr := &APIError{Message: respErr.Message, err: err}
		if respErr.Response != nil {
			apiErr.StatusCode = respErr.Response.StatusCode
		}
		for _, e := range respErr.Errors {
			apiErr.Errors = append(apiErr.Errors, APIErrorDetail{
				Resource: e.Resource,
				Field:    e.Field,
				Code:     e.Code,
				Message:  e.Message,
			})
		}
		return apiErr
	}

	return err
}

// IsRateLimitError returns true if the error is a rate limit error
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RateLimited || apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsAuthenticationError returns true if the error is an authentication error
func IsAuthenticationError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if IsRateLimitError(err) {
			return false
		}
		return apiErr.StatusCode == http.StatusUnauthorized ||
			apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsDuplicatePullRequestError reports a 422 caused by an existing open PR
// for the same head and base.
func IsDuplicatePullRequestError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	for _, d := range apiErr.Errors {
		if strings.Contains(strings.ToLower(d.Message), "pull request already exists") {
			return true
		}
	}
	return false
}
