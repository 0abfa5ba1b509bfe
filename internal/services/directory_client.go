package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
)

// maxErrorBodyBytes bounds how much of an upstream error body ends up in errors and logs
const maxErrorBodyBytes = 512

// DirectoryUser is one person as returned by the demo users directory.
// Fields the directory sends beyond these are ignored.
type DirectoryUser struct {
	ID        *int             `json:"id"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	BirthDate string           `json:"birthDate"`
	Gender    string           `json:"gender"`
	Address   DirectoryAddress `json:"address"`
}

// DirectoryAddress is the postal address block of a DirectoryUser
type DirectoryAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// DirectoryUsersResponse is the envelope of GET /users
type DirectoryUsersResponse struct {
	Users []DirectoryUser `json:"users"`
	Total int             `json:"total"`
	Skip  int             `json:"skip"`
	Limit int             `json:"limit"`
}

// DirectoryClient fetches people from the users directory
type DirectoryClient struct {
	config     models.SourceConfig
	httpClient *HTTPClient
	logger     *lib.Logger
}

// NewDirectoryClient creates a directory client for the configured source
func NewDirectoryClient(config models.SourceConfig, httpClient *HTTPClient, logger *lib.Logger) *DirectoryClient {
	return &DirectoryClient{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// UsersURL returns the endpoint queried by ListUsers
func (c *DirectoryClient) UsersURL() string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.config.Limit))
	return strings.TrimRight(c.config.BaseURL, "/") + "/users?" + q.Encode()
}

// ListUsers performs the single outbound GET and decodes the users list.
// Errors are *lib.AppError values classified by cause.
func (c *DirectoryClient) ListUsers(ctx context.Context) ([]DirectoryUser, error) {
	endpoint := c.UsersURL()
	service := c.serviceName()

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, lib.WrapError(lib.CategoryNetwork, "Fetch cancelled", err)
		}
		if lib.IsTimeoutError(err) {
			return nil, lib.ErrNetworkTimeout(endpoint, err)
		}
		return nil, lib.ErrNetworkUnreachable(endpoint, err)
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		body := truncate(string(resp.Body()), maxErrorBodyBytes)
		c.logger.Error("Directory returned error",
			"status_code", status,
			"error_body", body,
			"retryable", lib.ClassifyHTTPError(status) == lib.ErrorTypeTransient)

		if lib.ClassifyHTTPError(status) == lib.ErrorTypeTransient {
			return nil, lib.ErrServiceUnavailable(service, status, fmt.Errorf("HTTP %d: %s", status, resp.Status()))
		}
		return nil, lib.ErrServiceBadRequest(service, status, body)
	}

	var page DirectoryUsersResponse
	if err := json.Unmarshal(resp.Body(), &page); err != nil {
		return nil, lib.ErrMalformedResponse(service, err)
	}
	// an empty array decodes to a non-nil slice; absent or null does not
	if page.Users == nil {
		return nil, lib.ErrMalformedResponse(service, errors.New(`missing "users" array`))
	}

	c.logger.Debug("Directory users decoded", "count", len(page.Users), "total", page.Total)
	return page.Users, nil
}

func (c *DirectoryClient) serviceName() string {
	if u, err := url.Parse(c.config.BaseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return "directory"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
