// Package hosted implements the data store on a hosted PostgREST API.
package hosted

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

const (
	restPath = "/rest/v1"

	preferRepresentation = "return=representation"
	preferMerge          = "resolution=merge-duplicates,return=minimal"

	pgUniqueViolation = "23505"
)

// APIError is the error body returned by PostgREST.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("hosted store returned %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("hosted store returned %d: %s", e.Status, e.Message)
}

// newRestClient builds a resty client authenticated with the service key.
func newRestClient(baseURL, serviceKey string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+restPath).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", serviceKey).
		SetAuthToken(serviceKey).
		SetTimeout(timeout)
}

// do sends a request and decodes a 2xx JSON body into out when out is not nil.
// Transport failures and error statuses are classified into StoreErrors.
func do(op string, req *resty.Request, method, path string, out any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		// No response means the store could not be reached.
		return domainerror.NewStoreError(op, domainerror.ErrBackendUnavailable, err)
	}

	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		if jsonErr := json.Unmarshal(resp.Body(), apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(resp.String())
		}
		return domainerror.NewStoreError(op, statusKind(apiErr), apiErr)
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return domainerror.NewStoreError(op, domainerror.ErrUnknown, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func statusKind(apiErr *APIError) error {
	switch {
	case apiErr.Status == http.StatusConflict || apiErr.Code == pgUniqueViolation:
		return domainerror.ErrConflict
	case apiErr.Status == http.StatusUnauthorized, apiErr.Status == http.StatusForbidden:
		return domainerror.ErrBackendUnavailable
	case apiErr.Status >= http.StatusInternalServerError:
		return domainerror.ErrBackendUnavailable
	default:
		return domainerror.ErrUnknown
	}
}

func eq(value any) string {
	return fmt.Sprintf("eq.%v", value)
}

func in(values []string) string {
	return "in.(" + strings.Join(values, ",") + ")"
}
