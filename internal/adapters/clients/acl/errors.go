package acl

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/clients"
	"github.com/jsamuelsen/hitokoto-service/internal/domain"
)

// maxErrorBodyBytes caps how much of an error body is kept for the error message.
const maxErrorBodyBytes = 256

// MapHTTPError maps a failed exchange with an external service to a domain error.
// resp may be nil when the client returned an error before any response.
//
//   - circuit open / retries exhausted / transport failure → UnavailableError
//   - 404 → NotFoundError (entity is the service, ID is the requested URL)
//   - 429 and 5xx → UnavailableError
//   - any other non-2xx → UnavailableError with "unexpected HTTP n"
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	return mapStatusCode(resp, serviceName)
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return fmt.Errorf("%w: %w", domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s", operation)), err)

	default:
		return fmt.Errorf("%w: %w", domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed", operation)), err)
	}
}

func mapStatusCode(resp *http.Response, serviceName string) error {
	status := resp.StatusCode

	switch {
	case status == http.StatusNotFound:
		id := ""
		if resp.Request != nil && resp.Request.URL != nil {
			id = resp.Request.URL.String()
		}

		return domain.NewNotFoundError(serviceName, id)

	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")

	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(serviceName, withBody(fmt.Sprintf("HTTP %d", status), resp.Body))

	default:
		return domain.NewUnavailableError(serviceName, withBody(fmt.Sprintf("unexpected HTTP %d", status), resp.Body))
	}
}

// withBody appends a short excerpt of body to msg when there is one.
func withBody(msg string, body io.Reader) string {
	if body == nil {
		return msg
	}

	b, _ := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))

	excerpt := strings.TrimSpace(string(b))
	if excerpt == "" {
		return msg
	}

	return msg + ": " + excerpt
}
