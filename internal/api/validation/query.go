package validation

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tasklet/task-server/internal/api/schema"
)

var (
	errQueryParameterMissing = func(name string) *schema.Error {
		return &schema.Error{
			Type:    "validation.query.parameter.missing",
			Message: fmt.Sprintf("The query parameter '%s' is required but was not present in the request.", name),
			Details: map[string]interface{}{
				"parameter": name,
			},
		}
	}
	errQueryParameterInvalidType = func(name, value, expectedType string) *schema.Error {
		return &schema.Error{
			Type:    "validation.query.parameter.invalidType",
			Message: fmt.Sprintf("The query parameter '%s' ('%s') could not be assigned to the required type (%s).", name, value, expectedType),
			Details: map[string]interface{}{
				"parameter":     name,
				"value":         value,
				"expected_type": expectedType,
			},
		}
	}
	errQueryParameterNumberOutOfRange = func(name string, value, min, max int64) *schema.Error {
		comparison := ""
		if value < min {
			comparison = fmt.Sprintf("%d [given] < %d [min]", value, min)
		} else if value > max {
			comparison = fmt.Sprintf("%d [given] > %d [max]", value, max)
		}

		return &schema.Error{
			Type:    "validation.query.parameter.number.outOfRange",
			Message: fmt.Sprintf("The query parameter '%s' is out of the required range (%s).", name, comparison),
			Details: map[string]interface{}{
				"parameter": name,
				"value":     value,
				"min":       min,
				"max":       max,
			},
		}
	}
	errPathParameterInvalidType = func(name, value, expectedType string) *schema.Error {
		return &schema.Error{
			Type:    "validation.path.parameter.invalidType",
			Message: fmt.Sprintf("The path parameter '%s' ('%s') could not be assigned to the required type (%s).", name, value, expectedType),
			Details: map[string]interface{}{
				"parameter":     name,
				"value":         value,
				"expected_type": expectedType,
			},
		}
	}
)

// QueryNumber extracts and validates an integer value out of the query parameters of the given request.
// Values outside of [min, max] are rejected, never clamped.
func QueryNumber(request *http.Request, key string, required bool, def, min, max int64) (int64, *schema.Error) {
	// Extract the raw string value
	value := request.URL.Query().Get(key)
	if value == "" {
		if required {
			return 0, errQueryParameterMissing(key)
		}
		return def, nil
	}

	// Try to parse the value
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errQueryParameterInvalidType(key, value, "number")
	}

	// Check if the parsed value is in the required range
	if parsed < min || parsed > max {
		return 0, errQueryParameterNumberOutOfRange(key, parsed, min, max)
	}

	return parsed, nil
}

// QueryBool extracts and validates a boolean value out of the query parameters of the given request.
// A nil value is returned if the parameter is not present.
func QueryBool(request *http.Request, key string) (*bool, *schema.Error) {
	value := request.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, errQueryParameterInvalidType(key, value, "boolean")
	}
	return &parsed, nil
}

// QueryUUID extracts and validates a UUID value out of the query parameters of the given request.
// A nil value is returned if the parameter is not present.
func QueryUUID(request *http.Request, key string) (*uuid.UUID, *schema.Error) {
	value := strings.TrimSpace(request.URL.Query().Get(key))
	if value == "" {
		return nil, nil
	}

	parsed, err := uuid.Parse(value)
	if err != nil {
		return nil, errQueryParameterInvalidType(key, value, "uuid")
	}
	return &parsed, nil
}

// PathUUID extracts and validates a UUID value out of a path parameter value
func PathUUID(key, value string) (uuid.UUID, *schema.Error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, errPathParameterInvalidType(key, value, "uuid")
	}
	return parsed, nil
}
