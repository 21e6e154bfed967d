package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	errRequestBodyInvalidJSON = func(err string) *Error {
		return &Error{
			Type:    "validation.requestBody.invalidJSON",
			Message: "Request body is not a valid JSON input.",
			Details: map[string]interface{}{
				"error": err,
			},
		}
	}
	errRequestBodyParameterInvalidType = func(name, expectedType string) *Error {
		return &Error{
			Type:    "validation.requestBody.parameter.invalidType",
			Message: fmt.Sprintf("The request body parameter '%s' could not be assigned to the required type (%s).", name, expectedType),
			Details: map[string]interface{}{
				"parameter":     name,
				"expected_type": expectedType,
			},
		}
	}
	errRequestBodyParameterMissing = func(name string) *Error {
		return &Error{
			Type:    "validation.requestBody.parameter.missing",
			Message: fmt.Sprintf("The request body parameter '%s' is required but was not present in the request.", name),
			Details: map[string]interface{}{
				"parameter": name,
			},
		}
	}
	errRequestBodyParameterFailedRule = func(name, rule, param string) *Error {
		return &Error{
			Type:    "validation.requestBody.parameter.failedRule",
			Message: fmt.Sprintf("The request body parameter '%s' does not satisfy the '%s' rule.", name, rule),
			Details: map[string]interface{}{
				"parameter":      name,
				"rule":           rule,
				"rule_parameter": param,
			},
		}
	}
)

// validate performs the struct validations declared through 'validate' tags.
// Field names in raised errors follow the fields' JSON representation.
var validate = func() *validator.Validate {
	instance := validator.New()
	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return instance
}()

// UnmarshalBody parses and decodes a JSON request body and performs validations on it
func UnmarshalBody[T any](request *http.Request) (*T, []*Error, error) {
	body, err := io.ReadAll(request.Body)
	if err != nil {
		return nil, nil, err
	}

	target := new(T)
	if err := json.Unmarshal(body, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, []*Error{errRequestBodyParameterInvalidType(typeErr.Field, typeErr.Type.String())}, nil
		}
		return nil, []*Error{errRequestBodyInvalidJSON(err.Error())}, nil
	}

	if err := validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, nil, err
		}
		errs := make([]*Error, 0, len(fieldErrs))
		for _, fieldErr := range fieldErrs {
			if fieldErr.Tag() == "required" {
				errs = append(errs, errRequestBodyParameterMissing(fieldErr.Field()))
				continue
			}
			errs = append(errs, errRequestBodyParameterFailedRule(fieldErr.Field(), fieldErr.Tag(), fieldErr.Param()))
		}
		return nil, errs, nil
	}

	return target, nil, nil
}
