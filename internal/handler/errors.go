package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/response"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName makes validator report the JSON name of a field.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// writeError maps service errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := mapError(err)
	response.Fail(c, status, body)
}

func mapError(err error) (int, response.ErrorBody) {
	var verr *subDomain.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]response.FieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, response.FieldError{Field: f.Field, Code: f.Code, Message: f.Message})
		}
		return http.StatusUnprocessableEntity, response.ErrorBody{
			Type:    response.TypeValidation,
			Message: "validation error",
			Errors:  fields,
		}
	case errors.Is(err, subDomain.ErrInvalidIdentifier):
		return http.StatusBadRequest, response.ErrorBody{
			Type:    response.TypeInvalidIdentifier,
			Message: err.Error(),
		}
	case errors.Is(err, subDomain.ErrSubscriptionNotFound):
		return http.StatusNotFound, response.ErrorBody{
			Type:    response.TypeNotFound,
			Message: "Subscription not found",
		}
	default:
		return http.StatusInternalServerError, response.ErrorBody{
			Type:    response.TypeInternal,
			Message: "internal server error",
		}
	}
}

// bindingError converts a gin binding failure into a ValidationError.
func bindingError(err error) error {
	verr := &subDomain.ValidationError{}

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fe.Tag(), fieldMessage(fe))
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		verr.Add(field, "type", "invalid value for "+field+": "+typeErr.Value)
	case errors.As(err, &syntaxErr):
		verr.Add("body", "json", "malformed JSON: "+syntaxErr.Error())
	case errors.Is(err, io.EOF):
		verr.Add("body", "required", "request body is required")
	default:
		verr.Add("body", "invalid", err.Error())
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	default:
		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
}
