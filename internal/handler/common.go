// Package handler defines the HTTP handlers of the API.
package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validate is the shared validator instance. Field names in error
// reports come from the json tags so clients see the names they sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors flattens validator errors into a field -> message map for
// 400 responses. Nested fields keep their path, e.g. "movies[1].uuid".
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = "invalid request"
		return out
	}
	for _, fe := range verrs {
		name := fe.Namespace()
		if i := strings.IndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		switch fe.Tag() {
		case "required":
			out[name] = "this field is required"
		case "uuid":
			out[name] = "must be a valid uuid"
		case "email":
			out[name] = "must be a valid email address"
		default:
			out[name] = "is invalid"
		}
	}
	return out
}

// currentUserID extracts the authenticated user's ID that JWTAuth
// stored in the context.
func currentUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v, nil
	}
	return 0, errors.New("no authenticated user in context")
}
