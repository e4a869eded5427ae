package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator adapts go-playground/validator to echo's Validator hook.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
