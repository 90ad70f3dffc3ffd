package clients

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront-client/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// check runs struct validation and turns the first failure into a user-facing
// KindValidation error
func (c *APIClient) check(payload interface{}) error {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &APIError{Kind: KindValidation, Detail: "Invalid request", Err: err}
	}
	return validationError(describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please enter a valid email address"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func validateRegistration(c *APIClient, req models.RegisterRequest) error {
	if err := c.check(req); err != nil {
		return err
	}
	if !req.Role.Valid() {
		return validationError("role must be customer or farmer")
	}
	return nil
}

func validateProductCreate(c *APIClient, req models.ProductCreateRequest) error {
	if err := c.check(req); err != nil {
		return err
	}
	if !req.PricePerUnit.GreaterThan(decimal.Zero) {
		return validationError("Price must be a valid number greater than 0")
	}
	return nil
}

func validateProductUpdate(req models.ProductUpdateRequest) error {
	if req.PricePerUnit != nil && !req.PricePerUnit.GreaterThan(decimal.Zero) {
		return validationError("Price must be a valid number greater than 0")
	}
	if req.QuantityAvailable != nil && *req.QuantityAvailable < 0 {
		return validationError("Quantity must be a valid number greater than or equal to 0")
	}
	return nil
}

func validateProfile(c *APIClient, req models.ProfileUpdate) error {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return validationError("First name and last name are required")
	}
	return c.check(req)
}
