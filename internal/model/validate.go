package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validateStruct(v interface{}) error {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: required", field)
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s: must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s: must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s: is invalid", field)
	}
}

// Validate checks that the inputs satisfy the invariants the optimizer relies on.
func (in Inputs) Validate() error {
	return validateStruct(in)
}

// Validate checks a single container, e.g. before it is saved to the catalog.
func (c Container) Validate() error {
	return validateStruct(c)
}

// Validate checks a single cargo item.
func (it CargoItem) Validate() error {
	return validateStruct(it)
}
