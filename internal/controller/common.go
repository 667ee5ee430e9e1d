package controller

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 16 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func getAllErrorMessages(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s %s", fe.Field(), getMessage(fe)))
	}

	return strings.Join(messages, "; ")
}

func getMessage(fe validator.FieldError) string {
	// postBidInput only carries required tags; range checks live in the service.
	if fe.Tag() == "required" {
		return "is required"
	}

	return "has an incorrect value"
}
