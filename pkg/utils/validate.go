package utils

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func ParseArguments[T any](args any) (T, error) {
	var result T

	// check if args is already the correct type
	if arg, ok := args.(T); ok {
		return arg, nil
	}

	// Convert args to T via JSON marshalling/unmarshalling.
	// This assumes args is a type that can be marshaled to JSON and matches the structure of T.
	b, err := json.Marshal(args)
	if err != nil {
		return result, err
	}

	if err = json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("argument %v is not a valid %T", args, result)
	}

	return result, nil
}

func ValidateArguments[T any](args any) (T, error) {
	result, err := ParseArguments[T](args)
	if err != nil {
		return result, err
	}

	if err = validate.Struct(result); err != nil {
		return result, fmt.Errorf("invalid %T: %w", result, err)
	}

	return result, nil
}
