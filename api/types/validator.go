/*
 * Copyright 2026 The Inkwell Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var defaultValidator = validator.New()

// FieldViolation describes a single invalid field.
type FieldViolation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// InvalidFieldsError is returned when a struct fails validation.
type InvalidFieldsError struct {
	Name       string
	Violations []*FieldViolation
}

// Error returns the error message.
func (e *InvalidFieldsError) Error() string {
	var fields []string
	for _, v := range e.Violations {
		fields = append(fields, v.Field+": "+v.Description)
	}
	return fmt.Sprintf("invalid %s: %s", e.Name, strings.Join(fields, ", "))
}

// registerValidation registers a custom validation tag. Call it from init.
func registerValidation(tag string, fn validator.Func) {
	if err := defaultValidator.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// validateStruct validates s and converts validator errors into an
// InvalidFieldsError named after the validated type.
func validateStruct(name string, s interface{}) error {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate %s: %w", name, err)
	}

	invalid := &InvalidFieldsError{Name: name}
	for _, fieldErr := range validationErrors {
		desc := fieldErr.Tag()
		if fieldErr.Param() != "" {
			desc += "=" + fieldErr.Param()
		}
		invalid.Violations = append(invalid.Violations, &FieldViolation{
			Field:       fieldErr.Field(),
			Description: desc,
		})
	}
	return invalid
}
