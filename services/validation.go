package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"feveo/taskmanager/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// RegisterInput is the validated form of a registration request.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
}

// UpdateUserInput carries a partial profile update. Nil fields are left untouched.
type UpdateUserInput struct {
	Username *string `json:"username" validate:"omitnil,min=3,max=50"`
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=6,max=72"`
}

func (in *UpdateUserInput) normalize() {
	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		in.Username = &trimmed
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
}

// CreateTaskInput is the validated form of a task creation request.
type CreateTaskInput struct {
	Title       string          `json:"title" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Priority    models.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Completed   bool            `json:"completed"`
	DueDate     OptionalDate    `json:"dueDate"`
}

func (in *CreateTaskInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
}

// UpdateTaskInput carries a partial task update. Nil fields are left untouched.
// Version, when set, must match the stored version.
type UpdateTaskInput struct {
	Title       *string          `json:"title" validate:"omitnil,min=1,max=100"`
	Description *string          `json:"description" validate:"omitnil,max=500"`
	Priority    *models.Priority `json:"priority" validate:"omitnil,oneof=low medium high"`
	Completed   *bool            `json:"completed"`
	DueDate     OptionalDate     `json:"dueDate"`
	Version     *int             `json:"version" validate:"omitnil,min=1"`

	// decodeErr is the first field that failed to decode. It is reported by
	// validate, which runs only once the caller may touch the task.
	decodeErr error
}

// UnmarshalJSON decodes field by field. Only a body that is not a JSON object
// fails here; a bad field value is kept until validate.
func (in *UpdateTaskInput) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*in = UpdateTaskInput{}
	in.decodeField(fields, "title", &in.Title)
	in.decodeField(fields, "description", &in.Description)
	in.decodeField(fields, "priority", &in.Priority)
	in.decodeField(fields, "completed", &in.Completed)
	in.decodeField(fields, "dueDate", &in.DueDate)
	in.decodeField(fields, "version", &in.Version)
	return nil
}

func (in *UpdateTaskInput) decodeField(fields map[string]json.RawMessage, name string, dst interface{}) {
	raw, ok := fields[name]
	if !ok {
		return
	}
	err := json.Unmarshal(raw, dst)
	if err == nil || in.decodeErr != nil {
		return
	}
	if errors.Is(err, ErrValidation) {
		in.decodeErr = err
		return
	}
	in.decodeErr = ValidationError("%s has an invalid type", name)
}

func (in *UpdateTaskInput) normalize() {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
}

func (in *UpdateTaskInput) validate() error {
	if in.decodeErr != nil {
		return in.decodeErr
	}
	return validateStruct(in)
}

// TaskFilter narrows a task listing.
type TaskFilter struct {
	Status   string `form:"status" json:"status" validate:"omitempty,oneof=all active completed"`
	Priority string `form:"priority" json:"priority" validate:"omitempty,oneof=low medium high"`
	Search   string `form:"search" json:"search" validate:"max=100"`
}

// OptionalDate distinguishes an absent dueDate from an explicit null.
type OptionalDate struct {
	Set  bool
	Time *time.Time
}

var dueDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if bytes.Equal(data, []byte("null")) {
		d.Time = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ValidationError("dueDate must be a date string")
	}
	parsed, err := ParseDueDate(raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// DateOf returns a set OptionalDate holding t.
func DateOf(t time.Time) OptionalDate {
	return OptionalDate{Set: true, Time: &t}
}

// ParseDueDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
// An empty string clears the date.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, ValidationError("dueDate %q is not a valid date", raw)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateStruct runs the struct tags and turns the first failure into a
// readable ValidationError.
func validateStruct(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ValidationError("%v", err)
	}
	return ValidationError("%s", describeFieldError(verrs[0]))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return fmt.Sprintf("%s must not be empty", field)
			}
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
