package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"posts-api/apperrors"

	"github.com/go-playground/validator/v10"
)

// Defaults applied when a search parameter is absent. A parameter that
// is present but invalid is always rejected, never defaulted.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = "createdAt"
	DefaultOrder = "desc"
	MaxLimit     = 100
)

// CreatePostInput is the body of POST /posts after trimming.
type CreatePostInput struct {
	Title     string `json:"title" validate:"required,max=255"`
	Content   string `json:"content" validate:"required,max=10000"`
	Published bool   `json:"published"`
}

// UpdatePostInput is the body of PUT /posts/{id}. A nil field means
// "leave unchanged"; a present empty string is rejected.
type UpdatePostInput struct {
	Title     *string `json:"title" validate:"omitnil,min=1,max=255"`
	Content   *string `json:"content" validate:"omitnil,min=1,max=10000"`
	Published *bool   `json:"published"`
}

// SearchPostsInput is the coerced query string of GET /posts/search.
type SearchPostsInput struct {
	Query     string
	Page      int
	Limit     int
	Sort      string
	Order     string
	Published *bool
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ParseCreateInput decodes and validates a create request body.
func ParseCreateInput(body io.Reader) (CreatePostInput, error) {
	var input CreatePostInput
	if err := json.NewDecoder(body).Decode(&input); err != nil {
		return CreatePostInput{}, invalidJSON()
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)

	if err := validate.Struct(input); err != nil {
		return CreatePostInput{}, translate(err)
	}
	return input, nil
}

// ParseUpdateInput decodes and validates a partial-update body. Fields
// absent from the JSON stay nil so the repository can tell "unchanged"
// from "set to empty", which is rejected here.
func ParseUpdateInput(body io.Reader) (UpdatePostInput, error) {
	var input UpdatePostInput
	if err := json.NewDecoder(body).Decode(&input); err != nil {
		return UpdatePostInput{}, invalidJSON()
	}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
	}
	if input.Content != nil {
		trimmed := strings.TrimSpace(*input.Content)
		input.Content = &trimmed
	}

	if err := validate.Struct(input); err != nil {
		return UpdatePostInput{}, translate(err)
	}
	return input, nil
}

// ParseSearchInput coerces the string-encoded query parameters into a
// SearchPostsInput, applying defaults for absent parameters only.
func ParseSearchInput(values url.Values) (SearchPostsInput, error) {
	input := SearchPostsInput{
		Query: values.Get("query"),
		Page:  DefaultPage,
		Limit: DefaultLimit,
		Sort:  DefaultSort,
		Order: DefaultOrder,
	}
	var fields []apperrors.FieldError

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fields = append(fields, apperrors.FieldError{Field: "page", Message: "Page must be an integer", Code: "invalid_type"})
		case page < 1:
			fields = append(fields, apperrors.FieldError{Field: "page", Message: "Page must be greater than 0", Code: "too_small"})
		default:
			input.Page = page
		}
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fields = append(fields, apperrors.FieldError{Field: "limit", Message: "Limit must be an integer", Code: "invalid_type"})
		case limit < 1:
			fields = append(fields, apperrors.FieldError{Field: "limit", Message: "Limit must be greater than 0", Code: "too_small"})
		case limit > MaxLimit:
			fields = append(fields, apperrors.FieldError{Field: "limit", Message: fmt.Sprintf("Maximum limit is %d", MaxLimit), Code: "too_big"})
		default:
			input.Limit = limit
		}
	}

	if raw := values.Get("sort"); raw != "" {
		switch raw {
		case "createdAt", "updatedAt", "title":
			input.Sort = raw
		default:
			fields = append(fields, apperrors.FieldError{Field: "sort", Message: "Sort field must be createdAt, updatedAt, or title", Code: "invalid_enum_value"})
		}
	}

	if raw := values.Get("order"); raw != "" {
		switch raw {
		case "asc", "desc":
			input.Order = raw
		default:
			fields = append(fields, apperrors.FieldError{Field: "order", Message: "Order must be asc or desc", Code: "invalid_enum_value"})
		}
	}

	if raw := values.Get("published"); raw != "" {
		switch raw {
		case "true":
			published := true
			input.Published = &published
		case "false":
			published := false
			input.Published = &published
		default:
			fields = append(fields, apperrors.FieldError{Field: "published", Message: "Published must be true or false", Code: "invalid_type"})
		}
	}

	if len(fields) > 0 {
		return SearchPostsInput{}, apperrors.NewValidation(fields)
	}
	return input, nil
}

// ParseID coerces a path parameter into a positive post id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidation([]apperrors.FieldError{
			{Field: "id", Message: "ID must be an integer", Code: "invalid_type"},
		})
	}
	if id <= 0 {
		return 0, apperrors.NewValidation([]apperrors.FieldError{
			{Field: "id", Message: "ID must be a positive number", Code: "too_small"},
		})
	}
	return id, nil
}

func invalidJSON() error {
	return apperrors.NewValidation([]apperrors.FieldError{
		{Field: "body", Message: "Invalid JSON payload", Code: "invalid_type"},
	})
}

// translate converts validator failures into field-level entries so
// every violated rule is reported, not just the first.
func translate(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidation([]apperrors.FieldError{
			{Field: "body", Message: "Invalid request body", Code: "invalid_type"},
		})
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, apperrors.FieldError{
			Field:   fieldErr.Field(),
			Message: messageFor(fieldErr.Field(), fieldErr.Tag(), fieldErr.Param()),
			Code:    codeFor(fieldErr.Tag()),
		})
	}
	return apperrors.NewValidation(fields)
}

func messageFor(field, tag, param string) string {
	label := strings.ToUpper(field[:1]) + field[1:]
	switch tag {
	case "required", "min":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must have a maximum of %s characters", label, param)
	default:
		return label + " is invalid"
	}
}

func codeFor(tag string) string {
	switch tag {
	case "required", "min":
		return "too_small"
	case "max":
		return "too_big"
	default:
		return "invalid_type"
	}
}
