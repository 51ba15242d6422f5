package form

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/jetsetgo/qr-studio/internal/config"
)

// ContentMessage is shown on the content field when it does not look like a URL.
const ContentMessage = "Please enter a valid URL (e.g., https://example.com)"

// Form field names, shared with the remote service and the web UI.
const (
	FieldURL       = "url"
	FieldHeadline  = "headline"
	FieldBoxSize   = "box_size"
	FieldBorder    = "border"
	FieldFillColor = "fill_color"
	FieldBackColor = "back_color"
)

// GenerationRequest is one submission of the form.
type GenerationRequest struct {
	URL       string `json:"url" validate:"required,content"`
	Headline  string `json:"headline" validate:"max=200"`
	BoxSize   int    `json:"box_size"`
	Border    int    `json:"border"`
	FillColor string `json:"fill_color" validate:"required,hexcolor"`
	BackColor string `json:"back_color" validate:"required,hexcolor"`
}

// Encode returns the form-encoded fields posted to the generate endpoint.
func (r GenerationRequest) Encode() url.Values {
	v := url.Values{}
	v.Set(FieldURL, r.URL)
	v.Set(FieldHeadline, r.Headline)
	v.Set(FieldBoxSize, strconv.Itoa(r.BoxSize))
	v.Set(FieldBorder, strconv.Itoa(r.Border))
	v.Set(FieldFillColor, r.FillColor)
	v.Set(FieldBackColor, r.BackColor)
	return v
}

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// ValidateContent is the advisory check run on every edit of the content
// field. It returns "" for acceptable values and ContentMessage otherwise.
// Empty values pass; the required check happens on submit.
func ValidateContent(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}

	hasProtocol := strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
	hasDomain := strings.Contains(v, ".") && utf8.RuneCountInString(v) > 3
	if !hasProtocol && !hasDomain {
		return ContentMessage
	}
	return ""
}

// Validator decodes and validates submissions against the configured
// option ranges.
type Validator struct {
	cfg      config.FormConfig
	validate *validator.Validate
}

// NewValidator creates a validator for the given form configuration
func NewValidator(cfg config.FormConfig) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails on an empty tag
	_ = v.RegisterValidation("content", func(fl validator.FieldLevel) bool {
		return ValidateContent(fl.Field().String()) == ""
	})

	return &Validator{cfg: cfg, validate: v}
}

// Defaults returns a request prefilled with the configured defaults.
func (v *Validator) Defaults() GenerationRequest {
	return GenerationRequest{
		BoxSize:   v.cfg.BoxSize.Default,
		Border:    v.cfg.Border.Default,
		FillColor: v.cfg.FillColor,
		BackColor: v.cfg.BackColor,
	}
}

// Decode builds a GenerationRequest from submitted form values and validates
// it. Blank option fields fall back to the configured defaults.
func (v *Validator) Decode(values url.Values) (GenerationRequest, error) {
	req := v.Defaults()
	errs := FieldErrors{}

	req.URL = strings.TrimSpace(values.Get(FieldURL))
	req.Headline = strings.TrimSpace(values.Get(FieldHeadline))

	if s := strings.TrimSpace(values.Get(FieldBoxSize)); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs[FieldBoxSize] = "must be a whole number"
		}
		req.BoxSize = n
	}
	if s := strings.TrimSpace(values.Get(FieldBorder)); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs[FieldBorder] = "must be a whole number"
		}
		req.Border = n
	}
	if s := strings.TrimSpace(values.Get(FieldFillColor)); s != "" {
		req.FillColor = s
	}
	if s := strings.TrimSpace(values.Get(FieldBackColor)); s != "" {
		req.BackColor = s
	}

	if err := v.Validate(req); err != nil {
		if fe, ok := err.(FieldErrors); ok {
			for field, msg := range fe {
				if _, seen := errs[field]; !seen {
					errs[field] = msg
				}
			}
		} else {
			return req, err
		}
	}

	if len(errs) > 0 {
		return req, errs
	}
	return req, nil
}

// Validate checks a request. It returns FieldErrors when any field is out of
// bounds and nil otherwise.
func (v *Validator) Validate(req GenerationRequest) error {
	errs := FieldErrors{}

	if err := v.validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validate request: %w", err)
		}
		for _, fe := range verrs {
			errs[fe.Field()] = message(fe)
		}
	}

	checkRange(errs, FieldBoxSize, req.BoxSize, v.cfg.BoxSize)
	checkRange(errs, FieldBorder, req.Border, v.cfg.Border)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkRange(errs FieldErrors, field string, value int, r config.Range) {
	if value < r.Min || value > r.Max {
		errs[field] = fmt.Sprintf("must be between %d and %d", r.Min, r.Max)
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == FieldURL {
			return "URL is required"
		}
		return "is required"
	case "content":
		return ContentMessage
	case "hexcolor":
		return "must be a hex color such as #000000"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return "is invalid"
}
