package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists every violated settings rule.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violated rule.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("config validation failed:")
	for _, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("\n- %s: %s", err.Field, err.Message))
	}
	return sb.String()
}

func (ve *ValidationError) add(field, format string, args ...any) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (ve *ValidationError) orNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks the global settings. Per-source settings are checked by
// the source adapters.
func (c *Config) Validate() error {
	ve := &ValidationError{}

	if len(strings.TrimSpace(c.Language)) < 2 {
		ve.add("language", "must be a language code such as %q", DefaultLanguage)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		ve.add("timezone", "unknown time zone %q", c.Timezone)
	}
	if c.HTTP.Timeout <= 0 {
		ve.add("http.timeout", "must be positive")
	}
	checkInterval := func(field string, d time.Duration) {
		if d < MinInterval {
			ve.add(field, "must be at least %s", MinInterval)
		}
	}
	checkInterval("import.interval", c.Import.Interval)
	checkInterval("archive.interval", c.Archive.Interval)
	checkInterval("cleanup.interval", c.Cleanup.Interval)
	if c.Archive.Minutes < 0 {
		ve.add("archive.minutes", "must be non-negative")
	}

	return ve.orNil()
}

// Validate checks the Emply settings.
func (e EmplyConfig) Validate() error {
	ve := &ValidationError{}
	structErrors(ve, "sources.emply", e)
	if e.APIDomain != "" {
		if err := ValidateEndpoint(e.APIDomain); err != nil {
			ve.add("sources.emply.api_domain", "%v", err)
		}
	}
	if e.APIPath != "" && !strings.HasPrefix(e.APIPath, "/") {
		ve.add("sources.emply.api_path", "must start with /")
	}
	return ve.orNil()
}

// Validate checks the HR-Manager settings.
func (h HRManagerConfig) Validate() error {
	ve := &ValidationError{}
	structErrors(ve, "sources.hrmanager", h)
	if h.APIDomain != "" {
		if err := ValidateEndpoint(h.APIDomain); err != nil {
			ve.add("sources.hrmanager.api_domain", "%v", err)
		}
	}
	if strings.ContainsAny(h.APIName, "/?#") {
		ve.add("sources.hrmanager.api_name", "must not contain URL separators")
	}
	return ve.orNil()
}

// ValidateEndpoint accepts an absolute https URL without a path suffix.
func ValidateEndpoint(domain string) error {
	u, err := url.Parse(strings.TrimSpace(domain))
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	if u.Scheme != "https" {
		return errors.New("must use the https scheme")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	if strings.Trim(u.Path, "/") != "" || u.RawQuery != "" || u.Fragment != "" {
		return errors.New("must not include a path, e.g. https://company.emply.com")
	}
	return nil
}

func structErrors(ve *ValidationError, prefix string, s any) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.add(prefix, "%v", err)
		return
	}
	for _, fe := range fieldErrs {
		ve.add(prefix+"."+fe.Field(), "failed on the %q rule", fe.Tag())
	}
}
