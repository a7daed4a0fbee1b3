package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/shramba/internal/pantry"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into target and runs its validate tags.
// The returned error message is safe to show to the client.
func decodeJSON(r *http.Request, target any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
		r.Body.Close()
	}()

	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(target); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(target); err != nil {
		return validationMessage(err)
	}
	return nil
}

func validationMessage(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return errors.New("invalid request body")
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fe.Field()+" "+fieldMessage(fe))
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return "is invalid"
}

// writeServiceError maps pantry error kinds to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var perr *pantry.Error
	switch {
	case errors.Is(err, pantry.ErrValidation):
		msg := "invalid request"
		if errors.As(err, &perr) && perr.Msg != "" {
			msg = perr.Msg
		}
		jsonError(w, http.StatusBadRequest, msg)
	case errors.Is(err, pantry.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
	default:
		slog.Error("pantry operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

const dateOnly = "2006-01-02"

// parseDate accepts a calendar date (taken as midnight UTC) or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t.UTC(), nil
}

// parseOptionalDate treats nil and empty strings as no date.
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
