package httpapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

// pagination reads page and limit; anything unparsable falls back to the
// service defaults.
func pagination(c *gin.Context) service.Pagination {
	return service.Pagination{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}
}

func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return value
}

func queryOptionalInt(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.Newf(apperror.CodeValidation, "%s must be an integer", key)
	}
	return &value, nil
}

func queryOptionalDate(c *gin.Context, key string) (*time.Time, error) {
	return parseOptionalDate(key, optionalString(c.Query(key)))
}

func optionalString(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return &raw
}

func parseRequiredDate(field, raw string) (time.Time, error) {
	parsed, err := service.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperror.Newf(apperror.CodeValidation, "%s must be a date in YYYY-MM-DD format", field)
	}
	return parsed, nil
}

func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := parseRequiredDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseRequiredTimestamp(field, raw string) (time.Time, error) {
	parsed, err := service.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, apperror.Newf(apperror.CodeValidation, "%s must be an RFC 3339 timestamp", field)
	}
	return parsed, nil
}

// parseOptionalTimestamp treats an absent or blank value as unset.
func parseOptionalTimestamp(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := parseRequiredTimestamp(field, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// timestamps parses several optional fields, stopping at the first error.
type timestamps struct {
	err error
}

func (t *timestamps) parse(field string, raw *string) *time.Time {
	if t.err != nil {
		return nil
	}
	parsed, err := parseOptionalTimestamp(field, raw)
	t.err = err
	return parsed
}

// patch converts a PATCH field into a time update. An empty string clears
// the stored time like null does.
func (t *timestamps) patch(field string, raw optionalTimestamp) service.TimeUpdate {
	if t.err != nil || !raw.Set {
		return service.TimeUpdate{}
	}
	parsed, err := parseOptionalTimestamp(field, raw.Value)
	t.err = err
	return service.TimeUpdate{Set: err == nil, Value: parsed}
}

// optionalTimestamp tells an absent field apart from an explicit null.
type optionalTimestamp struct {
	Set   bool
	Value *string
}

func (o *optionalTimestamp) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}
