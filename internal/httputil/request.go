package httputil

import (
	"errors"
	"io"
	"net/url"
	"reflect"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BindData binds the JSON body of the request to the struct passed in.
func BindData(c *gin.Context, data interface{}) error {
	if err := c.ShouldBindJSON(&data); err != nil {
		if errors.Is(io.EOF, err) {
			return ErrRequestBodyEmpty
		}

		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return ErrInvalidBody
	}

	return nil
}

// UUIDFromString parses a UUID from a query string value. The empty
// string parses to uuid.Nil since unset query parameters are empty.
func UUIDFromString(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return u, nil
}

// GetURLFields checks which fields are set in a URL query and returns
// the field names that gorm needs to consider in a Where condition built
// from a struct, so that zero values are only filtered on when the
// caller explicitly asked for them.
//
// Fields tagged filterField:"false" are handled by the controllers
// themselves and skipped here.
func GetURLFields(url *url.URL, filter any) ([]any, []string) {
	var queryFields []any
	var setFields []string

	val := reflect.Indirect(reflect.ValueOf(filter))
	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		formName := strings.Split(field.Tag.Get("form"), ",")[0]
		if formName == "" {
			continue
		}

		if !url.Query().Has(formName) {
			continue
		}

		setFields = append(setFields, field.Name)

		if field.Tag.Get("filterField") == "false" {
			continue
		}

		queryFields = append(queryFields, field.Name)
	}

	return queryFields, setFields
}
