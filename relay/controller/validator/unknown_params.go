package validator

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
)

// GetKnownParameters collects the JSON field names of the given struct
// values, descending into embedded structs the way encoding/json does.
func GetKnownParameters(requestTypes ...any) map[string]bool {
	knownParams := make(map[string]bool)
	for _, v := range requestTypes {
		t := reflect.TypeOf(v)
		for t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t == nil || t.Kind() != reflect.Struct {
			continue
		}
		collectJSONNames(t, knownParams)
	}
	return knownParams
}

func collectJSONNames(t reflect.Type, known map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]

		if field.Anonymous && name == "" {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectJSONNames(ft, known)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		known[name] = true
	}
}

// ValidateUnknownParametersWithContext logs a warning for body fields that
// none of requestTypes declares. Unknown fields are ignored, never rejected.
func ValidateUnknownParametersWithContext(c *gin.Context, requestBody []byte, requestTypes ...any) []string {
	unknownParams := FindUnknownParameters(requestBody, requestTypes...)
	if len(unknownParams) > 0 {
		gmw.GetLogger(c).Warn("request contains unknown parameters that will be ignored",
			zap.Strings("unknown_params", unknownParams),
		)
	}
	return unknownParams
}

// FindUnknownParameters returns the sorted top-level keys of requestBody that
// requestTypes do not declare. Invalid JSON yields nil; decoding reports it.
func FindUnknownParameters(requestBody []byte, requestTypes ...any) []string {
	var rawRequest map[string]json.RawMessage
	if err := json.Unmarshal(requestBody, &rawRequest); err != nil {
		return nil
	}

	knownParams := GetKnownParameters(requestTypes...)
	var unknownParams []string
	for paramName := range rawRequest {
		if !knownParams[paramName] {
			unknownParams = append(unknownParams, paramName)
		}
	}
	sort.Strings(unknownParams)
	return unknownParams
}
