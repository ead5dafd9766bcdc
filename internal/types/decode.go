package types

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeResume converts loosely-typed decoded JSON or YAML into a ResumeDocument.
//
// Values of the wrong shape are replaced with their empty equivalent instead of
// failing: a string where a list was expected becomes an empty list, a list where
// an object was expected becomes an empty object, and so on. Numbers are accepted
// where text is expected. A nil or non-object root yields a nil document and no
// error; callers treat that as "no resume data".
func DecodeResume(raw any) (*ResumeDocument, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case *ResumeDocument:
		return v, nil
	case ResumeDocument:
		return &v, nil
	case map[string]any:
		return decodeMap(v)
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, value := range v {
			converted[fmt.Sprint(key)] = value
		}
		return decodeMap(converted)
	default:
		return nil, nil
	}
}

func decodeMap(raw map[string]any) (*ResumeDocument, error) {
	var doc ResumeDocument
	cfg := &mapstructure.DecoderConfig{
		DecodeHook: lenientShapeHook,
		Result:     &doc,
		TagName:    "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return &ResumeDocument{}, fmt.Errorf("failed to create resume decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		// partial results are still usable
		return &doc, fmt.Errorf("failed to decode resume document: %w", err)
	}
	return &doc, nil
}

// lenientShapeHook normalizes mismatched shapes to the zero value of the target type
func lenientShapeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.String:
		return scalarToString(data), nil
	case reflect.Bool:
		if b, ok := data.(bool); ok {
			return b, nil
		}
		return false, nil
	case reflect.Slice:
		if from.Kind() == reflect.Slice || from.Kind() == reflect.Array {
			return data, nil
		}
		return reflect.MakeSlice(to, 0, 0).Interface(), nil
	case reflect.Struct:
		if from.Kind() == reflect.Map {
			return data, nil
		}
		return map[string]any{}, nil
	}
	return data, nil
}

func scalarToString(data any) string {
	switch v := data.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case fmt.Stringer:
		// json.Number and similar
		return v.String()
	default:
		return ""
	}
}
