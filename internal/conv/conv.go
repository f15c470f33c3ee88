package conv

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AsString renders a decoded JSON value as a string.
// Lists are joined with "; ", objects are re-encoded, nil yields "".
func AsString(value interface{}) string {
	switch actual := value.(type) {
	case nil:
		return ""
	case string:
		return actual
	case float64:
		return strconv.FormatFloat(actual, 'f', -1, 64)
	case json.Number:
		return actual.String()
	case int:
		return strconv.Itoa(actual)
	case int64:
		return strconv.FormatInt(actual, 10)
	case bool:
		return strconv.FormatBool(actual)
	case []interface{}:
		parts := make([]string, 0, len(actual))
		for _, item := range actual {
			if text := AsString(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]interface{}:
		data, err := json.Marshal(actual)
		if err != nil {
			return fmt.Sprintf("%v", actual)
		}
		return string(data)
	}
	return fmt.Sprintf("%v", value)
}

// AsInt coerces numeric values (and numeric strings) into an int.
func AsInt(value interface{}) (int, bool) {
	switch actual := value.(type) {
	case int:
		return actual, true
	case int64:
		return int(actual), true
	case float64:
		return int(actual), true
	case json.Number:
		i, err := actual.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(actual))
		return i, err == nil
	}
	return 0, false
}
