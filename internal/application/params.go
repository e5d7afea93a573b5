package application

import (
	"clickup-mcp-server/internal/domain"
)

// getStringParam extracts a string parameter from the arguments map.
// Returns a ValidationError if the parameter is required but missing,
// or present with the wrong type.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return "", domain.NewValidationError("missing required parameter: %s", name)
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", domain.NewValidationError("parameter %s must be a string", name)
	}

	return strValue, nil
}

// getIntParam extracts an integer parameter from the arguments map.
// JSON numbers arrive as float64, so both float64 and int are accepted.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return 0, domain.NewValidationError("missing required parameter: %s", name)
		}
		return 0, nil
	}

	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, domain.NewValidationError("parameter %s must be an integer", name)
	}
}

// getBoolParam extracts a boolean parameter from the arguments map.
func getBoolParam(args map[string]interface{}, name string, required bool) (bool, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return false, domain.NewValidationError("missing required parameter: %s", name)
		}
		return false, nil
	}

	boolValue, ok := value.(bool)
	if !ok {
		return false, domain.NewValidationError("parameter %s must be a boolean", name)
	}

	return boolValue, nil
}

// getStringArrayParam extracts a string array parameter from the arguments map.
// JSON arrays arrive as []interface{}; each element must be a string.
func getStringArrayParam(args map[string]interface{}, name string, required bool) ([]string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return nil, domain.NewValidationError("missing required parameter: %s", name)
		}
		return nil, nil
	}

	rawItems, ok := value.([]interface{})
	if !ok {
		return nil, domain.NewValidationError("parameter %s must be an array of strings", name)
	}

	items := make([]string, 0, len(rawItems))
	for _, raw := range rawItems {
		item, ok := raw.(string)
		if !ok {
			return nil, domain.NewValidationError("parameter %s must contain only strings", name)
		}
		items = append(items, item)
	}

	return items, nil
}

// getObjectParam extracts a nested object parameter from the arguments map.
func getObjectParam(args map[string]interface{}, name string, required bool) (map[string]interface{}, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return nil, domain.NewValidationError("missing required parameter: %s", name)
		}
		return nil, nil
	}

	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, domain.NewValidationError("parameter %s must be an object", name)
	}

	return obj, nil
}

// getObjectArrayParam extracts an array-of-objects parameter from the arguments map.
func getObjectArrayParam(args map[string]interface{}, name string, required bool) ([]map[string]interface{}, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return nil, domain.NewValidationError("missing required parameter: %s", name)
		}
		return nil, nil
	}

	rawItems, ok := value.([]interface{})
	if !ok {
		return nil, domain.NewValidationError("parameter %s must be an array of objects", name)
	}

	items := make([]map[string]interface{}, 0, len(rawItems))
	for _, raw := range rawItems {
		item, ok := raw.(map[string]interface{})
		if !ok {
			return nil, domain.NewValidationError("parameter %s must contain only objects", name)
		}
		items = append(items, item)
	}

	return items, nil
}
