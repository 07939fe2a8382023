package schema

import (
	"fmt"
	"strings"
)

// Issue is a single field-level validation failure
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Validate checks an untrusted parsed JSON value against the Menu shape.
// It returns a typed Menu when the value is valid, or the full list of
// violations when it is not. Validation failure is a normal outcome —
// this never panics, whatever the input shape.
func Validate(v any) (*Menu, []Issue) {
	var issues []Issue

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, []Issue{{Path: "", Message: "expected a JSON object"}}
	}

	menu := &Menu{}
	menu.Vendor = optionalString(obj, "vendor", &issues)
	menu.Currency = optionalString(obj, "currency", &issues)

	rawItems, present := obj["items"]
	if !present {
		issues = append(issues, Issue{Path: "items", Message: "required"})
		return nil, issues
	}

	arr, ok := rawItems.([]any)
	if !ok {
		issues = append(issues, Issue{Path: "items", Message: "expected an array"})
		return nil, issues
	}

	if len(arr) == 0 {
		issues = append(issues, Issue{Path: "items", Message: "at least one item expected"})
	}

	for idx, rawItem := range arr {
		path := fmt.Sprintf("items.%d", idx)

		item, ok := rawItem.(map[string]any)
		if !ok {
			issues = append(issues, Issue{Path: path, Message: "expected an object"})
			continue
		}

		mi := MenuItem{}

		name, ok := item["name"].(string)
		if !ok || strings.TrimSpace(name) == "" {
			issues = append(issues, Issue{Path: path + ".name", Message: "name required"})
		}
		mi.Name = name

		mi.Category = optionalStringAt(item, "category", path, &issues)
		mi.Description = optionalStringAt(item, "description", path, &issues)
		mi.Price = optionalPrice(item, "price", path, &issues)
		mi.Options = optionalOptions(item, path, &issues)

		menu.Items = append(menu.Items, mi)
	}

	if len(issues) > 0 {
		return nil, issues
	}

	return menu, nil
}

func optionalString(obj map[string]any, key string, issues *[]Issue) string {
	return optionalStringAt(obj, key, "", issues)
}

func optionalStringAt(obj map[string]any, key, parent string, issues *[]Issue) string {
	raw, present := obj[key]
	if !present || raw == nil {
		return ""
	}

	s, ok := raw.(string)
	if !ok {
		*issues = append(*issues, Issue{Path: joinPath(parent, key), Message: "expected a string"})
		return ""
	}

	return s
}

func optionalPrice(obj map[string]any, key, parent string, issues *[]Issue) *Price {
	raw, present := obj[key]
	if !present || raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		return NumberPrice(v)
	case string:
		return TextPrice(v)
	default:
		*issues = append(*issues, Issue{
			Path:    joinPath(parent, key),
			Message: "expected a number or a string",
		})
		return nil
	}
}

func optionalOptions(item map[string]any, parent string, issues *[]Issue) []ItemOption {
	raw, present := item["options"]
	if !present || raw == nil {
		return nil
	}

	arr, ok := raw.([]any)
	if !ok {
		*issues = append(*issues, Issue{Path: parent + ".options", Message: "expected an array"})
		return nil
	}

	var options []ItemOption

	for idx, rawOpt := range arr {
		path := fmt.Sprintf("%s.options.%d", parent, idx)

		opt, ok := rawOpt.(map[string]any)
		if !ok {
			*issues = append(*issues, Issue{Path: path, Message: "expected an object"})
			continue
		}

		label, ok := opt["label"].(string)
		if !ok {
			*issues = append(*issues, Issue{Path: path + ".label", Message: "label required"})
		}

		options = append(options, ItemOption{
			Label: label,
			Price: optionalPrice(opt, "price", path, issues),
		})
	}

	return options
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
