package task

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/example/task-api/domain/apperr"
	domain "github.com/example/task-api/domain/task"
)

// TaskInput is the client-supplied body of a create or update. Fields stay
// raw so that an absent field, a null and a wrongly typed value can be told
// apart. Anything else in the body, owner_id included, is dropped on decode.
type TaskInput struct {
	Title       json.RawMessage `json:"title,omitempty"`
	Description json.RawMessage `json:"description,omitempty"`
	Completed   json.RawMessage `json:"completed,omitempty"`
}

// changes is a validated TaskInput. A nil pointer means "leave unchanged".
type changes struct {
	title          *string
	setDescription bool
	description    *string
	completed      *bool
}

func (c changes) empty() bool {
	return c.title == nil && !c.setDescription && c.completed == nil
}

// columns returns the column updates for a partial update.
func (c changes) columns() map[string]any {
	cols := map[string]any{}
	if c.title != nil {
		cols["title"] = *c.title
	}
	if c.setDescription {
		cols["description"] = c.description
	}
	if c.completed != nil {
		cols["completed"] = *c.completed
	}
	return cols
}

// fieldNames lists the changed fields in a fixed order.
func (c changes) fieldNames() []string {
	var names []string
	if c.title != nil {
		names = append(names, "title")
	}
	if c.setDescription {
		names = append(names, "description")
	}
	if c.completed != nil {
		names = append(names, "completed")
	}
	return names
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseInput validates in. On create the title is required; on update every
// field is optional but present fields obey the same rules.
func parseInput(in TaskInput, create bool) (changes, error) {
	var c changes
	fields := apperr.Fields{}

	switch {
	case !present(in.Title) || isNull(in.Title):
		if create || present(in.Title) {
			fields.Add("title", "The title field is required.")
		}
	default:
		var title string
		if err := json.Unmarshal(in.Title, &title); err != nil {
			fields.Add("title", "The title must be a string.")
			break
		}
		title = strings.TrimSpace(title)
		switch {
		case title == "":
			fields.Add("title", "The title field is required.")
		case utf8.RuneCountInString(title) > domain.MaxTitleLength:
			fields.Add("title", "The title may not be greater than 255 characters.")
		default:
			c.title = &title
		}
	}

	if present(in.Description) {
		if isNull(in.Description) {
			c.setDescription = true
		} else {
			var description string
			if err := json.Unmarshal(in.Description, &description); err != nil {
				fields.Add("description", "The description must be a string.")
			} else {
				c.setDescription = true
				c.description = &description
			}
		}
	}

	if present(in.Completed) {
		completed, ok := parseBool(in.Completed)
		if !ok {
			fields.Add("completed", "The completed field must be true or false.")
		} else {
			c.completed = &completed
		}
	}

	if !fields.Empty() {
		return changes{}, apperr.Validation(fields)
	}
	return c, nil
}

// parseBool accepts true, false, 1, 0 and their string forms.
func parseBool(raw json.RawMessage) (bool, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, false
	}

	switch val := v.(type) {
	case bool:
		return val, true
	case float64:
		switch val {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case string:
		switch val {
		case "1", "true":
			return true, true
		case "0", "false":
			return false, true
		}
	}
	return false, false
}
