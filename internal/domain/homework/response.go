// internal/domain/homework/response.go
package homework

import (
	"encoding/json"
	"fmt"
	"math"
)

// Response is the validated envelope of a status API answer.
// Homeworks are kept raw; only the record that is actually used gets decoded.
type Response struct {
	Homeworks      []any
	CurrentDate    int64
	HasCurrentDate bool
}

// CheckResponse verifies the outer shape of a decoded API body.
// It must run before any field of the response is trusted.
func CheckResponse(raw any) (*Response, error) {
	envelope, ok := raw.(map[string]any)
	if !ok {
		return nil, &SchemaError{Field: "response", Reason: fmt.Sprintf("expected object, got %s", typeName(raw))}
	}

	homeworksRaw, present := envelope["homeworks"]
	if !present {
		return nil, &SchemaError{Field: "homeworks", Reason: "is missing"}
	}
	homeworks, ok := homeworksRaw.([]any)
	if !ok {
		return nil, &SchemaError{Field: "homeworks", Reason: fmt.Sprintf("expected list, got %s", typeName(homeworksRaw))}
	}

	resp := &Response{Homeworks: homeworks}
	if dateRaw, present := envelope["current_date"]; present {
		date, err := toUnix(dateRaw)
		if err != nil {
			return nil, &SchemaError{Field: "current_date", Reason: err.Error()}
		}
		resp.CurrentDate = date
		resp.HasCurrentDate = true
	}
	return resp, nil
}

// Latest decodes the first (most recent) record. The bool is false when the batch is empty.
func (r *Response) Latest() (Record, bool, error) {
	if len(r.Homeworks) == 0 {
		return Record{}, false, nil
	}
	item, ok := r.Homeworks[0].(map[string]any)
	if !ok {
		return Record{}, true, &SchemaError{Field: "homeworks[0]", Reason: fmt.Sprintf("expected object, got %s", typeName(r.Homeworks[0]))}
	}

	name, err := stringField(item, "homework_name")
	if err != nil {
		return Record{}, true, err
	}
	status, err := stringField(item, "status")
	if err != nil {
		return Record{}, true, err
	}
	return Record{Name: name, Status: Status(status)}, true, nil
}

func stringField(item map[string]any, key string) (string, error) {
	field := "homeworks[0]." + key
	v, present := item[key]
	if !present {
		return "", &SchemaError{Field: field, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaError{Field: field, Reason: fmt.Sprintf("expected string, got %s", typeName(v))}
	}
	return s, nil
}

func toUnix(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", n.String())
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %s", typeName(v))
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
