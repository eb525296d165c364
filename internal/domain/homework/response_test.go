package homework

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	return v
}

func TestCheckResponseValid(t *testing.T) {
	t.Parallel()
	raw := decode(t, `{"homeworks":[{"homework_name":"proj1","status":"reviewing"}],"current_date":1700000000}`)

	resp, err := CheckResponse(raw)
	if err != nil {
		t.Fatalf("CheckResponse error: %v", err)
	}
	if !resp.HasCurrentDate || resp.CurrentDate != 1700000000 {
		t.Fatalf("CurrentDate = %d (present=%v), want 1700000000", resp.CurrentDate, resp.HasCurrentDate)
	}
	rec, ok, err := resp.Latest()
	if err != nil || !ok {
		t.Fatalf("Latest = (%v, %v, %v)", rec, ok, err)
	}
	if rec.Name != "proj1" || rec.Status != StatusReviewing {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestCheckResponseSchemaErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "not an object", body: `[1,2,3]`, field: "response"},
		{name: "null body", body: `null`, field: "response"},
		{name: "missing homeworks", body: `{"current_date":1700000000}`, field: "homeworks"},
		{name: "homeworks is object", body: `{"homeworks":{"a":1}}`, field: "homeworks"},
		{name: "homeworks is null", body: `{"homeworks":null}`, field: "homeworks"},
		{name: "current_date is string", body: `{"homeworks":[],"current_date":"today"}`, field: "current_date"},
		{name: "current_date is fractional", body: `{"homeworks":[],"current_date":1.5}`, field: "current_date"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := CheckResponse(decode(t, tt.body))
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if schemaErr.Field != tt.field {
				t.Fatalf("Field = %q, want %q", schemaErr.Field, tt.field)
			}
		})
	}
}

func TestCheckResponseWithoutCurrentDate(t *testing.T) {
	t.Parallel()
	resp, err := CheckResponse(decode(t, `{"homeworks":[]}`))
	if err != nil {
		t.Fatalf("CheckResponse error: %v", err)
	}
	if resp.HasCurrentDate {
		t.Fatal("expected HasCurrentDate to be false")
	}
	_, ok, err := resp.Latest()
	if ok || err != nil {
		t.Fatalf("Latest on empty batch = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestLatestIgnoresOlderRecords(t *testing.T) {
	t.Parallel()
	resp, err := CheckResponse(decode(t, `{"homeworks":[{"homework_name":"new","status":"approved"},{"broken":true}],"current_date":1}`))
	if err != nil {
		t.Fatalf("CheckResponse error: %v", err)
	}
	rec, ok, err := resp.Latest()
	if err != nil || !ok {
		t.Fatalf("Latest = (%v, %v, %v)", rec, ok, err)
	}
	if rec.Name != "new" {
		t.Fatalf("Name = %q, want %q", rec.Name, "new")
	}
}

func TestLatestSchemaErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "record not object", body: `{"homeworks":["x"]}`, field: "homeworks[0]"},
		{name: "missing name", body: `{"homeworks":[{"status":"approved"}]}`, field: "homeworks[0].homework_name"},
		{name: "missing status", body: `{"homeworks":[{"homework_name":"p"}]}`, field: "homeworks[0].status"},
		{name: "status not string", body: `{"homeworks":[{"homework_name":"p","status":3}]}`, field: "homeworks[0].status"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := CheckResponse(decode(t, tt.body))
			if err != nil {
				t.Fatalf("CheckResponse error: %v", err)
			}
			_, _, err = resp.Latest()
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if schemaErr.Field != tt.field {
				t.Fatalf("Field = %q, want %q", schemaErr.Field, tt.field)
			}
		})
	}
}
