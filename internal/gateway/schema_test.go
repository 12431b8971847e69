package gateway

import (
	"context"
	"testing"
)

func TestSchemaValidate(t *testing.T) {
	schema := Schema{
		{Name: "country", Type: FieldString, Required: true, ExactLen: 2},
		{Name: "year", Type: FieldInt, Default: 2024},
		{Name: "limit", Type: FieldInt, Min: 1, Max: 50, Default: 10},
	}

	tests := []struct {
		name    string
		raw     map[string]interface{}
		wantErr bool
		check   func(t *testing.T, in Input)
	}{
		{
			name: "all fields valid",
			raw:  map[string]interface{}{"country": "US", "year": "2023", "limit": 5},
			check: func(t *testing.T, in Input) {
				if in.String("country") != "US" {
					t.Errorf("country = %s", in.String("country"))
				}
				if in.Int("year") != 2023 {
					t.Errorf("year = %d", in.Int("year"))
				}
				if in.Int("limit") != 5 {
					t.Errorf("limit = %d", in.Int("limit"))
				}
			},
		},
		{
			name: "defaults applied",
			raw:  map[string]interface{}{"country": "DE"},
			check: func(t *testing.T, in Input) {
				if in.Int("year") != 2024 {
					t.Errorf("year = %d, want default 2024", in.Int("year"))
				}
				if in.Int("limit") != 10 {
					t.Errorf("limit = %d, want default 10", in.Int("limit"))
				}
			},
		},
		{
			name:    "missing required field",
			raw:     map[string]interface{}{"year": 2024},
			wantErr: true,
		},
		{
			name:    "country too long",
			raw:     map[string]interface{}{"country": "USA"},
			wantErr: true,
		},
		{
			name:    "country too short",
			raw:     map[string]interface{}{"country": "U"},
			wantErr: true,
		},
		{
			name:    "limit out of range",
			raw:     map[string]interface{}{"country": "US", "limit": 51},
			wantErr: true,
		},
		{
			name:    "limit below range",
			raw:     map[string]interface{}{"country": "US", "limit": 0},
			wantErr: true,
		},
		{
			name:    "year not an integer",
			raw:     map[string]interface{}{"country": "US", "year": "twenty"},
			wantErr: true,
		},
		{
			name: "JSON float64 is accepted as int",
			raw:  map[string]interface{}{"country": "US", "year": float64(2025)},
			check: func(t *testing.T, in Input) {
				if in.Int("year") != 2025 {
					t.Errorf("year = %d, want 2025", in.Int("year"))
				}
			},
		},
		{
			name:    "fractional float64 rejected",
			raw:     map[string]interface{}{"country": "US", "year": 2024.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := schema.Validate(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() should fail")
				}
				if !IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() failed: %v", err)
			}
			if tt.check != nil {
				tt.check(t, in)
			}
		})
	}
}

func TestSchemaValidateStringList(t *testing.T) {
	schema := Schema{
		{Name: "dates", Type: FieldStringList, Required: true, MinItems: 2, MaxItems: 5},
	}

	tests := []struct {
		name    string
		value   interface{}
		wantLen int
		wantErr bool
	}{
		{"two dates", []string{"2024-12-25", "2024-12-26"}, 2, false},
		{"JSON decoded list", []interface{}{"2024-01-01", "2024-01-02", "2024-01-03"}, 3, false},
		{"too few", []string{"2024-12-25"}, 0, true},
		{"too many", []string{"a", "b", "c", "d", "e", "f"}, 0, true},
		{"not a list", "2024-12-25", 0, true},
		{"mixed types", []interface{}{"2024-01-01", 42}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := schema.Validate(map[string]interface{}{"dates": tt.value})
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() failed: %v", err)
			}
			if got := in.StringList("dates"); len(got) != tt.wantLen {
				t.Errorf("got %d dates, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	noop := func(context.Context, Input) (interface{}, error) { return nil, nil }

	if err := r.Register(Operation{Key: "get_holidays", Handler: noop, Price: 10}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := r.Register(Operation{Key: "get_holidays", Handler: noop}); err == nil {
		t.Error("duplicate key should fail")
	}
	if err := r.Register(Operation{Key: "", Handler: noop}); err == nil {
		t.Error("empty key should fail")
	}
	if err := r.Register(Operation{Key: "no_handler"}); err == nil {
		t.Error("nil handler should fail")
	}

	ops := r.Operations()
	if len(ops) != 1 {
		t.Fatalf("got %d operations, want 1", len(ops))
	}
	if !ops[0].Priced() {
		t.Error("Priced() = false for price 10")
	}
}
