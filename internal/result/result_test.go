package result

import (
	"errors"
	"testing"
)

var errBoom = errors.New("boom")

func TestSuccess(t *testing.T) {
	r := Success(42)

	if !r.IsSuccess() || r.IsFailure() {
		t.Fatal("expected success discriminant")
	}
	v, ok := r.Value()
	if !ok || v != 42 {
		t.Errorf("expected (42, true), got (%d, %v)", v, ok)
	}
	if r.Err() != nil {
		t.Errorf("expected nil error, got %v", r.Err())
	}
}

func TestFailure(t *testing.T) {
	r := Failure[string](errBoom)

	if r.IsSuccess() || !r.IsFailure() {
		t.Fatal("expected failure discriminant")
	}
	v, ok := r.Value()
	if ok || v != "" {
		t.Errorf("expected zero value and false, got (%q, %v)", v, ok)
	}
	if !errors.Is(r.Err(), errBoom) {
		t.Errorf("expected errBoom, got %v", r.Err())
	}
}

func TestFailure_NilErrorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil failure error")
		}
	}()
	_ = Failure[int](nil)
}

func TestUnwrap(t *testing.T) {
	v, err := Success("ok").Unwrap()
	if err != nil || v != "ok" {
		t.Errorf("expected (ok, nil), got (%q, %v)", v, err)
	}

	v, err = Failure[string](errBoom).Unwrap()
	if !errors.Is(err, errBoom) || v != "" {
		t.Errorf("expected (\"\", errBoom), got (%q, %v)", v, err)
	}
}

func TestZeroValueIsFailure(t *testing.T) {
	var r Result[int]
	if r.IsSuccess() {
		t.Error("zero Result must not report success")
	}
}

func TestCombine(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")

	tests := []struct {
		name    string
		input   []Result[int]
		want    []int
		wantErr error
	}{
		{
			name:  "empty input",
			input: nil,
			want:  []int{},
		},
		{
			name:  "all success keeps order",
			input: []Result[int]{Success(3), Success(1), Success(2)},
			want:  []int{3, 1, 2},
		},
		{
			name:    "first failure wins",
			input:   []Result[int]{Success(1), Failure[int](errFirst), Failure[int](errSecond)},
			wantErr: errFirst,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combine(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(got.Err(), tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, got.Err())
				}
				return
			}
			values, ok := got.Value()
			if !ok {
				t.Fatalf("expected success, got %v", got.Err())
			}
			if len(values) != len(tt.want) {
				t.Fatalf("expected %d values, got %d", len(tt.want), len(values))
			}
			for i := range values {
				if values[i] != tt.want[i] {
					t.Errorf("index %d: expected %d, got %d", i, tt.want[i], values[i])
				}
			}
		})
	}
}

func TestFailAs(t *testing.T) {
	r := FailAs[string](Failure[int](errBoom))
	if !errors.Is(r.Err(), errBoom) {
		t.Errorf("expected errBoom, got %v", r.Err())
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic when re-typing a success")
		}
	}()
	_ = FailAs[string](Success(1))
}

func TestOk(t *testing.T) {
	if !Ok().IsSuccess() {
		t.Error("expected Ok to be a success")
	}
}
