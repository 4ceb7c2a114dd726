package cache

import (
	"errors"
	"testing"

	"github.com/goliatone/go-model-cache/query"
)

func TestResultConstructors(t *testing.T) {
	boom := errors.New("boom")

	if r := Hit([]byte("1")); r.Status != LookupHit || string(r.Value) != "1" {
		t.Errorf("Hit() = %+v", r)
	}
	if r := Miss(); r.Status != LookupMiss || r.Value != nil {
		t.Errorf("Miss() = %+v", r)
	}
	if r := GetFailed(boom); r.Status != LookupError || r.Err != boom {
		t.Errorf("GetFailed() = %+v", r)
	}
	if r := Stored(); r.Status != StoreSuccess || r.Err != nil {
		t.Errorf("Stored() = %+v", r)
	}
	if r := SetFailed(boom); r.Status != StoreError || r.Err != boom {
		t.Errorf("SetFailed() = %+v", r)
	}
	if r := Created(); r.Status != CreateSuccess {
		t.Errorf("Created() = %+v", r)
	}
	if r := AlreadyExists(); r.Status != CreateAlreadyExists {
		t.Errorf("AlreadyExists() = %+v", r)
	}
	if r := CreateFailed(boom); r.Status != CreateError || r.Err != boom {
		t.Errorf("CreateFailed() = %+v", r)
	}
}

func TestZeroGetResultIsMiss(t *testing.T) {
	var r GetResult
	if r.Status != LookupMiss {
		t.Errorf("zero GetResult status = %s, want miss", r.Status)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		sentinel error
		contains error
	}{
		{
			name:     "policy",
			err:      &PolicyError{Operation: query.OpFindAll, Table: "users", Keys: []string{"limit"}},
			sentinel: ErrNotCacheable,
		},
		{
			name:     "encoding",
			err:      &EncodingError{Path: "$.where.id", Reason: "number is not finite"},
			sentinel: ErrEncoding,
		},
		{
			name:     "deserialization",
			err:      &DeserializationError{Key: "k", Err: cause},
			sentinel: ErrDeserialization,
			contains: cause,
		},
		{
			name:     "backend",
			err:      &BackendError{Op: "get", Namespace: "ns", Key: "k", Err: cause},
			sentinel: ErrBackend,
			contains: cause,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("%v should match sentinel %v", tt.err, tt.sentinel)
			}
			if tt.contains != nil && !errors.Is(tt.err, tt.contains) {
				t.Errorf("%v should wrap %v", tt.err, tt.contains)
			}
			if tt.err.Error() == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestPolicyErrorMessage(t *testing.T) {
	err := &PolicyError{Operation: query.OpCount, Table: "users", Keys: []string{"group", "lock"}}
	want := "model cache: count on users passes unsupported options [group, lock]"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
