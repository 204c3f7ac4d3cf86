package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

type fakeSource struct {
	used int64
	err  error
}

func (f *fakeSource) SumActiveFileSizes(_ context.Context, _ string) (int64, error) {
	return f.used, f.err
}

func TestCanAdmit(t *testing.T) {
	user := &models.User{ID: "u1", StorageLimit: 1000}

	tests := []struct {
		name    string
		used    int64
		size    int64
		wantErr bool
	}{
		{"fits comfortably", 0, 500, false},
		{"fits exactly", 600, 400, false},
		{"one byte over", 600, 401, true},
		{"already at limit", 1000, 1, true},
		{"zero-byte upload always fits", 1000, 0, false},
		{"already over limit", 1200, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAccountant(&fakeSource{used: tt.used})
			err := a.CanAdmit(context.Background(), user, tt.size)
			if tt.wantErr {
				var qe *models.QuotaExceededError
				if !errors.As(err, &qe) {
					t.Fatalf("expected QuotaExceededError, got %v", err)
				}
				if qe.Requested != tt.size {
					t.Errorf("Requested = %d, want %d", qe.Requested, tt.size)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCanAdmitReportsAvailable(t *testing.T) {
	user := &models.User{ID: "u1", StorageLimit: 1000}
	a := NewAccountant(&fakeSource{used: 900})

	err := a.CanAdmit(context.Background(), user, 500)
	var qe *models.QuotaExceededError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if qe.Available != 100 {
		t.Errorf("Available = %d, want 100", qe.Available)
	}
}

func TestCanAdmitNegativeSize(t *testing.T) {
	user := &models.User{ID: "u1", StorageLimit: 1000}
	a := NewAccountant(&fakeSource{})

	err := a.CanAdmit(context.Background(), user, -1)
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUsageFor(t *testing.T) {
	user := &models.User{ID: "u1", StorageLimit: 1000}
	a := NewAccountant(&fakeSource{used: 250})

	usage, err := a.UsageFor(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.Used != 250 || usage.Limit != 1000 || usage.Available != 750 {
		t.Errorf("usage = %+v, want used=250 limit=1000 available=750", usage)
	}
}

func TestUsageForClampsAvailable(t *testing.T) {
	user := &models.User{ID: "u1", StorageLimit: 100}
	a := NewAccountant(&fakeSource{used: 150})

	usage, err := a.UsageFor(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.Available != 0 {
		t.Errorf("Available = %d, want 0 when over limit", usage.Available)
	}
}

func TestCanAdmitPropagatesSourceError(t *testing.T) {
	user := &models.User{ID: "u1", StorageLimit: 1000}
	srcErr := errors.New("database unavailable")
	a := NewAccountant(&fakeSource{err: srcErr})

	if err := a.CanAdmit(context.Background(), user, 1); !errors.Is(err, srcErr) {
		t.Fatalf("expected source error, got %v", err)
	}
}
