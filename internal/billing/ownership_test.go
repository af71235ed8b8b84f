package billing

import (
	"errors"
	"testing"

	"github.com/mmynk/paylink/internal/models"
)

func TestOwnedBy(t *testing.T) {
	if _, err := OwnedBy(nil); !errors.Is(err, models.ErrUnauthenticated) {
		t.Errorf("OwnedBy(nil) error = %v, want ErrUnauthenticated", err)
	}
	if _, err := OwnedBy(&models.Principal{}); !errors.Is(err, models.ErrUnauthenticated) {
		t.Errorf("OwnedBy(empty) error = %v, want ErrUnauthenticated", err)
	}

	f, err := OwnedBy(&models.Principal{UserID: "u1"})
	if err != nil {
		t.Fatalf("OwnedBy failed: %v", err)
	}
	if f.OwnerID() != "u1" {
		t.Errorf("OwnerID = %s, want u1", f.OwnerID())
	}
}

func TestOwnerFilter_Match(t *testing.T) {
	f, _ := OwnedBy(&models.Principal{UserID: "u1"})

	tests := []struct {
		name   string
		filter OwnerFilter
		b      *models.Billing
		want   bool
	}{
		{name: "own billing", filter: f, b: &models.Billing{OwnerID: "u1"}, want: true},
		{name: "other owner", filter: f, b: &models.Billing{OwnerID: "u2"}},
		{name: "unowned billing", filter: f, b: &models.Billing{}},
		{name: "nil billing", filter: f},
		{name: "zero filter", filter: OwnerFilter{}, b: &models.Billing{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(tt.b); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBindOwner(t *testing.T) {
	b := &models.Billing{}
	if !BindOwner(b, &models.Principal{UserID: "u1"}) {
		t.Fatal("expected first bind to succeed")
	}
	if BindOwner(b, &models.Principal{UserID: "u2"}) {
		t.Error("rebinding should be a no-op")
	}
	if b.OwnerID != "u1" {
		t.Errorf("OwnerID = %s, want u1", b.OwnerID)
	}
	if BindOwner(&models.Billing{}, nil) {
		t.Error("binding an anonymous principal should be a no-op")
	}
}
