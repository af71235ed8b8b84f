package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/paylink/pkg/api"
)

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func createBilling(t *testing.T, c *testClients, token, amount, discount string) *api.Billing {
	t.Helper()
	req := &api.CreateBillingRequest{
		Name:   "Beach shoes",
		Amount: dec(amount),
		Email:  "customer@example.com",
	}
	if discount != "" {
		req.Discount = dec(discount)
	}
	resp, err := c.billing.CreateBilling(context.Background(), authed(req, token))
	if err != nil {
		t.Fatalf("CreateBilling failed: %v", err)
	}
	return resp.Msg.Billing
}

func TestBillingService_Create(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()
	token := register(t, c, "merchant@example.com")

	b := createBilling(t, c, token, "100", "10")
	if !b.Total.Equal(decimal.NewFromInt(90)) || !b.Pending.Equal(decimal.NewFromInt(90)) {
		t.Errorf("total/pending = %s/%s, want 90/90", b.Total, b.Pending)
	}
	if b.Settled {
		t.Error("new billing should be open")
	}

	if len(c.notifier.Events()) != 1 || c.notifier.Events()[0].BillingID != b.ID {
		t.Fatalf("expected one billing-created event for %d, got %+v", b.ID, c.notifier.Events())
	}

	t.Run("total is derived in cents", func(t *testing.T) {
		b := createBilling(t, c, token, "10", "33.333")
		if b.Total.String() != "6.67" {
			t.Errorf("Total = %s, want 6.67", b.Total)
		}
	})

	tests := []struct {
		name  string
		req   *api.CreateBillingRequest
		field string
	}{
		{"missing amount", &api.CreateBillingRequest{Name: "x", Email: "a@example.com"}, "amount"},
		{"negative amount", &api.CreateBillingRequest{Name: "x", Email: "a@example.com", Amount: dec("-5")}, "amount"},
		{"discount too large", &api.CreateBillingRequest{Name: "x", Email: "a@example.com", Amount: dec("5"), Discount: dec("150")}, "discount"},
		{"sub-cent amount", &api.CreateBillingRequest{Name: "x", Email: "a@example.com", Amount: dec("0.0000004")}, "amount"},
		{"discount beyond six places", &api.CreateBillingRequest{Name: "x", Email: "a@example.com", Amount: dec("5"), Discount: dec("10.0000001")}, "discount"},
		{"blank name", &api.CreateBillingRequest{Name: " ", Email: "a@example.com", Amount: dec("5")}, "name"},
		{"bad email", &api.CreateBillingRequest{Name: "x", Email: "nope", Amount: dec("5")}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.billing.CreateBilling(ctx, authed(tt.req, token))
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Fatalf("code = %v, want InvalidArgument (err: %v)", connect.CodeOf(err), err)
			}
			if got := validationField(err); got != tt.field {
				t.Errorf("field = %q, want %q", got, tt.field)
			}
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := c.billing.CreateBilling(ctx, connect.NewRequest(&api.CreateBillingRequest{Name: "x", Email: "a@example.com", Amount: dec("5")}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("code = %v, want Unauthenticated", connect.CodeOf(err))
		}
	})
}

func TestBillingService_Ownership(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()
	alice := register(t, c, "alice@example.com")
	bob := register(t, c, "bob@example.com")

	first := createBilling(t, c, alice, "10", "")
	second := createBilling(t, c, alice, "20", "")

	list, err := c.billing.ListBillings(ctx, authed(&emptypb.Empty{}, alice))
	if err != nil {
		t.Fatalf("ListBillings failed: %v", err)
	}
	if len(list.Msg.Billings) != 2 || list.Msg.Billings[0].ID != second.ID {
		t.Errorf("alice's list = %+v, want [%d %d]", list.Msg.Billings, second.ID, first.ID)
	}

	bobs, err := c.billing.ListBillings(ctx, authed(&emptypb.Empty{}, bob))
	if err != nil {
		t.Fatalf("ListBillings failed: %v", err)
	}
	if len(bobs.Msg.Billings) != 0 {
		t.Errorf("bob sees %d billings, want 0", len(bobs.Msg.Billings))
	}

	if _, err := c.billing.GetBilling(ctx, authed(&api.GetBillingRequest{ID: first.ID}, alice)); err != nil {
		t.Errorf("owner GetBilling failed: %v", err)
	}
	_, err = c.billing.GetBilling(ctx, authed(&api.GetBillingRequest{ID: first.ID}, bob))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("non-owner GetBilling code = %v, want NotFound", connect.CodeOf(err))
	}

	_, err = c.billing.UpdateBilling(ctx, authed(&api.UpdateBillingRequest{
		ID: first.ID, Name: "Hijack", Email: "x@example.com", Amount: dec("1"),
	}, bob))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("non-owner UpdateBilling code = %v, want NotFound", connect.CodeOf(err))
	}
}

func TestBillingService_UpdateAndBalance(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()
	token := register(t, c, "merchant@example.com")

	b := createBilling(t, c, token, "100", "")
	updated, err := c.billing.UpdateBilling(ctx, authed(&api.UpdateBillingRequest{
		ID:       b.ID,
		Name:     "Beach shoes, size 8",
		Email:    "customer@example.com",
		Amount:   dec("100"),
		Discount: dec("10"),
	}, token))
	if err != nil {
		t.Fatalf("UpdateBilling failed: %v", err)
	}
	if updated.Msg.Billing.Name != "Beach shoes, size 8" || !updated.Msg.Billing.Total.Equal(decimal.NewFromInt(90)) {
		t.Errorf("updated = %+v", updated.Msg.Billing)
	}

	token0 := c.notifier.Events()[0].Token
	for _, amount := range []string{"50", "40"} {
		if _, err := c.payment.SubmitPayment(ctx, connect.NewRequest(&api.SubmitPaymentRequest{
			BillingID: b.ID, Token: token0, Amount: dec(amount),
		})); err != nil {
			t.Fatalf("SubmitPayment(%s) failed: %v", amount, err)
		}
	}
	createBilling(t, c, token, "20", "")

	_, err = c.billing.UpdateBilling(ctx, authed(&api.UpdateBillingRequest{
		ID: b.ID, Name: "Too late", Email: "customer@example.com", Amount: dec("200"),
	}, token))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("update settled code = %v, want FailedPrecondition", connect.CodeOf(err))
	}

	bal, err := c.billing.GetBalance(ctx, authed(&emptypb.Empty{}, token))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !bal.Msg.Total.Equal(decimal.NewFromInt(90)) {
		t.Errorf("Total = %s, want 90", bal.Msg.Total)
	}
	if !bal.Msg.Outstanding.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Outstanding = %s, want 20", bal.Msg.Outstanding)
	}
	if bal.Msg.BillingCount != 2 || bal.Msg.SettledCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", bal.Msg.BillingCount, bal.Msg.SettledCount)
	}

	got, err := c.billing.GetBilling(ctx, authed(&api.GetBillingRequest{ID: b.ID}, token))
	if err != nil {
		t.Fatalf("GetBilling failed: %v", err)
	}
	if len(got.Msg.Pays) != 2 || !got.Msg.Billing.Settled || !got.Msg.Billing.Pending.IsZero() {
		t.Errorf("billing = %+v, pays = %d", got.Msg.Billing, len(got.Msg.Pays))
	}
}

func TestBillingService_EmptyBalance(t *testing.T) {
	c, cleanup := setupTestServer(t)
	defer cleanup()
	token := register(t, c, "new@example.com")

	bal, err := c.billing.GetBalance(context.Background(), authed(&emptypb.Empty{}, token))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !bal.Msg.Total.IsZero() || bal.Msg.BillingCount != 0 {
		t.Errorf("balance = %+v, want zero", bal.Msg)
	}
}
