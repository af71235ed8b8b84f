package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/paylink/internal/billing"
	"github.com/mmynk/paylink/internal/models"
	"github.com/mmynk/paylink/pkg/api"
)

// PaymentService implements the anonymous PaymentService RPC interface.
// The billing ID and token in each request are the only credentials.
type PaymentService struct {
	checkout *billing.Checkout
	logger   *slog.Logger
}

// NewPaymentService creates a payment service.
func NewPaymentService(checkout *billing.Checkout, logger *slog.Logger) *PaymentService {
	return &PaymentService{checkout: checkout, logger: logger}
}

// GetPaymentPage returns what the payer needs to fill in the payment form.
func (s *PaymentService) GetPaymentPage(ctx context.Context, req *connect.Request[api.GetPaymentPageRequest]) (*connect.Response[api.GetPaymentPageResponse], error) {
	st, err := s.checkout.Page(ctx, req.Msg.BillingID, req.Msg.Token)
	if err != nil {
		return nil, toPaymentError(s.logger, err)
	}

	pending := displayPending(st.Pending())
	return connect.NewResponse(&api.GetPaymentPageResponse{
		BillingID:       st.Billing.ID,
		Name:            st.Billing.Name,
		Description:     st.Billing.Description,
		Total:           st.Billing.Total(),
		Pending:         pending,
		SuggestedAmount: pending,
		Paid:            st.Billing.Settled,
	}), nil
}

// SubmitPayment records a payment against the billing. Paying a settled
// billing is not an error: the response reports AlreadyPaid.
func (s *PaymentService) SubmitPayment(ctx context.Context, req *connect.Request[api.SubmitPaymentRequest]) (*connect.Response[api.SubmitPaymentResponse], error) {
	res, err := s.checkout.Submit(ctx, req.Msg.BillingID, req.Msg.Token, req.Msg.Amount)
	if errors.Is(err, models.ErrAlreadySettled) {
		return connect.NewResponse(&api.SubmitPaymentResponse{Settled: true, AlreadyPaid: true}), nil
	}
	if err != nil {
		return nil, toPaymentError(s.logger, err)
	}

	return connect.NewResponse(&api.SubmitPaymentResponse{
		PayID:   res.Pay.ID,
		Amount:  res.Pay.Amount,
		Pending: displayPending(res.Pending),
		Settled: res.Settled,
	}), nil
}
