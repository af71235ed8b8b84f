package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/paylink/internal/billing"
	"github.com/mmynk/paylink/internal/middleware"
	"github.com/mmynk/paylink/pkg/api"
)

// CreationCounter is told about every billing created. *metrics.Metrics implements it.
type CreationCounter interface {
	BillingCreated()
}

// BillingService implements the merchant-facing BillingService RPC interface.
// Every call is scoped to the authenticated caller.
type BillingService struct {
	manager  *billing.Manager
	balances *billing.BalanceAggregator
	counter  CreationCounter
	logger   *slog.Logger
}

// NewBillingService creates a billing service. counter may be nil.
func NewBillingService(manager *billing.Manager, balances *billing.BalanceAggregator, counter CreationCounter, logger *slog.Logger) *BillingService {
	return &BillingService{
		manager:  manager,
		balances: balances,
		counter:  counter,
		logger:   logger,
	}
}

// CreateBilling validates and stores a new billing owned by the caller.
func (s *BillingService) CreateBilling(ctx context.Context, req *connect.Request[api.CreateBillingRequest]) (*connect.Response[api.CreateBillingResponse], error) {
	msg := req.Msg
	draft, err := toDraft(msg.Name, msg.Description, msg.Email, msg.Amount, msg.Discount)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}

	b, err := s.manager.Create(ctx, middleware.PrincipalFrom(ctx), draft)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	if s.counter != nil {
		s.counter.BillingCreated()
	}

	s.logger.InfoContext(ctx, "Billing created", "billing_id", b.ID, "total", b.Total().String())
	return connect.NewResponse(&api.CreateBillingResponse{
		Billing: toAPIBilling(billing.Statement{Billing: b}),
	}), nil
}

// GetBilling returns one of the caller's billings with its payments.
func (s *BillingService) GetBilling(ctx context.Context, req *connect.Request[api.GetBillingRequest]) (*connect.Response[api.GetBillingResponse], error) {
	st, err := s.manager.Get(ctx, middleware.PrincipalFrom(ctx), req.Msg.ID)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&api.GetBillingResponse{
		Billing: toAPIBilling(st),
		Pays:    toAPIPays(st.Pays),
	}), nil
}

// ListBillings returns the caller's billings, newest first.
func (s *BillingService) ListBillings(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListBillingsResponse], error) {
	statements, err := s.manager.List(ctx, middleware.PrincipalFrom(ctx))
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}

	billings := make([]*api.Billing, len(statements))
	for i, st := range statements {
		billings[i] = toAPIBilling(st)
	}
	return connect.NewResponse(&api.ListBillingsResponse{Billings: billings}), nil
}

// UpdateBilling edits one of the caller's open billings.
func (s *BillingService) UpdateBilling(ctx context.Context, req *connect.Request[api.UpdateBillingRequest]) (*connect.Response[api.UpdateBillingResponse], error) {
	msg := req.Msg
	draft, err := toDraft(msg.Name, msg.Description, msg.Email, msg.Amount, msg.Discount)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}

	st, err := s.manager.Update(ctx, middleware.PrincipalFrom(ctx), msg.ID, draft)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&api.UpdateBillingResponse{Billing: toAPIBilling(st)}), nil
}

// GetBalance sums the payments received on the caller's billings.
func (s *BillingService) GetBalance(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.GetBalanceResponse], error) {
	bal, err := s.balances.Balance(ctx, middleware.PrincipalFrom(ctx))
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&api.GetBalanceResponse{
		Total:        bal.TotalPaid,
		Outstanding:  bal.Outstanding,
		BillingCount: bal.BillingCount,
		SettledCount: bal.SettledBillings,
	}), nil
}
