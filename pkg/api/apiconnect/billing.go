package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/paylink/pkg/api"
)

// BillingServiceName is the fully-qualified name of the BillingService service.
const BillingServiceName = "paylink.v1.BillingService"

const (
	BillingServiceCreateBillingProcedure = "/paylink.v1.BillingService/CreateBilling"
	BillingServiceGetBillingProcedure    = "/paylink.v1.BillingService/GetBilling"
	BillingServiceListBillingsProcedure  = "/paylink.v1.BillingService/ListBillings"
	BillingServiceUpdateBillingProcedure = "/paylink.v1.BillingService/UpdateBilling"
	BillingServiceGetBalanceProcedure    = "/paylink.v1.BillingService/GetBalance"
)

// BillingServiceClient is a client for the paylink.v1.BillingService service.
type BillingServiceClient interface {
	CreateBilling(context.Context, *connect.Request[api.CreateBillingRequest]) (*connect.Response[api.CreateBillingResponse], error)
	GetBilling(context.Context, *connect.Request[api.GetBillingRequest]) (*connect.Response[api.GetBillingResponse], error)
	ListBillings(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListBillingsResponse], error)
	UpdateBilling(context.Context, *connect.Request[api.UpdateBillingRequest]) (*connect.Response[api.UpdateBillingResponse], error)
	GetBalance(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.GetBalanceResponse], error)
}

// NewBillingServiceClient constructs a client for the paylink.v1.BillingService service.
func NewBillingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillingServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &billingServiceClient{
		createBilling: connect.NewClient[api.CreateBillingRequest, api.CreateBillingResponse](httpClient, baseURL+BillingServiceCreateBillingProcedure, opts...),
		getBilling:    connect.NewClient[api.GetBillingRequest, api.GetBillingResponse](httpClient, baseURL+BillingServiceGetBillingProcedure, opts...),
		listBillings:  connect.NewClient[emptypb.Empty, api.ListBillingsResponse](httpClient, baseURL+BillingServiceListBillingsProcedure, opts...),
		updateBilling: connect.NewClient[api.UpdateBillingRequest, api.UpdateBillingResponse](httpClient, baseURL+BillingServiceUpdateBillingProcedure, opts...),
		getBalance:    connect.NewClient[emptypb.Empty, api.GetBalanceResponse](httpClient, baseURL+BillingServiceGetBalanceProcedure, opts...),
	}
}

type billingServiceClient struct {
	createBilling *connect.Client[api.CreateBillingRequest, api.CreateBillingResponse]
	getBilling    *connect.Client[api.GetBillingRequest, api.GetBillingResponse]
	listBillings  *connect.Client[emptypb.Empty, api.ListBillingsResponse]
	updateBilling *connect.Client[api.UpdateBillingRequest, api.UpdateBillingResponse]
	getBalance    *connect.Client[emptypb.Empty, api.GetBalanceResponse]
}

func (c *billingServiceClient) CreateBilling(ctx context.Context, req *connect.Request[api.CreateBillingRequest]) (*connect.Response[api.CreateBillingResponse], error) {
	return c.createBilling.CallUnary(ctx, req)
}

func (c *billingServiceClient) GetBilling(ctx context.Context, req *connect.Request[api.GetBillingRequest]) (*connect.Response[api.GetBillingResponse], error) {
	return c.getBilling.CallUnary(ctx, req)
}

func (c *billingServiceClient) ListBillings(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListBillingsResponse], error) {
	return c.listBillings.CallUnary(ctx, req)
}

func (c *billingServiceClient) UpdateBilling(ctx context.Context, req *connect.Request[api.UpdateBillingRequest]) (*connect.Response[api.UpdateBillingResponse], error) {
	return c.updateBilling.CallUnary(ctx, req)
}

func (c *billingServiceClient) GetBalance(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

// BillingServiceHandler is implemented by the paylink.v1.BillingService server.
type BillingServiceHandler interface {
	CreateBilling(context.Context, *connect.Request[api.CreateBillingRequest]) (*connect.Response[api.CreateBillingResponse], error)
	GetBilling(context.Context, *connect.Request[api.GetBillingRequest]) (*connect.Response[api.GetBillingResponse], error)
	ListBillings(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ListBillingsResponse], error)
	UpdateBilling(context.Context, *connect.Request[api.UpdateBillingRequest]) (*connect.Response[api.UpdateBillingResponse], error)
	GetBalance(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.GetBalanceResponse], error)
}

// NewBillingServiceHandler builds an HTTP handler from the service implementation.
func NewBillingServiceHandler(svc BillingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	createBilling := connect.NewUnaryHandler(BillingServiceCreateBillingProcedure, svc.CreateBilling, opts...)
	getBilling := connect.NewUnaryHandler(BillingServiceGetBillingProcedure, svc.GetBilling, opts...)
	listBillings := connect.NewUnaryHandler(BillingServiceListBillingsProcedure, svc.ListBillings, opts...)
	updateBilling := connect.NewUnaryHandler(BillingServiceUpdateBillingProcedure, svc.UpdateBilling, opts...)
	getBalance := connect.NewUnaryHandler(BillingServiceGetBalanceProcedure, svc.GetBalance, opts...)
	return "/" + BillingServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillingServiceCreateBillingProcedure:
			createBilling.ServeHTTP(w, r)
		case BillingServiceGetBillingProcedure:
			getBilling.ServeHTTP(w, r)
		case BillingServiceListBillingsProcedure:
			listBillings.ServeHTTP(w, r)
		case BillingServiceUpdateBillingProcedure:
			updateBilling.ServeHTTP(w, r)
		case BillingServiceGetBalanceProcedure:
			getBalance.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
