package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/paylink/pkg/api"
)

// PaymentServiceName is the fully-qualified name of the PaymentService service.
const PaymentServiceName = "paylink.v1.PaymentService"

const (
	PaymentServiceGetPaymentPageProcedure = "/paylink.v1.PaymentService/GetPaymentPage"
	PaymentServiceSubmitPaymentProcedure  = "/paylink.v1.PaymentService/SubmitPayment"
)

// PaymentServiceClient is a client for the paylink.v1.PaymentService service.
type PaymentServiceClient interface {
	GetPaymentPage(context.Context, *connect.Request[api.GetPaymentPageRequest]) (*connect.Response[api.GetPaymentPageResponse], error)
	SubmitPayment(context.Context, *connect.Request[api.SubmitPaymentRequest]) (*connect.Response[api.SubmitPaymentResponse], error)
}

// NewPaymentServiceClient constructs a client for the paylink.v1.PaymentService service.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &paymentServiceClient{
		getPaymentPage: connect.NewClient[api.GetPaymentPageRequest, api.GetPaymentPageResponse](httpClient, baseURL+PaymentServiceGetPaymentPageProcedure, opts...),
		submitPayment:  connect.NewClient[api.SubmitPaymentRequest, api.SubmitPaymentResponse](httpClient, baseURL+PaymentServiceSubmitPaymentProcedure, opts...),
	}
}

type paymentServiceClient struct {
	getPaymentPage *connect.Client[api.GetPaymentPageRequest, api.GetPaymentPageResponse]
	submitPayment  *connect.Client[api.SubmitPaymentRequest, api.SubmitPaymentResponse]
}

func (c *paymentServiceClient) GetPaymentPage(ctx context.Context, req *connect.Request[api.GetPaymentPageRequest]) (*connect.Response[api.GetPaymentPageResponse], error) {
	return c.getPaymentPage.CallUnary(ctx, req)
}

func (c *paymentServiceClient) SubmitPayment(ctx context.Context, req *connect.Request[api.SubmitPaymentRequest]) (*connect.Response[api.SubmitPaymentResponse], error) {
	return c.submitPayment.CallUnary(ctx, req)
}

// PaymentServiceHandler is implemented by the paylink.v1.PaymentService server.
type PaymentServiceHandler interface {
	GetPaymentPage(context.Context, *connect.Request[api.GetPaymentPageRequest]) (*connect.Response[api.GetPaymentPageResponse], error)
	SubmitPayment(context.Context, *connect.Request[api.SubmitPaymentRequest]) (*connect.Response[api.SubmitPaymentResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler from the service implementation.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	getPaymentPage := connect.NewUnaryHandler(PaymentServiceGetPaymentPageProcedure, svc.GetPaymentPage, opts...)
	submitPayment := connect.NewUnaryHandler(PaymentServiceSubmitPaymentProcedure, svc.SubmitPayment, opts...)
	return "/" + PaymentServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PaymentServiceGetPaymentPageProcedure:
			getPaymentPage.ServeHTTP(w, r)
		case PaymentServiceSubmitPaymentProcedure:
			submitPayment.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
