package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/paylink/internal/auth"
	"github.com/mmynk/paylink/internal/billing"
	"github.com/mmynk/paylink/internal/metrics"
	"github.com/mmynk/paylink/internal/middleware"
	"github.com/mmynk/paylink/internal/notify"
	"github.com/mmynk/paylink/internal/storage/sqldb"
	"github.com/mmynk/paylink/pkg/api"
	"github.com/mmynk/paylink/pkg/api/apiconnect"
)

type testClients struct {
	auth     apiconnect.AuthServiceClient
	billing  apiconnect.BillingServiceClient
	payment  apiconnect.PaymentServiceClient
	notifier *notify.Recorder
}

// setupTestServer starts all three services on an httptest server backed by a
// temporary SQLite database.
func setupTestServer(t *testing.T) (*testClients, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqldb.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	m := metrics.New()
	notifier := &notify.Recorder{}
	locker := billing.NewMemoryLocker()

	admission := billing.NewAdmission(store, locker, m, logger)
	manager := billing.NewManager(store, locker, notifier, "https://pay.example.com", logger)

	requireAuth := middleware.RequireAuth(jwtManager)
	logging := middleware.LoggingInterceptor(logger)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, store, logger),
		connect.WithInterceptors(middleware.PublicProcedures(requireAuth,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		), logging),
	))
	mux.Handle(apiconnect.NewBillingServiceHandler(
		NewBillingService(manager, billing.NewBalanceAggregator(store), m, logger),
		connect.WithInterceptors(requireAuth, logging),
	))
	mux.Handle(apiconnect.NewPaymentServiceHandler(
		NewPaymentService(billing.NewCheckout(store, admission), logger),
		connect.WithInterceptors(logging),
	))

	server := httptest.NewServer(mux)

	clients := &testClients{
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		billing:  apiconnect.NewBillingServiceClient(http.DefaultClient, server.URL),
		payment:  apiconnect.NewPaymentServiceClient(http.DefaultClient, server.URL),
		notifier: notifier,
	}

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return clients, cleanup
}

// authed wraps msg in a request carrying the bearer token.
func authed[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

// register creates a user and returns its session token.
func register(t *testing.T, c *testClients, email string) string {
	t.Helper()
	resp, err := c.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: "Merchant",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg.Token
}

// validationField returns the field named in an InvalidArgument error's detail.
func validationField(err error) string {
	var cerr *connect.Error
	if !errors.As(err, &cerr) {
		return ""
	}
	for _, d := range cerr.Details() {
		msg, err := d.Value()
		if err != nil {
			continue
		}
		if s, ok := msg.(*structpb.Struct); ok {
			return s.GetFields()["field"].GetStringValue()
		}
	}
	return ""
}
