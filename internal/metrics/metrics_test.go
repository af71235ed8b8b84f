package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/paylink/internal/billing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(body)
}

func TestMetrics(t *testing.T) {
	m := New()
	m.ObserveAdmission(billing.OutcomeAccepted)
	m.ObserveAdmission(billing.OutcomeAccepted)
	m.ObserveAdmission(billing.OutcomeRejected)
	m.BillingCreated()
	m.ObserveRPC("/paylink.v1.BillingService/CreateBilling", "ok", 15*time.Millisecond)

	body := scrape(t, m)
	for _, want := range []string{
		`paylink_payment_admissions_total{outcome="accepted"} 2`,
		`paylink_payment_admissions_total{outcome="rejected"} 1`,
		"paylink_billings_created_total 1",
		`paylink_rpc_duration_seconds_count{code="ok",procedure="/paylink.v1.BillingService/CreateBilling"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.BillingCreated()

	if !strings.Contains(scrape(t, b), "paylink_billings_created_total 0") {
		t.Error("collectors leaked between registries")
	}
}
