package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// The gateway's response document must come back out as the JSON it
// went in as, not as a base64-encoded string.
func TestPaymentGatewayResponseMarshalsVerbatim(t *testing.T) {
	p := Payment{
		PaymentID:       "PAY-ABCDEF123456",
		Amount:          decimal.RequireFromString("120.00"),
		Currency:        "USD",
		Method:          MethodCreditCard,
		Status:          PaymentPending,
		GatewayResponse: json.RawMessage(`{"txn":"tx_9","approved":true}`),
	}
	out, err := json.Marshal(&p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"gateway_response":{"txn":"tx_9","approved":true}`) {
		t.Errorf("gateway_response not embedded as JSON: %s", out)
	}

	p.GatewayResponse = nil
	out, err = json.Marshal(&p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "gateway_response") {
		t.Errorf("empty gateway_response not omitted: %s", out)
	}
}
