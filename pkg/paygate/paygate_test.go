package paygate

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilverma/shopline/pkg/httpclient"
)

type stubTransport struct {
	status int
	body   string
	gotReq *http.Request
	gotRaw []byte
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.gotReq = req
	if req.Body != nil {
		s.gotRaw, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func TestCreateCharge(t *testing.T) {
	stub := &stubTransport{
		status: 201,
		body:   `{"id":"ch_123","amount":4999,"currency":"usd","status":"pending","payment_method":"pm_tok_1"}`,
	}
	httpclient.DefaultClient.Transport = stub
	defer httpclient.ResetTransport()

	client := NewWithConfig("https://gateway.test/v1", "sk_test_abc")
	ch, err := client.CreateCharge(context.Background(), 4999, "usd", "pm_tok_1", "order-42", "Order #42")
	require.NoError(t, err)

	assert.Equal(t, "ch_123", ch.ID)
	assert.Equal(t, int64(4999), ch.Amount)
	assert.Equal(t, ChargePending, ch.Status)

	assert.Equal(t, "https://gateway.test/v1/charges", stub.gotReq.URL.String())
	assert.Equal(t, "Bearer sk_test_abc", stub.gotReq.Header.Get("Authorization"))
	assert.Contains(t, string(stub.gotRaw), `"idempotency_key":"order-42"`)
}

func TestCreateChargeGatewayError(t *testing.T) {
	stub := &stubTransport{status: 402, body: `{"error":"card_declined"}`}
	httpclient.DefaultClient.Transport = stub
	defer httpclient.ResetTransport()

	client := NewWithConfig("https://gateway.test/v1", "sk_test_abc")
	_, err := client.CreateCharge(context.Background(), 100, "usd", "pm_bad", "order-1", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}

func TestCreateRefund(t *testing.T) {
	stub := &stubTransport{
		status: 201,
		body:   `{"id":"re_1","charge_id":"ch_123","amount":4999,"status":"succeeded"}`,
	}
	httpclient.DefaultClient.Transport = stub
	defer httpclient.ResetTransport()

	client := NewWithConfig("https://gateway.test/v1", "sk_test_abc")
	rf, err := client.CreateRefund(context.Background(), "ch_123", 4999)
	require.NoError(t, err)

	assert.Equal(t, "re_1", rf.ID)
	assert.Equal(t, "ch_123", rf.ChargeID)
	assert.Equal(t, "https://gateway.test/v1/refunds", stub.gotReq.URL.String())
}
