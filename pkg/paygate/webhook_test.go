package paygate

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_1234567890"

func TestVerifySignatureValid(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"charge.succeeded","created_at":1700000000,"data":{}}`)
	now := time.Now()
	header := BuildHeader(payload, testSecret, now.Unix())

	err := verifyAt(payload, header, testSecret, now, DefaultTolerance)
	assert.NoError(t, err)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"charge.succeeded"}`)
	now := time.Now()
	header := BuildHeader(payload, "whsec_other", now.Unix())

	err := verifyAt(payload, header, testSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","amount":1000}`)
	now := time.Now()
	header := BuildHeader(payload, testSecret, now.Unix())

	tampered := []byte(`{"id":"evt_1","amount":100000}`)
	err := verifyAt(tampered, header, testSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	old := now.Add(-10 * time.Minute)
	header := BuildHeader(payload, testSecret, old.Unix())

	err := verifyAt(payload, header, testSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrSignatureExpired)
}

func TestVerifySignatureFutureTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	future := now.Add(10 * time.Minute)
	header := BuildHeader(payload, testSecret, future.Unix())

	err := verifyAt(payload, header, testSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrSignatureExpired)
}

func TestVerifySignatureMultipleV1(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	good := Sign(payload, testSecret, now.Unix())
	header := "t=" + strconv.FormatInt(now.Unix(), 10) + ",v1=deadbeef,v1=" + good

	err := verifyAt(payload, header, testSecret, now, DefaultTolerance)
	assert.NoError(t, err)
}

func TestVerifySignatureMalformedHeaders(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{
		"",
		"v1=abc",            // no timestamp
		"t=1700000000",      // no signature
		"t=notanumber,v1=a", // bad timestamp
	} {
		err := verifyAt(payload, header, testSecret, now, DefaultTolerance)
		assert.ErrorIs(t, err, ErrMalformedHeader, "header %q", header)
	}
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"id":"evt_9","type":"charge.refunded","created_at":1700000000,"data":{"id":"ch_1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "evt_9", ev.ID)
	assert.Equal(t, EventChargeRefunded, ev.Type)
}

func TestParseEventRejectsMissingFields(t *testing.T) {
	_, err := ParseEvent([]byte(`{"created_at":1700000000}`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`not json`))
	assert.Error(t, err)
}
