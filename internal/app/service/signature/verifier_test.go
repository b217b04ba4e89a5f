package signature

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_1b7a3c"

func signedInput(t *testing.T, secret, dataID, requestID, ts string, body []byte) Input {
	t.Helper()
	v1 := sign(secret, manifest(dataID, requestID, ts))
	return Input{
		Body:            body,
		SignatureHeader: fmt.Sprintf("ts=%s,v1=%s", ts, v1),
		RequestID:       requestID,
		DataID:          dataID,
	}
}

func validBody() []byte {
	return []byte(`{"id":101,"type":"payment","action":"payment.updated","data":{"id":"12345"}}`)
}

func TestVerify_Preconditions(t *testing.T) {
	v := NewVerifier(testSecret)

	tests := []struct {
		name   string
		in     Input
		reason string
	}{
		{
			name:   "missing signature header",
			in:     Input{Body: validBody(), DataID: "12345"},
			reason: "missing x-signature header",
		},
		{
			name:   "empty body",
			in:     Input{SignatureHeader: "ts=1,v1=ab", DataID: "12345"},
			reason: "empty request body",
		},
		{
			name:   "header without ts",
			in:     Input{Body: validBody(), SignatureHeader: "v1=abcd", DataID: "12345"},
			reason: "malformed x-signature header: want ts and v1",
		},
		{
			name:   "header without v1",
			in:     Input{Body: validBody(), SignatureHeader: "ts=1704908010", DataID: "12345"},
			reason: "malformed x-signature header: want ts and v1",
		},
		{
			name:   "missing data.id",
			in:     Input{Body: validBody(), SignatureHeader: "ts=1704908010,v1=abcd"},
			reason: "missing data.id query parameter",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Verify(tt.in)
			require.False(t, res.Valid)
			require.Equal(t, tt.reason, res.Reason)
			require.Nil(t, res.Notification)
		})
	}
}

func TestVerify_MissingSecret(t *testing.T) {
	v := NewVerifier("")
	res := v.Verify(Input{Body: validBody(), SignatureHeader: "ts=1,v1=ab", DataID: "12345"})
	require.False(t, res.Valid)
	require.Equal(t, "webhook secret is not configured", res.Reason)
}

func TestVerify_RoundTrip(t *testing.T) {
	v := NewVerifier(testSecret)

	res := v.Verify(signedInput(t, testSecret, "12345", "req-9f2", "1704908010", validBody()))
	require.True(t, res.Valid)
	require.Empty(t, res.Reason)
	require.NotNil(t, res.Notification)
	require.Equal(t, "payment", res.Notification.Type)
	require.Equal(t, "12345", res.Notification.Data.ID)
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)
	res := v.Verify(signedInput(t, "some-other-secret", "12345", "", "1704908010", validBody()))
	require.False(t, res.Valid)
	require.Equal(t, "signature mismatch", res.Reason)
}

func TestVerify_MutatedTrailingHexChar(t *testing.T) {
	v := NewVerifier(testSecret)
	in := signedInput(t, testSecret, "12345", "", "1704908010", validBody())

	last := in.SignatureHeader[len(in.SignatureHeader)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	in.SignatureHeader = in.SignatureHeader[:len(in.SignatureHeader)-1] + string(flipped)

	res := v.Verify(in)
	require.False(t, res.Valid)
	require.Equal(t, "signature mismatch", res.Reason)
}

func TestVerify_RequestIDChangesManifest(t *testing.T) {
	v := NewVerifier(testSecret)

	// Signed with a request id, verified without one: manifest differs.
	in := signedInput(t, testSecret, "12345", "req-9f2", "1704908010", validBody())
	in.RequestID = ""
	res := v.Verify(in)
	require.False(t, res.Valid)
	require.Equal(t, "signature mismatch", res.Reason)
}

func TestVerify_ValidSignatureMalformedBody(t *testing.T) {
	v := NewVerifier(testSecret)
	res := v.Verify(signedInput(t, testSecret, "12345", "", "1704908010", []byte("{not json")))
	require.False(t, res.Valid)
	require.Equal(t, "signature valid but body is not parseable", res.Reason)
}

func TestManifest(t *testing.T) {
	require.Equal(t, "id:12345;request-id:rid;ts:99;", manifest("12345", "rid", "99"))
	require.Equal(t, "id:12345;ts:99;", manifest("12345", "", "99"))
	// Alphanumeric ids are lowercased; ids with separators pass through.
	require.Equal(t, "id:abc99;ts:1;", manifest("ABC99", "", "1"))
	require.Equal(t, "id:ABC-99;ts:1;", manifest("ABC-99", "", "1"))
}
