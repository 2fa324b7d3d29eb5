package encoder

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dskcredit/internal/model"
)

func generateKey(t *testing.T, bits int) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)
	return key
}

func open(t *testing.T, priv *rsa.PrivateKey, sealed string) []byte {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	require.Zero(t, len(raw)%priv.Size(), "ciphertext is not whole blocks")

	var plain []byte
	for len(raw) > 0 {
		block, err := rsa.DecryptPKCS1v15(rand.Reader, priv, raw[:priv.Size()])
		require.NoError(t, err)
		plain = append(plain, block...)
		raw = raw[priv.Size():]
	}
	return plain
}

func sampleApplication(items int) model.ApplicationPayload {
	app := model.OrderApplication{
		MerchantCID:     "c1d2",
		FirstName:       "Мария",
		LastName:        "Иванова",
		Phone:           "+359888000111",
		Email:           "maria@example.com",
		BillingAddress:  model.Address{Street: "ул. Шипка 12", City: "София", Postcode: "1504"},
		ShippingAddress: model.Address{Street: "ул. Шипка 12", City: "София"},
		TotalPrice:      decimal.RequireFromString("1250.40"),
		MerchantOrderID: 1001,
		Version:         "1.2.0",
	}
	for i := 0; i < items; i++ {
		app.LineItems = append(app.LineItems, model.LineItem{
			ProductID:  int64(100 + i),
			Name:       "Product " + strings.Repeat("x", i%7),
			Quantity:   i%3 + 1,
			UnitPrice:  decimal.NewFromInt(int64(10 + i)),
			CategoryID: 5,
			ImageURL:   "https://shop.example.com/wp-content/uploads/item.jpg",
		})
	}
	return app.Payload()
}

func TestChunkSize(t *testing.T) {
	assert.Equal(t, 117, ChunkSize(&generateKey(t, 1024).PublicKey))
	assert.Equal(t, 245, ChunkSize(&generateKey(t, 2048).PublicKey))
}

func TestEncodeRoundTrip(t *testing.T) {
	priv := generateKey(t, 1024)
	enc, err := New(&priv.PublicKey)
	require.NoError(t, err)

	tests := []struct {
		name  string
		items int
	}{
		{name: "single item", items: 1},
		{name: "many items span several blocks", items: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := sampleApplication(tt.items)
			want, err := Marshal(payload)
			require.NoError(t, err)

			sealed, err := enc.Encode(payload)
			require.NoError(t, err)

			assert.Equal(t, want, open(t, priv, sealed))
		})
	}
}

func TestSealExactChunkBoundary(t *testing.T) {
	priv := generateKey(t, 1024)
	enc, err := New(&priv.PublicKey)
	require.NoError(t, err)

	plain := []byte(strings.Repeat("a", 2*ChunkSize(&priv.PublicKey)))
	sealed, err := enc.Seal(plain)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	assert.Len(t, raw, 2*priv.Size())
	assert.Equal(t, plain, open(t, priv, sealed))
}

func TestEncodeIsRandomized(t *testing.T) {
	priv := generateKey(t, 1024)
	enc, err := New(&priv.PublicKey)
	require.NoError(t, err)

	a, err := enc.Encode(sampleApplication(1))
	require.NoError(t, err)
	b, err := enc.Encode(sampleApplication(1))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, open(t, priv, a), open(t, priv, b))
}

func TestEncodeFailsOnUnusableKey(t *testing.T) {
	priv := generateKey(t, 1024)
	enc, err := New(&rsa.PublicKey{N: priv.N, E: 1})
	require.NoError(t, err)

	out, err := enc.Encode(sampleApplication(3))
	assert.True(t, errors.Is(err, ErrEncrypt))
	assert.Empty(t, out)
}

func TestParsePublicKey(t *testing.T) {
	priv := generateKey(t, 1024)

	pkix, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pkixPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkix})
	pkcs1PEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&priv.PublicKey)})

	for _, data := range [][]byte{pkixPEM, pkcs1PEM} {
		key, err := ParsePublicKey(data)
		require.NoError(t, err)
		assert.Equal(t, 0, key.N.Cmp(priv.N))
	}

	_, err = ParsePublicKey([]byte("not a key"))
	assert.True(t, errors.Is(err, ErrInvalidKey))

	_, err = ParsePublicKey(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1}}))
	assert.True(t, errors.Is(err, ErrInvalidKey))

	_, err = New(nil)
	assert.True(t, errors.Is(err, ErrInvalidKey))
}
