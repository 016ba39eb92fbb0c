// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dertool

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	encoding_asn1 "encoding/asn1"
	"encoding/pem"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

func rsaKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func ecKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestOIDEncoding(t *testing.T) {
	var b cryptobyte.Builder
	b.AddASN1ObjectIdentifier(OIDMD5)
	out, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06, 0x08, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x02, 0x05}, out)
}

func TestRSAPublicKey(t *testing.T) {
	key := rsaKey(t)
	der := x509.MarshalPKCS1PublicKey(&key.PublicKey)

	pub, err := ParseRSAPublicKey(der)
	require.NoError(t, err)
	assert.Equal(t, 0, pub.Modulus.Cmp(key.N))
	assert.Equal(t, int64(key.E), pub.PublicExponent.Int64())

	out, err := pub.Marshal()
	require.NoError(t, err)
	assert.Equal(t, der, out)

	_, err = ParseRSAPublicKey(append(der, 0x00))
	require.ErrorIs(t, err, ErrTrailingData)
	_, err = ParseRSAPublicKey(der[:len(der)-1])
	require.ErrorIs(t, err, ErrMalformed)
	_, err = ParseRSAPublicKey(nil)
	require.ErrorIs(t, err, ErrUnexpectedEOF)

	_, err = (&RSAPublicKey{Modulus: big.NewInt(1)}).Marshal()
	require.ErrorIs(t, err, ErrMissingField)
}

func TestRSAPrivateKey(t *testing.T) {
	key := rsaKey(t)
	der := x509.MarshalPKCS1PrivateKey(key)

	priv, err := ParseRSAPrivateKey(der)
	require.NoError(t, err)
	assert.Equal(t, RSATwoPrime, priv.Version)
	assert.Equal(t, "two-prime", priv.Version.String())
	assert.Equal(t, 0, priv.Prime1.Cmp(key.Primes[0]))
	assert.Equal(t, 0, priv.PrivateExponent.Cmp(key.D))
	assert.Nil(t, priv.OtherPrimeInfos)

	out, err := priv.Marshal()
	require.NoError(t, err)
	assert.Equal(t, der, out)

	// A public key lacks the private fields
	_, err = ParseRSAPrivateKey(x509.MarshalPKCS1PublicKey(&key.PublicKey))
	require.Error(t, err)
}

func TestRSAPrivateKeyVersions(t *testing.T) {
	build := func(version int64, extra []byte) []byte {
		var b cryptobyte.Builder
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1Int64(version)
			for i := 0; i < 8; i++ {
				b.AddASN1Int64(int64(i + 3))
			}
			b.AddBytes(extra)
		})
		return b.BytesOrPanic()
	}

	_, err := ParseRSAPrivateKey(build(2, nil))
	require.ErrorIs(t, err, ErrUnhandledEnumValue)

	others := []byte{0x30, 0x03, 0x02, 0x01, 0x07}
	der := build(1, others)
	priv, err := ParseRSAPrivateKey(der)
	require.NoError(t, err)
	assert.Equal(t, RSAMulti, priv.Version)
	assert.Equal(t, others, priv.OtherPrimeInfos)
	out, err := priv.Marshal()
	require.NoError(t, err)
	assert.Equal(t, der, out)

	// Extra primes are only allowed in multi-prime keys
	_, err = ParseRSAPrivateKey(build(0, others))
	require.ErrorIs(t, err, ErrTrailingData)

	priv.Version = 5
	_, err = priv.Marshal()
	require.ErrorIs(t, err, ErrUnhandledEnumValue)
}

func TestECPrivateKey(t *testing.T) {
	key := ecKey(t)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	ec, err := ParseECPrivateKey(der)
	require.NoError(t, err)
	assert.Equal(t, ECPrivkeyVer1, ec.Version)
	assert.True(t, ec.Parameters.Equal(OIDPrime256v1))
	assert.Len(t, ec.PrivateKey, 32)
	assert.Len(t, ec.PublicKey, 65)

	out, err := ec.Marshal()
	require.NoError(t, err)
	assert.Equal(t, der, out)

	// Optional fields can be left out
	bare := &ECPrivateKey{Version: ECPrivkeyVer1, PrivateKey: ec.PrivateKey}
	out, err = bare.Marshal()
	require.NoError(t, err)
	parsed, err := ParseECPrivateKey(out)
	require.NoError(t, err)
	assert.Nil(t, parsed.Parameters)
	assert.Nil(t, parsed.PublicKey)

	bare.Version = 2
	_, err = bare.Marshal()
	require.ErrorIs(t, err, ErrUnhandledEnumValue)

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		b.AddASN1OctetString([]byte{1})
	})
	_, err = ParseECPrivateKey(b.BytesOrPanic())
	require.ErrorIs(t, err, ErrUnhandledEnumValue)
}

func TestPrivateKeyInfo(t *testing.T) {
	der, err := x509.MarshalPKCS8PrivateKey(ecKey(t))
	require.NoError(t, err)

	info, err := ParsePrivateKeyInfo(der)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Version.Int64())
	assert.True(t, info.PrivateKeyAlgorithm.Algorithm.Equal(OIDECPublicKey))
	params, ok := info.PrivateKeyAlgorithm.Parameters.(encoding_asn1.ObjectIdentifier)
	require.True(t, ok)
	assert.True(t, params.Equal(OIDPrime256v1))

	inner, err := ParseECPrivateKey(info.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, ECPrivkeyVer1, inner.Version)

	out, err := info.Marshal()
	require.NoError(t, err)
	assert.Equal(t, der, out)

	der, err = x509.MarshalPKCS8PrivateKey(rsaKey(t))
	require.NoError(t, err)
	info, err = ParsePrivateKeyInfo(der)
	require.NoError(t, err)
	assert.True(t, info.PrivateKeyAlgorithm.Algorithm.Equal(OIDRSAEncryption))
	assert.Equal(t, Null{}, info.PrivateKeyAlgorithm.Parameters)
	out, err = info.Marshal()
	require.NoError(t, err)
	assert.Equal(t, der, out)
}

func TestAlgorithmIdentifierParameters(t *testing.T) {
	for name, params := range map[string]any{
		"absent":       nil,
		"null":         Null{},
		"integer":      big.NewInt(-129),
		"octet string": OctetString{0xde, 0xad},
		"oid":          OIDMD5,
	} {
		t.Run(name, func(t *testing.T) {
			info := &PrivateKeyInfo{
				Version: big.NewInt(0),
				PrivateKeyAlgorithm: AlgorithmIdentifier{
					Algorithm:  OIDMD5,
					Parameters: params,
				},
				PrivateKey: []byte{1, 2, 3},
			}
			der, err := info.Marshal()
			require.NoError(t, err)

			parsed, err := ParsePrivateKeyInfo(der)
			require.NoError(t, err)
			if n, ok := params.(*big.Int); ok {
				got, ok := parsed.PrivateKeyAlgorithm.Parameters.(*big.Int)
				require.True(t, ok)
				assert.Equal(t, 0, n.Cmp(got))
				return
			}
			assert.Equal(t, params, parsed.PrivateKeyAlgorithm.Parameters)
		})
	}

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(OIDMD5)
			b.AddASN1Boolean(true)
		})
		b.AddASN1OctetString(nil)
	})
	_, err := ParsePrivateKeyInfo(b.BytesOrPanic())
	require.ErrorIs(t, err, ErrUnexpectedTag)

	info := &PrivateKeyInfo{Version: big.NewInt(0),
		PrivateKeyAlgorithm: AlgorithmIdentifier{Algorithm: OIDMD5, Parameters: "text"}}
	_, err = info.Marshal()
	require.Error(t, err)
}

func TestDecode(t *testing.T) {
	ecDER, err := x509.MarshalPKCS8PrivateKey(ecKey(t))
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: ecDER})

	st, typ, err := Decode(pemBytes, "")
	require.NoError(t, err)
	assert.Equal(t, TypePKCS8, typ)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, st))
	out := buf.String()
	assert.Contains(t, out, "PrivateKeyInfo\n")
	assert.Contains(t, out, "  version: 0\n")
	assert.Contains(t, out, "algorithm: id-ecPublicKey (1.2.840.10045.2.1)")
	assert.Contains(t, out, "parameters: id-prime256v1 (1.2.840.10045.3.1.7)")
	assert.Contains(t, out, "  privateKey (ec-private)\n    ECPrivateKey\n")
	assert.Contains(t, out, "version: ecPrivkeyVer1")

	// Raw DER is tried against every structure
	key := rsaKey(t)
	_, typ, err = Decode(x509.MarshalPKCS1PrivateKey(key), "")
	require.NoError(t, err)
	assert.Equal(t, TypeRSAPrivate, typ)
	_, typ, err = Decode(x509.MarshalPKCS1PublicKey(&key.PublicKey), "")
	require.NoError(t, err)
	assert.Equal(t, TypeRSAPublic, typ)

	_, _, err = Decode(x509.MarshalPKCS1PublicKey(&key.PublicKey), TypeEC)
	require.Error(t, err)
	_, _, err = Decode(ecDER, "dsa")
	require.Error(t, err)
}

func TestDecodeRoundTrip(t *testing.T) {
	// Long-form length for a short body is valid BER but not DER
	_, _, err := Decode([]byte{0x30, 0x81, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x03}, TypeRSAPublic)
	require.Error(t, err)

	// Non-minimal integers are refused
	_, _, err = Decode([]byte{0x30, 0x07, 0x02, 0x02, 0x00, 0x01, 0x02, 0x01, 0x03}, TypeRSAPublic)
	require.ErrorIs(t, err, ErrMalformed)
}
