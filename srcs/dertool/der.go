// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dertool

import (
	encoding_asn1 "encoding/asn1"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Exported errors of the DER decoder.
var (
	ErrUnexpectedTag      = errors.New("unexpected tag")
	ErrUnexpectedEOF      = errors.New("unexpected end of data")
	ErrMalformed          = errors.New("malformed or non-canonical encoding")
	ErrUnhandledEnumValue = errors.New("unhandled enumerated value")
	ErrTrailingData       = errors.New("trailing data")
	ErrMissingField       = errors.New("missing field")
)

// Object identifiers known by the decoder.
var (
	OIDMD5           = encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 5}
	OIDRSAEncryption = encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	OIDECPublicKey   = encoding_asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	OIDPrime256v1    = encoding_asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
)

var (
	tagECParameters = asn1.Tag(0).Constructed().ContextSpecific()
	tagECPublicKey  = asn1.Tag(1).Constructed().ContextSpecific()
)

// RSAVersion is the version of an RSAPrivateKey.
type RSAVersion int

// Values of RSAVersion.
const (
	RSATwoPrime RSAVersion = 0
	RSAMulti    RSAVersion = 1
)

func (v RSAVersion) String() string {
	switch v {
	case RSATwoPrime:
		return "two-prime"
	case RSAMulti:
		return "multi"
	}
	return fmt.Sprintf("RSAVersion(%d)", int(v))
}

// ECVersion is the version of an ECPrivateKey. Only ecPrivkeyVer1 exists.
type ECVersion int

// ECPrivkeyVer1 is the only valid ECVersion.
const ECPrivkeyVer1 ECVersion = 1

func (v ECVersion) String() string {
	if v == ECPrivkeyVer1 {
		return "ecPrivkeyVer1"
	}
	return fmt.Sprintf("ECVersion(%d)", int(v))
}

// RSAPublicKey is the PKCS#1 public key.
type RSAPublicKey struct {
	Modulus        *big.Int
	PublicExponent *big.Int
}

// RSAPrivateKey is the PKCS#1 private key. OtherPrimeInfos holds the raw
// encoding of the extra primes of a multi-prime key.
type RSAPrivateKey struct {
	Version         RSAVersion
	Modulus         *big.Int
	PublicExponent  *big.Int
	PrivateExponent *big.Int
	Prime1          *big.Int
	Prime2          *big.Int
	Exponent1       *big.Int
	Exponent2       *big.Int
	Coefficient     *big.Int
	OtherPrimeInfos []byte
}

// Null is the ASN.1 NULL value.
type Null struct{}

// OctetString is an ASN.1 OCTET STRING used as algorithm parameters.
type OctetString []byte

// AlgorithmIdentifier names an algorithm. Parameters is nil when absent,
// otherwise one of Null, *big.Int, OctetString or an object identifier.
type AlgorithmIdentifier struct {
	Algorithm  encoding_asn1.ObjectIdentifier
	Parameters any
}

// PrivateKeyInfo is the PKCS#8 private key wrapper.
type PrivateKeyInfo struct {
	Version             *big.Int
	PrivateKeyAlgorithm AlgorithmIdentifier
	PrivateKey          []byte
}

// ECPrivateKey is the SEC1 private key. Parameters and PublicKey are nil
// when absent.
type ECPrivateKey struct {
	Version    ECVersion
	PrivateKey []byte
	Parameters encoding_asn1.ObjectIdentifier
	PublicKey  []byte
}

func fieldErr(field string, err error) error {
	return fmt.Errorf("%s: %w", field, err)
}

// peek fails with ErrUnexpectedEOF on empty input and with
// ErrUnexpectedTag when the next element is not tagged tag.
func peek(s *cryptobyte.String, tag asn1.Tag, field string) error {
	if s.Empty() {
		return fieldErr(field, ErrUnexpectedEOF)
	}
	if !s.PeekASN1Tag(tag) {
		return fieldErr(field, ErrUnexpectedTag)
	}
	return nil
}

func readElement(s *cryptobyte.String, tag asn1.Tag, field string) (cryptobyte.String, error) {
	if err := peek(s, tag, field); err != nil {
		return nil, err
	}
	var body cryptobyte.String
	if !s.ReadASN1(&body, tag) {
		return nil, fieldErr(field, ErrMalformed)
	}
	return body, nil
}

func readInteger(s *cryptobyte.String, field string) (*big.Int, error) {
	if err := peek(s, asn1.INTEGER, field); err != nil {
		return nil, err
	}
	n := new(big.Int)
	if !s.ReadASN1Integer(n) {
		return nil, fieldErr(field, ErrMalformed)
	}
	return n, nil
}

// readEnum reads an INTEGER which must be one of values.
func readEnum(s *cryptobyte.String, field string, values ...int64) (int64, error) {
	n, err := readInteger(s, field)
	if err != nil {
		return 0, err
	}
	for _, v := range values {
		if n.IsInt64() && n.Int64() == v {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s: %w %s", field, ErrUnhandledEnumValue, n)
}

func readOID(s *cryptobyte.String, field string) (encoding_asn1.ObjectIdentifier, error) {
	if err := peek(s, asn1.OBJECT_IDENTIFIER, field); err != nil {
		return nil, err
	}
	var oid encoding_asn1.ObjectIdentifier
	if !s.ReadASN1ObjectIdentifier(&oid) {
		return nil, fieldErr(field, ErrMalformed)
	}
	return oid, nil
}

func readOctets(s *cryptobyte.String, field string) ([]byte, error) {
	body, err := readElement(s, asn1.OCTET_STRING, field)
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// readSequence reads der as exactly one SEQUENCE.
func readSequence(der []byte, name string) (cryptobyte.String, error) {
	input := cryptobyte.String(der)
	seq, err := readElement(&input, asn1.SEQUENCE, name)
	if err != nil {
		return nil, err
	}
	if !input.Empty() {
		return nil, fieldErr(name, ErrTrailingData)
	}
	return seq, nil
}

func expectEmpty(s cryptobyte.String, name string) error {
	if !s.Empty() {
		return fieldErr(name, ErrTrailingData)
	}
	return nil
}

func readIntegers(s *cryptobyte.String, fields []string, out ...**big.Int) error {
	for i, field := range fields {
		n, err := readInteger(s, field)
		if err != nil {
			return err
		}
		*out[i] = n
	}
	return nil
}

func checkIntegers(name string, fields []string, ints ...*big.Int) error {
	for i, n := range ints {
		if n == nil {
			return fmt.Errorf("%s.%s: %w", name, fields[i], ErrMissingField)
		}
	}
	return nil
}

var rsaPublicFields = []string{"modulus", "publicExponent"}

// ParseRSAPublicKey decodes a DER RSAPublicKey.
//
// It returns the key and an error if any, otherwise it returns nil.
func ParseRSAPublicKey(der []byte) (*RSAPublicKey, error) {
	seq, err := readSequence(der, "RSAPublicKey")
	if err != nil {
		return nil, err
	}
	k := &RSAPublicKey{}
	if err := readIntegers(&seq, rsaPublicFields, &k.Modulus, &k.PublicExponent); err != nil {
		return nil, err
	}
	if err := expectEmpty(seq, "RSAPublicKey"); err != nil {
		return nil, err
	}
	return k, nil
}

// Marshal encodes the key as DER.
func (k *RSAPublicKey) Marshal() ([]byte, error) {
	if err := checkIntegers("RSAPublicKey", rsaPublicFields, k.Modulus, k.PublicExponent); err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(k.Modulus)
		b.AddASN1BigInt(k.PublicExponent)
	})
	return b.Bytes()
}

var rsaPrivateFields = []string{"modulus", "publicExponent", "privateExponent",
	"prime1", "prime2", "exponent1", "exponent2", "coefficient"}

func (k *RSAPrivateKey) integers() []*big.Int {
	return []*big.Int{k.Modulus, k.PublicExponent, k.PrivateExponent,
		k.Prime1, k.Prime2, k.Exponent1, k.Exponent2, k.Coefficient}
}

// ParseRSAPrivateKey decodes a DER RSAPrivateKey.
//
// It returns the key and an error if any, otherwise it returns nil.
func ParseRSAPrivateKey(der []byte) (*RSAPrivateKey, error) {
	seq, err := readSequence(der, "RSAPrivateKey")
	if err != nil {
		return nil, err
	}

	k := &RSAPrivateKey{}
	version, err := readEnum(&seq, "version", int64(RSATwoPrime), int64(RSAMulti))
	if err != nil {
		return nil, err
	}
	k.Version = RSAVersion(version)

	if err := readIntegers(&seq, rsaPrivateFields, &k.Modulus, &k.PublicExponent,
		&k.PrivateExponent, &k.Prime1, &k.Prime2, &k.Exponent1, &k.Exponent2,
		&k.Coefficient); err != nil {
		return nil, err
	}

	if k.Version == RSAMulti && !seq.Empty() {
		var others cryptobyte.String
		if err := peek(&seq, asn1.SEQUENCE, "otherPrimeInfos"); err != nil {
			return nil, err
		}
		if !seq.ReadASN1Element(&others, asn1.SEQUENCE) {
			return nil, fieldErr("otherPrimeInfos", ErrMalformed)
		}
		k.OtherPrimeInfos = []byte(others)
	}
	if err := expectEmpty(seq, "RSAPrivateKey"); err != nil {
		return nil, err
	}
	return k, nil
}

// Marshal encodes the key as DER.
func (k *RSAPrivateKey) Marshal() ([]byte, error) {
	if k.Version != RSATwoPrime && k.Version != RSAMulti {
		return nil, fmt.Errorf("version: %w %d", ErrUnhandledEnumValue, int(k.Version))
	}
	if err := checkIntegers("RSAPrivateKey", rsaPrivateFields, k.integers()...); err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(int64(k.Version))
		for _, n := range k.integers() {
			b.AddASN1BigInt(n)
		}
		if k.Version == RSAMulti && len(k.OtherPrimeInfos) > 0 {
			b.AddBytes(k.OtherPrimeInfos)
		}
	})
	return b.Bytes()
}

func parseAlgorithmIdentifier(s *cryptobyte.String) (AlgorithmIdentifier, error) {
	var alg AlgorithmIdentifier
	seq, err := readElement(s, asn1.SEQUENCE, "privateKeyAlgorithm")
	if err != nil {
		return alg, err
	}
	if alg.Algorithm, err = readOID(&seq, "algorithm"); err != nil {
		return alg, err
	}
	if seq.Empty() {
		return alg, nil
	}

	switch {
	case seq.PeekASN1Tag(asn1.NULL):
		var body cryptobyte.String
		if !seq.ReadASN1(&body, asn1.NULL) || !body.Empty() {
			return alg, fieldErr("parameters", ErrMalformed)
		}
		alg.Parameters = Null{}
	case seq.PeekASN1Tag(asn1.INTEGER):
		alg.Parameters, err = readInteger(&seq, "parameters")
	case seq.PeekASN1Tag(asn1.OCTET_STRING):
		var octets []byte
		octets, err = readOctets(&seq, "parameters")
		alg.Parameters = OctetString(octets)
	case seq.PeekASN1Tag(asn1.OBJECT_IDENTIFIER):
		alg.Parameters, err = readOID(&seq, "parameters")
	default:
		err = fieldErr("parameters", ErrUnexpectedTag)
	}
	if err != nil {
		return alg, err
	}
	return alg, expectEmpty(seq, "AlgorithmIdentifier")
}

func (alg *AlgorithmIdentifier) marshal(b *cryptobyte.Builder) {
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(alg.Algorithm)
		switch p := alg.Parameters.(type) {
		case nil:
		case Null:
			b.AddASN1NULL()
		case *big.Int:
			b.AddASN1BigInt(p)
		case OctetString:
			b.AddASN1OctetString(p)
		case encoding_asn1.ObjectIdentifier:
			b.AddASN1ObjectIdentifier(p)
		default:
			b.SetError(fmt.Errorf("parameters: unsupported type %T", p))
		}
	})
}

// ParsePrivateKeyInfo decodes a DER PrivateKeyInfo.
//
// It returns the key and an error if any, otherwise it returns nil.
func ParsePrivateKeyInfo(der []byte) (*PrivateKeyInfo, error) {
	seq, err := readSequence(der, "PrivateKeyInfo")
	if err != nil {
		return nil, err
	}

	k := &PrivateKeyInfo{}
	if k.Version, err = readInteger(&seq, "version"); err != nil {
		return nil, err
	}
	if k.PrivateKeyAlgorithm, err = parseAlgorithmIdentifier(&seq); err != nil {
		return nil, err
	}
	if k.PrivateKey, err = readOctets(&seq, "privateKey"); err != nil {
		return nil, err
	}
	if err := expectEmpty(seq, "PrivateKeyInfo"); err != nil {
		return nil, err
	}
	return k, nil
}

// Marshal encodes the key as DER.
func (k *PrivateKeyInfo) Marshal() ([]byte, error) {
	if k.Version == nil {
		return nil, fmt.Errorf("PrivateKeyInfo.version: %w", ErrMissingField)
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(k.Version)
		k.PrivateKeyAlgorithm.marshal(b)
		b.AddASN1OctetString(k.PrivateKey)
	})
	return b.Bytes()
}

// ParseECPrivateKey decodes a DER ECPrivateKey.
//
// It returns the key and an error if any, otherwise it returns nil.
func ParseECPrivateKey(der []byte) (*ECPrivateKey, error) {
	seq, err := readSequence(der, "ECPrivateKey")
	if err != nil {
		return nil, err
	}

	k := &ECPrivateKey{}
	version, err := readEnum(&seq, "version", int64(ECPrivkeyVer1))
	if err != nil {
		return nil, err
	}
	k.Version = ECVersion(version)

	if k.PrivateKey, err = readOctets(&seq, "privateKey"); err != nil {
		return nil, err
	}

	if seq.PeekASN1Tag(tagECParameters) {
		params, err := readElement(&seq, tagECParameters, "parameters")
		if err != nil {
			return nil, err
		}
		if k.Parameters, err = readOID(&params, "parameters"); err != nil {
			return nil, err
		}
		if err := expectEmpty(params, "parameters"); err != nil {
			return nil, err
		}
	}

	if seq.PeekASN1Tag(tagECPublicKey) {
		public, err := readElement(&seq, tagECPublicKey, "publicKey")
		if err != nil {
			return nil, err
		}
		if err := peek(&public, asn1.BIT_STRING, "publicKey"); err != nil {
			return nil, err
		}
		var bits encoding_asn1.BitString
		if !public.ReadASN1BitString(&bits) || bits.BitLength%8 != 0 {
			return nil, fieldErr("publicKey", ErrMalformed)
		}
		k.PublicKey = bits.Bytes
		if err := expectEmpty(public, "publicKey"); err != nil {
			return nil, err
		}
	}

	if err := expectEmpty(seq, "ECPrivateKey"); err != nil {
		return nil, err
	}
	return k, nil
}

// Marshal encodes the key as DER.
func (k *ECPrivateKey) Marshal() ([]byte, error) {
	if k.Version != ECPrivkeyVer1 {
		return nil, fmt.Errorf("version: %w %d", ErrUnhandledEnumValue, int(k.Version))
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(int64(k.Version))
		b.AddASN1OctetString(k.PrivateKey)
		if k.Parameters != nil {
			b.AddASN1(tagECParameters, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(k.Parameters)
			})
		}
		if k.PublicKey != nil {
			b.AddASN1(tagECPublicKey, func(b *cryptobyte.Builder) {
				b.AddASN1BitString(k.PublicKey)
			})
		}
	})
	return b.Bytes()
}
