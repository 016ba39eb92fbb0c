// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dertool

import (
	"bytes"
	encoding_asn1 "encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Kinds of structure understood by Decode.
const (
	TypeRSAPublic  = "rsa-public"
	TypeRSAPrivate = "rsa-private"
	TypePKCS8      = "pkcs8"
	TypeEC         = "ec-private"
)

// Types lists the structure kinds in the order they are tried on raw DER.
var Types = []string{TypeRSAPublic, TypeRSAPrivate, TypeEC, TypePKCS8}

// ErrRoundTrip is returned when re-encoding a structure does not give back
// its input.
var ErrRoundTrip = errors.New("re-encoding does not reproduce the input")

var pemTypes = map[string]string{
	"RSA PUBLIC KEY":  TypeRSAPublic,
	"RSA PRIVATE KEY": TypeRSAPrivate,
	"PRIVATE KEY":     TypePKCS8,
	"EC PRIVATE KEY":  TypeEC,
}

var oidNames = map[string]string{
	OIDMD5.String():           "id-md5",
	OIDRSAEncryption.String(): "rsaEncryption",
	OIDECPublicKey.String():   "id-ecPublicKey",
	OIDPrime256v1.String():    "id-prime256v1",
}

// Structure is a decoded DER structure.
type Structure interface {
	Marshal() ([]byte, error)
}

// Unwrap returns the DER content of input and the kind of structure named
// by its PEM header, if input is PEM.
func Unwrap(input []byte) (der []byte, typ string) {
	block, _ := pem.Decode(input)
	if block == nil {
		return input, ""
	}
	return block.Bytes, pemTypes[block.Type]
}

// Parse decodes der as a structure of kind typ.
//
// It returns the structure and an error if any, otherwise it returns nil.
func Parse(der []byte, typ string) (Structure, error) {
	switch typ {
	case TypeRSAPublic:
		return ParseRSAPublicKey(der)
	case TypeRSAPrivate:
		return ParseRSAPrivateKey(der)
	case TypePKCS8:
		return ParsePrivateKeyInfo(der)
	case TypeEC:
		return ParseECPrivateKey(der)
	}
	return nil, fmt.Errorf("unknown structure type %q (one of %s)", typ,
		strings.Join(Types, ", "))
}

// Decode decodes PEM or DER input. When typ is empty, the kind comes from
// the PEM header or else the first kind of Types which decodes. The decoded
// structure must re-encode to the same bytes.
//
// It returns the structure, its kind and an error if any, otherwise it
// returns nil.
func Decode(input []byte, typ string) (Structure, string, error) {
	der, pemType := Unwrap(input)
	if typ == "" {
		typ = pemType
	}

	var (
		st  Structure
		err error
	)
	if typ != "" {
		st, err = Parse(der, typ)
	} else {
		for _, t := range Types {
			if st, err = Parse(der, t); err == nil {
				typ = t
				break
			}
		}
	}
	if err != nil {
		return nil, "", err
	}

	out, err := st.Marshal()
	if err != nil {
		return nil, "", err
	}
	if !bytes.Equal(out, der) {
		return nil, "", ErrRoundTrip
	}
	return st, typ, nil
}

type printer struct {
	w     io.Writer
	depth int
}

func (p *printer) line(format string, v ...interface{}) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.depth), fmt.Sprintf(format, v...))
}

func (p *printer) field(name string, value interface{}) {
	p.line("%s: %s", name, formatValue(value))
}

func (p *printer) nested(name string, f func()) {
	p.line("%s", name)
	p.depth++
	f()
	p.depth--
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case *big.Int:
		if v.IsInt64() && v.Int64() < 1<<16 && v.Int64() > -(1<<16) {
			return v.String()
		}
		return "0x" + v.Text(16)
	case []byte:
		return hex.EncodeToString(v)
	case OctetString:
		return hex.EncodeToString(v)
	case Null:
		return "NULL"
	case encoding_asn1.ObjectIdentifier:
		if name, ok := oidNames[v.String()]; ok {
			return name + " (" + v.String() + ")"
		}
		return v.String()
	}
	return fmt.Sprint(v)
}

// Dump prints st as an indented tree. Inner keys of a PrivateKeyInfo whose
// algorithm is known are decoded too.
func Dump(w io.Writer, st Structure) error {
	p := &printer{w: w}
	return p.dump(st)
}

func (p *printer) dump(st Structure) error {
	var err error
	switch k := st.(type) {
	case *RSAPublicKey:
		p.nested("RSAPublicKey", func() {
			p.field("modulus", k.Modulus)
			p.field("publicExponent", k.PublicExponent)
		})
	case *RSAPrivateKey:
		p.nested("RSAPrivateKey", func() {
			p.field("version", k.Version)
			for i, n := range k.integers() {
				p.field(rsaPrivateFields[i], n)
			}
			if len(k.OtherPrimeInfos) > 0 {
				p.field("otherPrimeInfos", k.OtherPrimeInfos)
			}
		})
	case *ECPrivateKey:
		p.nested("ECPrivateKey", func() {
			p.field("version", k.Version)
			p.field("privateKey", k.PrivateKey)
			if k.Parameters != nil {
				p.field("parameters", k.Parameters)
			}
			if k.PublicKey != nil {
				p.field("publicKey", k.PublicKey)
			}
		})
	case *PrivateKeyInfo:
		p.nested("PrivateKeyInfo", func() {
			p.field("version", k.Version)
			p.nested("privateKeyAlgorithm", func() {
				p.field("algorithm", k.PrivateKeyAlgorithm.Algorithm)
				if k.PrivateKeyAlgorithm.Parameters != nil {
					p.field("parameters", k.PrivateKeyAlgorithm.Parameters)
				}
			})
			inner, typ := k.inner()
			if inner == nil {
				p.field("privateKey", k.PrivateKey)
				return
			}
			p.nested("privateKey ("+typ+")", func() {
				err = p.dump(inner)
			})
		})
	default:
		return fmt.Errorf("cannot dump %T", st)
	}
	return err
}

// inner decodes the private key wrapped in k when its algorithm is known.
func (k *PrivateKeyInfo) inner() (Structure, string) {
	var typ string
	switch {
	case k.PrivateKeyAlgorithm.Algorithm.Equal(OIDECPublicKey):
		typ = TypeEC
	case k.PrivateKeyAlgorithm.Algorithm.Equal(OIDRSAEncryption):
		typ = TypeRSAPrivate
	default:
		return nil, ""
	}
	st, err := Parse(k.PrivateKey, typ)
	if err != nil {
		return nil, ""
	}
	return st, typ
}
