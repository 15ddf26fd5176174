// Package id generates sortable identifiers in Crockford base32.
//
// NewULID is used for request ids, NewFormID for rendered form instances.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"strings"
	"time"
)

const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const (
	ulidLen    = 26
	ulidTSLen  = 10
	formIDLen  = 16
	formTSLen  = 6
	formTSMask = 1<<30 - 1
)

// NewULID returns a 26-character ULID: 48-bit millisecond timestamp
// followed by 80 random bits.
func NewULID() string {
	return newID(time.Now(), ulidLen, ulidTSLen, 10)
}

// NewFormID returns a 16-character id: the low 30 bits of the millisecond
// timestamp followed by 50 random bits. Short enough for a hidden input.
func NewFormID() string {
	return newID(time.Now(), formIDLen, formTSLen, 7)
}

func newID(now time.Time, size, tsChars, randBytes int) string {
	ms := uint64(now.UnixMilli())
	if size == formIDLen {
		ms &= formTSMask
	}

	buf := make([]byte, size)
	for i := tsChars - 1; i >= 0; i-- {
		buf[i] = crockfordBase32[ms&0x1F]
		ms >>= 5
	}

	random := make([]byte, randBytes)
	if _, err := rand.Read(random); err != nil {
		binary.BigEndian.PutUint64(random[:min(8, randBytes)], uint64(now.UnixNano()))
	}
	encodeBits(buf[tsChars:], random)
	return string(buf)
}

// encodeBits writes len(dst) 5-bit groups from src, most significant first.
func encodeBits(dst, src []byte) {
	var acc uint32
	var bits uint
	j := 0
	for _, b := range src {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 && j < len(dst) {
			bits -= 5
			dst[j] = crockfordBase32[(acc>>bits)&0x1F]
			j++
		}
	}
}

// ULIDTime returns the creation time encoded in a ULID.
func ULIDTime(s string) (time.Time, bool) {
	if len(s) != ulidLen {
		return time.Time{}, false
	}
	var ms uint64
	for _, c := range strings.ToUpper(s[:ulidTSLen]) {
		v := strings.IndexRune(crockfordBase32, c)
		if v < 0 {
			return time.Time{}, false
		}
		ms = ms<<5 | uint64(v)
	}
	return time.UnixMilli(int64(ms)), true
}

// Valid reports whether s looks like an id produced by this package.
func Valid(s string) bool {
	if len(s) != ulidLen && len(s) != formIDLen {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(crockfordBase32, c) {
			return false
		}
	}
	return true
}
