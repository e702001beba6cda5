// Package token implements the signed session tokens handed to students
// on a successful join. The format is deliberately compact:
//
//	base64url(courseID:studentDBID:studentID:expiry) "." base64url(HMAC-SHA256)
//
// The token is opaque to the holder and carries no secrets.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TTL bounds a token's life. Decode rejects expired tokens, so a client
// holding one past this window is forced back through the join flow.
const TTL = 24 * time.Hour

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token expired")
)

type Claims struct {
	CourseID    uint
	StudentDBID uint
	StudentID   string
	ExpiresAt   time.Time
}

type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

func (c *Codec) Issue(courseID, studentDBID uint, studentID string) string {
	expiry := c.now().Add(TTL).Unix()
	payload := []byte(fmt.Sprintf("%d:%d:%s:%d", courseID, studentDBID, studentID, expiry))
	return encode(payload) + "." + encode(c.sign(payload))
}

// Decode verifies the signature, the payload shape and the expiry. Every
// failure apart from expiry collapses to ErrInvalid so nothing leaks about
// which check tripped.
func (c *Codec) Decode(tok string) (*Claims, error) {
	payload, sig, err := split(tok)
	if err != nil {
		return nil, ErrInvalid
	}
	if !hmac.Equal(sig, c.sign(payload)) {
		return nil, ErrInvalid
	}
	claims, err := parse(payload)
	if err != nil {
		return nil, ErrInvalid
	}
	if c.now().After(claims.ExpiresAt) {
		return nil, ErrExpired
	}
	return claims, nil
}

// PeekCourseID pulls the course id out of a token without verifying it.
// It exists to route a socket to the right session before the full Decode;
// it must never be treated as a trust decision.
func PeekCourseID(tok string) (uint, error) {
	payload, _, err := split(tok)
	if err != nil {
		return 0, ErrInvalid
	}
	fields := strings.Split(string(payload), ":")
	if len(fields) != 4 {
		return 0, ErrInvalid
	}
	courseID, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	return uint(courseID), nil
}

func (c *Codec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

func split(tok string) (payload, sig []byte, err error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 2 {
		return nil, nil, ErrInvalid
	}
	if payload, err = base64.RawURLEncoding.DecodeString(parts[0]); err != nil {
		return nil, nil, ErrInvalid
	}
	if sig, err = base64.RawURLEncoding.DecodeString(parts[1]); err != nil {
		return nil, nil, ErrInvalid
	}
	return payload, sig, nil
}

func parse(payload []byte) (*Claims, error) {
	fields := strings.Split(string(payload), ":")
	if len(fields) != 4 {
		return nil, ErrInvalid
	}
	courseID, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return nil, ErrInvalid
	}
	dbID, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, ErrInvalid
	}
	expiry, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, ErrInvalid
	}
	return &Claims{
		CourseID:    uint(courseID),
		StudentDBID: uint(dbID),
		StudentID:   fields[2],
		ExpiresAt:   time.Unix(expiry, 0),
	}, nil
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
