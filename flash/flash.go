// Package flash carries one-shot notices across a redirect in an HS256 signed
// cookie, so a notice added before a redirect is shown on the next page only.
package flash

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	Success = "success"
	Danger  = "danger"

	cookieName = "flash"
	pendingKey = "flash.pending"
	ttl        = 5 * time.Minute
	issuer     = "student-records"
)

type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type claims struct {
	Messages []Message `json:"messages"`
	jwt.RegisteredClaims
}

// Codec signs and verifies flash cookies with the application secret key.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (f *Codec) encode(msgs []Message) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Messages: msgs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	})
	return token.SignedString(f.secret)
}

func (f *Codec) decode(s string) ([]Message, error) {
	token, err := jwt.ParseWithClaims(s, &claims{}, func(*jwt.Token) (interface{}, error) {
		return f.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid flash cookie")
	}
	cl, ok := token.Claims.(*claims)
	if !ok {
		return nil, errors.New("invalid flash claims")
	}
	return cl.Messages, nil
}

func (f *Codec) pending(c *gin.Context) []Message {
	if v, ok := c.Get(pendingKey); ok {
		return v.([]Message)
	}
	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return nil
	}
	msgs, err := f.decode(raw)
	if err != nil {
		return nil
	}
	return msgs
}

// Add queues a notice for the next rendered page.
func (f *Codec) Add(c *gin.Context, level, text string) error {
	msgs := append(f.pending(c), Message{Level: level, Text: text})
	c.Set(pendingKey, msgs)

	value, err := f.encode(msgs)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, value, int(ttl.Seconds()), "/", "", false, true)
	return nil
}

// Pop returns the queued notices and clears them. Invalid or expired cookies
// yield nothing.
func (f *Codec) Pop(c *gin.Context) []Message {
	msgs := f.pending(c)
	c.Set(pendingKey, []Message(nil))
	if _, err := c.Cookie(cookieName); err == nil || len(msgs) > 0 {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
	}
	return msgs
}
