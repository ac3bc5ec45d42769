package kafka

import (
	"crypto/tls"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// Auth carries the optional SASL mechanism and TLS settings shared by
// producers and consumers. The zero value dials plaintext without SASL.
type Auth struct {
	SASL sasl.Mechanism
	TLS  *tls.Config
}

// PlainAuth builds SASL PLAIN auth. Event Hubs requires TLS on top of it.
func PlainAuth(username, password string, useTLS bool) Auth {
	a := Auth{}
	if username != "" {
		a.SASL = plain.Mechanism{Username: username, Password: password}
	}
	if useTLS {
		a.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return a
}

func (a Auth) transport(dialTimeout time.Duration) *kafka.Transport {
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	return &kafka.Transport{
		DialTimeout: dialTimeout,
		SASL:        a.SASL,
		TLS:         a.TLS,
	}
}

func (a Auth) dialer(timeout time.Duration) *kafka.Dialer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &kafka.Dialer{
		Timeout:       timeout,
		DualStack:     true,
		SASLMechanism: a.SASL,
		TLS:           a.TLS,
	}
}
