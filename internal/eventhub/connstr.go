// Package eventhub turns an Azure Event Hubs connection string into the
// settings needed to reach the namespace over its Kafka-compatible endpoint.
package eventhub

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultKafkaPort is the Kafka endpoint port of an Event Hubs namespace.
	DefaultKafkaPort = 9093

	// SASLUsername is the fixed SASL PLAIN user; the password is the full connection string.
	SASLUsername = "$ConnectionString"
)

var (
	ErrInvalidConnectionString = errors.New("invalid event hub connection string")
	ErrMissingEventHub         = errors.New("event hub name is not set")
	ErrEntityPathMismatch      = errors.New("event hub name does not match connection string EntityPath")
)

// ConnectionInfo is a parsed connection string bound to one event hub.
type ConnectionInfo struct {
	Namespace   string // host, e.g. myns.servicebus.windows.net
	KeyName     string
	EntityPath  string
	EventHub    string // destination topic
	Broker      string // host:port
	Username    string
	Password    string
	HasSASToken bool
}

// Parse reads connStr and resolves the destination event hub.
// name wins when set; otherwise EntityPath is used. Both set and different is an error.
func Parse(connStr, name string, port int) (ConnectionInfo, error) {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return ConnectionInfo{}, fmt.Errorf("%w: empty", ErrInvalidConnectionString)
	}
	if port <= 0 {
		port = DefaultKafkaPort
	}

	var (
		endpoint, key, sas string
		info               ConnectionInfo
	)
	for _, part := range strings.Split(connStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return ConnectionInfo{}, fmt.Errorf("%w: malformed segment %q", ErrInvalidConnectionString, k)
		}
		v = strings.TrimSpace(v)
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "endpoint":
			endpoint = v
		case "sharedaccesskeyname":
			info.KeyName = v
		case "sharedaccesskey":
			key = v
		case "sharedaccesssignature":
			sas = v
		case "entitypath":
			info.EntityPath = v
		}
	}

	if endpoint == "" {
		return ConnectionInfo{}, fmt.Errorf("%w: missing Endpoint", ErrInvalidConnectionString)
	}
	host, err := endpointHost(endpoint)
	if err != nil {
		return ConnectionInfo{}, err
	}
	info.Namespace = host

	if sas == "" && (info.KeyName == "" || key == "") {
		return ConnectionInfo{}, fmt.Errorf("%w: missing SharedAccessKeyName or SharedAccessKey", ErrInvalidConnectionString)
	}
	info.HasSASToken = sas != ""

	name = strings.TrimSpace(name)
	switch {
	case name != "" && info.EntityPath != "" && name != info.EntityPath:
		return ConnectionInfo{}, fmt.Errorf("%w: name=%q entity_path=%q", ErrEntityPathMismatch, name, info.EntityPath)
	case name != "":
		info.EventHub = name
	case info.EntityPath != "":
		info.EventHub = info.EntityPath
	default:
		return ConnectionInfo{}, ErrMissingEventHub
	}

	info.Broker = net.JoinHostPort(host, strconv.Itoa(port))
	info.Username = SASLUsername
	info.Password = connStr

	return info, nil
}

// Redacted is safe to log: it never contains the key or signature.
func (c ConnectionInfo) Redacted() string {
	return fmt.Sprintf("Endpoint=sb://%s/;SharedAccessKeyName=%s;EventHub=%s", c.Namespace, c.KeyName, c.EventHub)
}

func endpointHost(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: endpoint: %v", ErrInvalidConnectionString, err)
	}
	host := u.Hostname()
	if host == "" {
		// bare host without scheme
		host = strings.Trim(strings.TrimPrefix(endpoint, "sb://"), "/")
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
	}
	if host == "" || strings.ContainsAny(host, "/ ") {
		return "", fmt.Errorf("%w: endpoint %q has no host", ErrInvalidConnectionString, endpoint)
	}

	return host, nil
}
