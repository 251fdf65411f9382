// SPDX-License-Identifier: GPL-3.0-or-later

package netx

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"sync"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
	"github.com/bassosimone/tlsstub"
)

// logRecords collects the records emitted through a capturing logger.
type logRecords struct {
	mu      sync.Mutex
	records []slog.Record
}

// messages returns the message of each record in emission order.
func (lr *logRecords) messages() (out []string) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	for _, record := range lr.records {
		out = append(out, record.Message)
	}
	return
}

// attr returns the value of key in the first record named msg.
func (lr *logRecords) attr(msg, key string) (value slog.Value, found bool) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	for _, record := range lr.records {
		if record.Message != msg {
			continue
		}
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == key {
				value, found = attr.Value, true
				return false
			}
			return true
		})
		return
	}
	return
}

// newCapturingLogger returns a logger recording every event at every level.
func newCapturingLogger() (*slog.Logger, *logRecords) {
	lr := &logRecords{}
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			lr.mu.Lock()
			lr.records = append(lr.records, record)
			lr.mu.Unlock()
			return nil
		},
	}
	return slog.New(handler), lr
}

// newMockTLSEngine returns an engine whose Client always returns conn.
func newMockTLSEngine(conn TLSConn) *tlsstub.FuncTLSEngine[TLSConn] {
	return &tlsstub.FuncTLSEngine[TLSConn]{
		ClientFunc: func(c net.Conn, config *tls.Config) TLSConn {
			return conn
		},
		NameFunc: func() string {
			return "mock"
		},
		ParrotFunc: func() string {
			return ""
		},
	}
}

// newMinimalConn returns a conn with only the address methods set, which
// is what [safeconn] needs to describe it.
func newMinimalConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		LocalAddrFunc: func() net.Addr {
			return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321}
		},
		RemoteAddrFunc: func() net.Addr {
			return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 2), Port: 443}
		},
	}
}
