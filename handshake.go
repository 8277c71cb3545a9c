package pgwire

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/nyxdb/pgwire/pkg/types"
)

// Handshake sends the StartupMessage, runs the authentication loop, and
// consumes the post-auth stream of BackendKeyData/ParameterStatus messages
// up to the first ReadyForQuery. It runs exactly once per Conn.
func (c *Conn) Handshake(ctx context.Context, cfg Config) error {
	if c.handshakeDone {
		return usageErr("handshake has already completed")
	}
	if c.closed {
		return usageErr("connection is closed")
	}

	if err := c.sendStartup(cfg); err != nil {
		c.closed = true
		return err
	}

	if err := c.authLoop(ctx, cfg); err != nil {
		c.closed = true
		return err
	}

	if err := c.postAuthLoop(ctx); err != nil {
		c.closed = true
		return err
	}

	c.handshakeDone = true
	return nil
}

// sendStartup builds and flushes the untagged StartupMessage: a protocol
// version followed by zero-terminated (name, value) pairs, terminated by a
// single 0 byte.
func (c *Conn) sendStartup(cfg Config) error {
	var body bytes.Buffer

	var version [4]byte
	binary.BigEndian.PutUint32(version[:], uint32(types.Version30))
	body.Write(version[:])

	pair := func(name, value string) {
		body.WriteString(name)
		body.WriteByte(0)
		body.WriteString(value)
		body.WriteByte(0)
	}

	pair("user", cfg.User)
	if cfg.Database != "" {
		pair("database", cfg.Database)
	}
	if cfg.ApplicationName != "" {
		pair("application_name", cfg.ApplicationName)
	}
	pair("client_encoding", "UTF8")
	pair("datestyle", "ISO, YMD")
	body.WriteByte(0)

	c.enc.WriteUntyped(body.Bytes())
	return c.flush()
}

// authLoop reads AuthenticationRequest messages until sub-type 0 (OK)
// arrives, responding to cleartext and MD5 challenges as they're received.
func (c *Conn) authLoop(ctx context.Context, cfg Config) error {
	for {
		t, fr, err := c.readMessage(ctx)
		if err != nil {
			return err
		}

		if t != types.ServerAuth {
			return protocolErr(fmt.Sprintf("expected AuthenticationRequest, got %q", t))
		}

		sub, err := fr.GetInt32()
		if err != nil {
			return protocolErr(err.Error())
		}

		switch types.AuthType(sub) {
		case types.AuthOK:
			return nil
		case types.AuthCleartext:
			if err := c.sendPassword(cfg.Password); err != nil {
				return err
			}
		case types.AuthMD5:
			salt, err := fr.GetBytes(4)
			if err != nil {
				return protocolErr(err.Error())
			}

			if err := c.sendPassword(md5Password(cfg.User, cfg.Password, salt)); err != nil {
				return err
			}
		default:
			return pgAuthErr(fmt.Sprintf("unsupported authentication kind %d", sub))
		}
	}
}

// sendPassword writes and flushes a PasswordMessage carrying text.
func (c *Conn) sendPassword(text string) error {
	c.msg.Start(types.ClientPassword)
	c.msg.AddString(text)
	c.msg.AddNullTerminate()

	if err := c.send(c.msg); err != nil {
		return err
	}

	return c.flush()
}

// postAuthLoop consumes BackendKeyData and ParameterStatus messages until
// ReadyForQuery, recording the resulting transaction status.
func (c *Conn) postAuthLoop(ctx context.Context) error {
	for {
		t, fr, err := c.readMessage(ctx)
		if err != nil {
			return err
		}

		switch t {
		case types.ServerBackendKeyData:
			pid, err := fr.GetInt32()
			if err != nil {
				return protocolErr(err.Error())
			}
			secret, err := fr.GetInt32()
			if err != nil {
				return protocolErr(err.Error())
			}
			c.backendPID = pid
			c.backendKey = secret
		case types.ServerParameterStatus:
			key, err := fr.GetString()
			if err != nil {
				return protocolErr(err.Error())
			}
			value, err := fr.GetString()
			if err != nil {
				return protocolErr(err.Error())
			}
			c.params[key] = value
		case types.ServerReady:
			status, err := fr.GetByte()
			if err != nil {
				return protocolErr(err.Error())
			}
			c.txStatus = types.ServerStatus(status)
			return nil
		default:
			return protocolErr(fmt.Sprintf("unexpected message %q during post-auth handshake", t))
		}
	}
}
