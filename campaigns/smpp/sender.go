// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package smpp contains an SMPP implementation of the campaign message
// sender.
package smpp

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/cenkalti/backoff/v4"
	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/pkg/errors"
	svcerr "github.com/dairylink/outreach/pkg/errors/service"
	"github.com/dairylink/outreach/segments"
	"github.com/fiorix/go-smpp/smpp"
	"github.com/fiorix/go-smpp/smpp/pdu/pdufield"
	"github.com/fiorix/go-smpp/smpp/pdu/pdutext"
)

var _ campaigns.Sender = (*sender)(nil)

const (
	// udhi marks a short message whose payload starts with a user data header.
	udhi     = 0x40
	maxParts = 255
)

// ErrTooManyParts indicates a message longer than a concatenation header
// can number.
var ErrTooManyParts = errors.New("message has more than 255 parts")

// Transmitter submits short messages to an SMSC. It is satisfied by
// *smpp.Transmitter.
type Transmitter interface {
	Submit(sm *smpp.ShortMessage) (*smpp.ShortMessage, error)
}

type sender struct {
	transmitter Transmitter
	cfg         Config
	ref         atomic.Uint32
}

// New binds an SMPP transmitter and returns a sender using it, along with
// the transmitter so the caller can close it. Connection status changes are
// logged as the transmitter reconnects.
func New(cfg Config, logger *slog.Logger) (campaigns.Sender, *smpp.Transmitter) {
	t := &smpp.Transmitter{
		Addr:        cfg.Address,
		User:        cfg.Username,
		Passwd:      cfg.Password,
		SystemType:  cfg.SystemType,
		RespTimeout: cfg.RespTimeout,
		TLS:         cfg.TLS,
	}
	status := t.Bind()
	go func() {
		for s := range status {
			if err := s.Error(); err != nil {
				logger.Warn("SMPP connection status changed", slog.String("status", s.Status().String()), slog.Any("error", err))
				continue
			}
			logger.Info("SMPP connection status changed", slog.String("status", s.Status().String()))
		}
	}()

	return NewSender(t, cfg), t
}

// NewSender returns a sender submitting through t.
func NewSender(t Transmitter, cfg Config) campaigns.Sender {
	return &sender{transmitter: t, cfg: cfg}
}

// Send submits msg as one PDU per part. Multipart messages carry a
// concatenation header with an 8-bit reference, so every part fits the
// part limit the estimate was computed with.
func (s *sender) Send(ctx context.Context, msg campaigns.Message) error {
	pdus, err := s.pdus(msg)
	if err != nil {
		return errors.Wrap(svcerr.ErrSend, err)
	}
	for _, sm := range pdus {
		if err := s.submit(ctx, sm); err != nil {
			return errors.Wrap(svcerr.ErrSend, err)
		}
	}

	return nil
}

func (s *sender) submit(ctx context.Context, sm *smpp.ShortMessage) error {
	submit := func() error {
		_, err := s.transmitter.Submit(sm)
		if err == nil {
			return nil
		}
		if transient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.cfg.Retries), ctx)
	return backoff.Retry(submit, b)
}

func (s *sender) pdus(msg campaigns.Message) ([]*smpp.ShortMessage, error) {
	if len(msg.Parts) <= 1 {
		return []*smpp.ShortMessage{s.short(msg, encode(msg.Estimate.Encoding, msg.Body))}, nil
	}
	total := len(msg.Parts)
	if total > maxParts {
		return nil, ErrTooManyParts
	}

	ref := byte(s.ref.Add(1))
	pdus := make([]*smpp.ShortMessage, 0, total)
	for i, part := range msg.Parts {
		sm := s.short(msg, concatenated{
			Codec:  encode(msg.Estimate.Encoding, part),
			header: []byte{0x05, 0x00, 0x03, ref, byte(total), byte(i + 1)},
		})
		sm.ESMClass = udhi
		pdus = append(pdus, sm)
	}

	return pdus, nil
}

func (s *sender) short(msg campaigns.Message, text pdutext.Codec) *smpp.ShortMessage {
	sm := &smpp.ShortMessage{
		Src:           msg.From,
		Dst:           msg.To,
		Validity:      s.cfg.Validity,
		SourceAddrTON: s.cfg.SourceAddrTON,
		DestAddrTON:   s.cfg.DestAddrTON,
		SourceAddrNPI: s.cfg.SourceAddrNPI,
		DestAddrNPI:   s.cfg.DestAddrNPI,
		Text:          text,
		Register:      pdufield.NoDeliveryReceipt,
	}
	if s.cfg.DeliveryReceipt {
		sm.Register = pdufield.FinalDeliveryReceipt
	}

	return sm
}

func encode(enc segments.Encoding, text string) pdutext.Codec {
	if enc == segments.UCS2 {
		return pdutext.UCS2(text)
	}
	return pdutext.GSM7(text)
}

// concatenated prefixes the encoded part with its user data header.
type concatenated struct {
	pdutext.Codec
	header []byte
}

func (c concatenated) Encode() []byte {
	return append(append([]byte{}, c.header...), c.Codec.Encode()...)
}

// transient reports whether a submission may succeed once the transmitter
// has rebound.
func transient(err error) bool {
	switch err {
	case smpp.ErrNotConnected, smpp.ErrNotBound, smpp.ErrTimeout, smpp.ErrMaxWindowSize:
		return true
	default:
		return false
	}
}
