// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package smpp_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dairylink/outreach/campaigns"
	campsmpp "github.com/dairylink/outreach/campaigns/smpp"
	"github.com/dairylink/outreach/pkg/errors"
	svcerr "github.com/dairylink/outreach/pkg/errors/service"
	"github.com/dairylink/outreach/segments"
	"github.com/fiorix/go-smpp/smpp"
	"github.com/fiorix/go-smpp/smpp/pdu/pdufield"
	"github.com/fiorix/go-smpp/smpp/pdu/pdutext"
	"github.com/stretchr/testify/assert"
)

type transmitter struct {
	errs   []error
	short  []*smpp.ShortMessage
	called int
}

func (t *transmitter) next() error {
	t.called++
	if len(t.errs) == 0 {
		return nil
	}
	err := t.errs[0]
	t.errs = t.errs[1:]
	return err
}

func (t *transmitter) Submit(sm *smpp.ShortMessage) (*smpp.ShortMessage, error) {
	t.short = append(t.short, sm)
	return sm, t.next()
}

func TestSend(t *testing.T) {
	cfg := campsmpp.Config{
		SourceAddrTON: 5,
		DestAddrTON:   1,
		DestAddrNPI:   1,
		Retries:       1,
	}
	long := strings.Repeat("Milk collection starts at 6am. ", 7)

	cases := []struct {
		desc    string
		msg     campaigns.Message
		errs    []error
		short   int
		called  int
		unicode bool
		err     error
	}{
		{
			desc: "send a single segment message",
			msg: campaigns.Message{
				From:     "DairyCoop",
				To:       "+251911000001",
				Body:     "Milk collection starts at 6am.",
				Estimate: segments.ASCII.Estimate("Milk collection starts at 6am."),
			},
			short:  1,
			called: 1,
		},
		{
			desc: "send a multi segment message",
			msg: campaigns.Message{
				From:     "DairyCoop",
				To:       "+251911000001",
				Body:     long,
				Parts:    segments.ASCII.Split(long),
				Estimate: segments.ASCII.Estimate(long),
			},
			short:  2,
			called: 2,
		},
		{
			desc: "send a unicode message",
			msg: campaigns.Message{
				From:     "DairyCoop",
				To:       "+251911000001",
				Body:     "ወተት ነገ ይሰበሰባል",
				Estimate: segments.ASCII.Estimate("ወተት ነገ ይሰበሰባል"),
			},
			short:   1,
			called:  1,
			unicode: true,
		},
		{
			desc: "send after a transient failure",
			msg: campaigns.Message{
				From:     "DairyCoop",
				To:       "+251911000001",
				Body:     "Milk collection starts at 6am.",
				Estimate: segments.ASCII.Estimate("Milk collection starts at 6am."),
			},
			errs:   []error{smpp.ErrNotConnected},
			short:  2,
			called: 2,
		},
		{
			desc: "send with a permanent failure",
			msg: campaigns.Message{
				From:     "DairyCoop",
				To:       "+251911000001",
				Body:     "Milk collection starts at 6am.",
				Estimate: segments.ASCII.Estimate("Milk collection starts at 6am."),
			},
			errs:   []error{errors.New("invalid destination address")},
			short:  1,
			called: 1,
			err:    svcerr.ErrSend,
		},
		{
			desc: "send with retries exhausted",
			msg: campaigns.Message{
				From:     "DairyCoop",
				To:       "+251911000001",
				Body:     "Milk collection starts at 6am.",
				Estimate: segments.ASCII.Estimate("Milk collection starts at 6am."),
			},
			errs:   []error{smpp.ErrTimeout, smpp.ErrTimeout},
			short:  2,
			called: 2,
			err:    svcerr.ErrSend,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			tr := &transmitter{errs: tc.errs}
			s := campsmpp.NewSender(tr, cfg)

			err := s.Send(context.Background(), tc.msg)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
			assert.Equal(t, tc.called, tr.called)
			assert.Len(t, tr.short, tc.short)

			if len(tr.short) == 0 {
				return
			}
			sm := tr.short[0]
			assert.Equal(t, tc.msg.From, sm.Src)
			assert.Equal(t, tc.msg.To, sm.Dst)
			assert.Equal(t, cfg.SourceAddrTON, sm.SourceAddrTON)
			assert.Equal(t, cfg.DestAddrNPI, sm.DestAddrNPI)
			assert.Equal(t, pdufield.NoDeliveryReceipt, sm.Register)
			switch tc.unicode {
			case true:
				assert.Equal(t, pdutext.UCS2Type, sm.Text.Type())
			default:
				assert.Equal(t, pdutext.DefaultType, sm.Text.Type())
			}
		})
	}
}

func TestSendCancelled(t *testing.T) {
	tr := &transmitter{errs: []error{smpp.ErrNotConnected, smpp.ErrNotConnected}}
	s := campsmpp.NewSender(tr, campsmpp.Config{Retries: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, campaigns.Message{To: "+251911000001", Body: "hello"})
	assert.True(t, errors.Contains(err, svcerr.ErrSend), fmt.Sprintf("expected %s got %s\n", svcerr.ErrSend, err))
	assert.Equal(t, 1, tr.called)
}

func TestSendSubmitsOnePDUPerSegment(t *testing.T) {
	cases := []struct {
		desc    string
		body    string
		policy  segments.Policy
		payload int
	}{
		{
			desc:    "single latin segment",
			body:    "Milk collection starts at 6am.",
			policy:  segments.ASCII,
			payload: 153,
		},
		{
			desc:    "latin text filling three parts",
			body:    strings.Repeat("a", 459),
			policy:  segments.ASCII,
			payload: 153,
		},
		{
			desc:    "latin text spilling into a fourth part",
			body:    strings.Repeat("a", 460),
			policy:  segments.ASCII,
			payload: 153,
		},
		{
			desc:    "ethiopic text over one segment",
			body:    strings.Repeat("ወ", 134),
			policy:  segments.ASCII,
			payload: 134,
		},
		{
			desc:    "emoji text over one segment",
			body:    strings.Repeat("🐄", 40),
			policy:  segments.GSM0338,
			payload: 134,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			tr := &transmitter{}
			s := campsmpp.NewSender(tr, campsmpp.Config{})
			est := tc.policy.Estimate(tc.body)
			msg := campaigns.Message{
				To:       "+251911000001",
				Body:     tc.body,
				Parts:    tc.policy.Split(tc.body),
				Estimate: est,
			}

			err := s.Send(context.Background(), msg)
			assert.Nil(t, err, fmt.Sprintf("%s: unexpected error %s", tc.desc, err))
			assert.Len(t, tr.short, est.Segments, fmt.Sprintf("%s: expected %d PDUs got %d", tc.desc, est.Segments, len(tr.short)))
			if est.Segments == 1 {
				assert.Equal(t, uint8(0), tr.short[0].ESMClass)
				return
			}

			ref := tr.short[0].Text.Encode()[3]
			for i, sm := range tr.short {
				data := sm.Text.Encode()
				assert.Equal(t, uint8(0x40), sm.ESMClass, fmt.Sprintf("%s: part %d lacks the UDH indicator", tc.desc, i+1))
				assert.Equal(t, []byte{0x05, 0x00, 0x03, ref, byte(est.Segments), byte(i + 1)}, data[:6], fmt.Sprintf("%s: bad header on part %d", tc.desc, i+1))
				assert.LessOrEqual(t, len(data)-6, tc.payload, fmt.Sprintf("%s: part %d exceeds %d bytes", tc.desc, i+1, tc.payload))
				assert.Equal(t, est.Encoding == segments.UCS2, sm.Text.Type() == pdutext.UCS2Type)
			}
		})
	}
}

func TestSendUsesFreshReference(t *testing.T) {
	tr := &transmitter{}
	s := campsmpp.NewSender(tr, campsmpp.Config{})
	body := strings.Repeat("a", 200)
	msg := campaigns.Message{To: "+251911000001", Body: body, Parts: segments.ASCII.Split(body), Estimate: segments.ASCII.Estimate(body)}

	assert.Nil(t, s.Send(context.Background(), msg))
	assert.Nil(t, s.Send(context.Background(), msg))
	assert.Len(t, tr.short, 4)
	assert.Equal(t, tr.short[0].Text.Encode()[3], tr.short[1].Text.Encode()[3])
	assert.NotEqual(t, tr.short[0].Text.Encode()[3], tr.short[2].Text.Encode()[3])
}

func TestSendTooManyParts(t *testing.T) {
	tr := &transmitter{}
	s := campsmpp.NewSender(tr, campsmpp.Config{})
	parts := make([]string, 256)
	for i := range parts {
		parts[i] = "a"
	}

	err := s.Send(context.Background(), campaigns.Message{To: "+251911000001", Parts: parts, Estimate: segments.Estimate{Segments: len(parts)}})
	assert.True(t, errors.Contains(err, campsmpp.ErrTooManyParts), fmt.Sprintf("expected %s got %s\n", campsmpp.ErrTooManyParts, err))
	assert.Equal(t, 0, tr.called)
}
