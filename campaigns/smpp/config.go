// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package smpp

import (
	"crypto/tls"
	"time"
)

// Config represents SMPP transmitter configuration.
type Config struct {
	Address         string        `env:"ADDRESS"          envDefault:""`
	Username        string        `env:"USERNAME"         envDefault:""`
	Password        string        `env:"PASSWORD"         envDefault:""`
	SystemType      string        `env:"SYSTEM_TYPE"      envDefault:""`
	SourceAddrTON   uint8         `env:"SRC_ADDR_TON"     envDefault:"5"`
	SourceAddrNPI   uint8         `env:"SRC_ADDR_NPI"     envDefault:"0"`
	DestAddrTON     uint8         `env:"DST_ADDR_TON"     envDefault:"1"`
	DestAddrNPI     uint8         `env:"DST_ADDR_NPI"     envDefault:"1"`
	RespTimeout     time.Duration `env:"RESP_TIMEOUT"     envDefault:"3s"`
	Validity        time.Duration `env:"VALIDITY"         envDefault:"10m"`
	Retries         uint64        `env:"RETRIES"          envDefault:"3"`
	DeliveryReceipt bool          `env:"DELIVERY_RECEIPT" envDefault:"false"`
	TLS             *tls.Config
}
