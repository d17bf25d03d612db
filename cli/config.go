// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"os"
	"strconv"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/pkg/errors"
	"github.com/dairylink/outreach/pricing"
	"github.com/dairylink/outreach/segments"
	"github.com/pelletier/go-toml"
)

type pricingConfig struct {
	Price    string `toml:"price"`
	Currency string `toml:"currency"`
}

type reviewConfig struct {
	Blocked []string `toml:"blocked"`
	Flagged []string `toml:"flagged"`
}

type config struct {
	Policy    string        `toml:"policy"`
	Pricing   pricingConfig `toml:"pricing"`
	Review    reviewConfig  `toml:"review"`
	RawOutput string        `toml:"raw_output"`
}

// Readable by all user groups but writeable by the user only.
const filePermission = 0o644

var (
	errReadFail       = errors.New("failed to read config file")
	errWritingConfig  = errors.New("error in writing the default config to file")
	defaultConfigPath = "./outreach.toml"
)

func read(file string) (config, error) {
	c := config{}
	data, err := os.Open(file)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}
	defer data.Close()

	buf, err := io.ReadAll(data)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}

	if err := toml.Unmarshal(buf, &c); err != nil {
		return config{}, errors.Wrap(errReadFail, err)
	}

	return c, nil
}

// ParseConfig parses the config file, creating it with default values if it
// does not exist, and returns the service settings. Policy, Price and
// Currency flags take precedence over the file.
func ParseConfig() (campaigns.Config, error) {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}

	def := campaigns.DefaultReviewer()
	_, err := os.Stat(ConfigPath)
	switch {
	// If the file does not exist, create it with default values.
	case os.IsNotExist(err):
		rate := pricing.DefaultRate()
		defaultConfig := config{
			Policy: segments.ASCII.String(),
			Pricing: pricingConfig{
				Price:    majorPrice(rate),
				Currency: rate.PerSegment.Currency,
			},
			Review: reviewConfig{
				Blocked: def.Blocked,
				Flagged: def.Flagged,
			},
		}
		buf, err := toml.Marshal(defaultConfig)
		if err != nil {
			return campaigns.Config{}, err
		}
		if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
			return campaigns.Config{}, errors.Wrap(errWritingConfig, err)
		}
	case err != nil:
		return campaigns.Config{}, err
	}

	c, err := read(ConfigPath)
	if err != nil {
		return campaigns.Config{}, err
	}

	if c.RawOutput != "" {
		rawOutput, err := strconv.ParseBool(c.RawOutput)
		if err != nil {
			return campaigns.Config{}, err
		}
		RawOutput = RawOutput || rawOutput
	}

	policy, err := segments.ToPolicy(pick(Policy, c.Policy))
	if err != nil {
		return campaigns.Config{}, err
	}

	rate := pricing.DefaultRate()
	price, currency := pick(Price, c.Pricing.Price), pick(Currency, c.Pricing.Currency)
	if price != "" || currency != "" {
		if price == "" {
			price = majorPrice(rate)
		}
		if rate, err = pricing.NewRate(price, currency); err != nil {
			return campaigns.Config{}, err
		}
	}

	reviewer := def
	if len(c.Review.Blocked) > 0 {
		reviewer.Blocked = c.Review.Blocked
	}
	if len(c.Review.Flagged) > 0 {
		reviewer.Flagged = c.Review.Flagged
	}

	return campaigns.Config{
		Policy:   policy.Or(segments.ASCII),
		Rate:     rate,
		Reviewer: reviewer,
	}, nil
}

func pick(flag, file string) string {
	if flag != "" {
		return flag
	}
	return file
}

func majorPrice(r pricing.Rate) string {
	return strconv.FormatFloat(r.PerSegment.Major(), 'f', 2, 64)
}
