package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Chain tries an ordered list of providers and returns the first reading
// that succeeds. All failures are folded into a single FetchError.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c *Chain) Latest(ctx context.Context) (Reading, error) {
	if len(c.providers) == 0 {
		return Reading{}, &FetchError{Source: c.Name(), Err: errors.New("no providers configured")}
	}

	var failures []string
	for _, p := range c.providers {
		reading, err := p.Latest(ctx)
		if err != nil {
			log.Warnf("provider %s failed: %v", p.Name(), err)
			failures = append(failures, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}
		log.Infof("provider %s: %s -> %.4f", p.Name(), reading.Date.Format("2006-01-02"), reading.Value)
		return reading, nil
	}
	return Reading{}, &FetchError{
		Source: c.Name(),
		Err:    errors.New("all providers failed: " + strings.Join(failures, "; ")),
	}
}
