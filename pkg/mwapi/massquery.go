package mwapi

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// MassQuery partitions the values of one or more designated list-valued
// parameters into chunks bounded by the client's privilege level and
// issues one request per chunk. Every designated field must carry the
// same number of values; chunks are cut in lockstep, so the i-th value
// of each field always travels in the same request. The result holds
// one response per chunk, in chunk order, with nil marking a failed
// chunk; per-chunk failures are combined into the returned error and
// never abort the remaining chunks.
func (c *Client) MassQuery(ctx context.Context, params Params, fields map[string][]string) ([]QueryResponse, error) {
	if len(fields) == 0 {
		return nil, errors.New("no batch fields given")
	}
	total := -1
	for name, values := range fields {
		if total == -1 {
			total = len(values)
			continue
		}
		if len(values) != total {
			return nil, errors.Errorf("batch field %q has %d values, other fields have %d", name, len(values), total)
		}
	}

	limit := c.BatchLimit()
	responses := make([]QueryResponse, 0, (total+limit-1)/limit)
	var errs error
	for start := 0; start < total; start += limit {
		end := min(start+limit, total)

		chunk := Params{}
		for k, v := range params {
			chunk[k] = v
		}
		for name, values := range fields {
			chunk[name] = strings.Join(values[start:end], "|")
		}

		resp, err := c.Request(ctx, chunk)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("chunk starting at %d: %w", start, err))
			responses = append(responses, nil)
			continue
		}
		responses = append(responses, resp)
	}
	return responses, errs
}
