package model

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// RemoteConfig configures a model served over HTTP.
type RemoteConfig struct {
	Endpoint string
	Kind     Kind
	Targets  []string
	Timeout  time.Duration
	// Cache is optional; when set, predictions are memoized by request
	// digest.
	Cache *PredictionCache
	// Metrics is optional; when set, scoring latency is observed.
	Metrics MetricsObserver
}

// MetricsObserver is the metrics surface the remote model reports to.
type MetricsObserver interface {
	PredictionLatencyObserve(seconds float64)
}

// Remote calls an HTTP inference endpoint to score rows. The wire format
// matches a plain JSON scoring service: POST {"rows": [[...]]} returning
// {"predictions": [[...]]}.
type Remote struct {
	rest    *resty.Client
	cfg     RemoteConfig
	scorers *ScorerSet
}

type predictRequest struct {
	Rows [][]float64 `json:"rows"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// NewRemote builds a remote model client.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("model: remote endpoint is required")
	}

	r := resty.New()
	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	} else {
		r.SetTimeout(30 * time.Second) // default fallback
	}

	return &Remote{
		rest:    r,
		cfg:     cfg,
		scorers: DefaultScorers(cfg.Kind),
	}, nil
}

// Predict scores rows against the remote endpoint, consulting the
// prediction cache first when one is configured.
func (m *Remote) Predict(rows [][]float64) ([][]float64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("model: no rows to predict")
	}
	for r, row := range rows {
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("model: row %d column %d is not finite: %v", r, c, v)
			}
		}
	}

	digest := rowsDigest(rows)
	if m.cfg.Cache != nil {
		cached, err := m.cfg.Cache.Get(digest)
		if err != nil {
			log.Warn().Err(err).Msg("prediction cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	start := time.Now()
	resp := &predictResponse{}
	httpResp, err := m.rest.R().
		SetBody(predictRequest{Rows: rows}).
		SetResult(resp).
		Post(m.cfg.Endpoint)
	if m.cfg.Metrics != nil {
		m.cfg.Metrics.PredictionLatencyObserve(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("model: remote predict: %w", err)
	}
	if httpResp.IsError() {
		return nil, fmt.Errorf("model: remote predict: %s returned %s", m.cfg.Endpoint, httpResp.Status())
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("model: remote predict: %s", resp.Error)
	}
	if len(resp.Predictions) != len(rows) {
		return nil, fmt.Errorf("model: remote returned %d predictions for %d rows", len(resp.Predictions), len(rows))
	}

	if m.cfg.Cache != nil {
		if err := m.cfg.Cache.Put(digest, resp.Predictions); err != nil {
			log.Warn().Err(err).Msg("prediction cache write failed")
		}
	}

	return resp.Predictions, nil
}

// TargetNames returns the configured class names.
func (m *Remote) TargetNames() []string {
	return append([]string(nil), m.cfg.Targets...)
}

// Scorers returns the scorer registry for the configured model kind.
func (m *Remote) Scorers() *ScorerSet {
	return m.scorers
}

// rowsDigest hashes the exact bit patterns of the row values, so two
// requests collide only when their inputs are identical.
func rowsDigest(rows [][]float64) string {
	h := sha256.New()
	var buf [8]byte
	for _, row := range rows {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
		h.Write([]byte{0xff}) // row separator
	}
	return hex.EncodeToString(h.Sum(nil))
}
