package model

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const predictionsBucket = "predictions"

// PredictionCache persists model predictions keyed by a digest of the
// request, so repeated importance runs against the same remote model do
// not re-score identical inputs. It never stores importance results.
type PredictionCache struct {
	db *bbolt.DB
}

// NewPredictionCache opens (or creates) the cache database under dataPath.
func NewPredictionCache(dataPath string) (*PredictionCache, error) {
	dbPath := filepath.Join(dataPath, "featimp-predictions.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("model: open prediction cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(predictionsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("model: create predictions bucket: %w", err)
	}

	return &PredictionCache{db: db}, nil
}

// Close releases the underlying database.
func (c *PredictionCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get returns the cached predictions for a request digest, or nil when the
// digest has not been seen.
func (c *PredictionCache) Get(digest string) ([][]float64, error) {
	var preds [][]float64
	err := c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(predictionsBucket)).Get([]byte(digest))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &preds)
	})
	if err != nil {
		return nil, fmt.Errorf("model: read prediction cache: %w", err)
	}
	return preds, nil
}

// Put stores predictions under a request digest.
func (c *PredictionCache) Put(digest string, predictions [][]float64) error {
	data, err := json.Marshal(predictions)
	if err != nil {
		return fmt.Errorf("model: marshal predictions: %w", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(predictionsBucket)).Put([]byte(digest), data)
	})
}
