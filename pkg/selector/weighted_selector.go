package selector

import (
	"crypto/rand"
	"math/big"

	"Pointspin-Backend/domain"
)

type (
	// Weighted pairs an item with its positive integer weight.
	Weighted[T any] struct {
		Item   T
		Weight int
	}

	// Source draws a uniform integer in [0, max). Spins use the
	// cryptographic source; tests inject deterministic ones.
	Source interface {
		IntN(max int) (int, error)
	}

	cryptoSource struct{}
)

// NewCryptoSource returns a Source backed by crypto/rand. Outcomes have
// direct economic value, so draws must not be predictable.
func NewCryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) IntN(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// Pick selects exactly one item from a weighted set. The roll lands in
// [1, total] and the first item whose cumulative weight reaches it wins,
// so callers must hand in the set in a stable order.
func Pick[T any](src Source, items []Weighted[T]) (T, error) {
	var zero T

	total := 0
	for _, entry := range items {
		total += entry.Weight
	}
	if len(items) == 0 || total <= 0 {
		return zero, domain.ErrInvalidWeightConfiguration
	}

	draw, err := src.IntN(total)
	if err != nil {
		return zero, err
	}
	roll := draw + 1

	cursor := 0
	for _, entry := range items {
		cursor += entry.Weight
		if roll <= cursor {
			return entry.Item, nil
		}
	}

	return items[len(items)-1].Item, nil
}
