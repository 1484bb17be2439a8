// Package idgenerator contains the default [domain.IDGenerator]
// implementation, backed by random UUIDs.
package idgenerator

import (
	"github.com/google/uuid"
	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

// IDGenerator implements [domain.IDGenerator].
type IDGenerator struct{}

// NewIDGenerator returns a new implementation of [domain.IDGenerator].
func NewIDGenerator() domain.IDGenerator {
	return &IDGenerator{}
}

// GenerateID implements [domain.IDGenerator].
func (i *IDGenerator) GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
