// Package lookup resolves loosely given identifiers by trying an ordered list of strategies.
package lookup

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Strategy tries to resolve id one way. found=false means try the next one.
type Strategy[T any] struct {
	Name string
	Find func(ctx context.Context, id string) (value T, found bool, err error)
}

// Resolve returns the value of the first strategy that finds id, with that strategy's name.
// Strategy errors are logged and skipped; when nothing matches a *NotFoundError is returned.
func Resolve[T any](ctx context.Context, id string, strategies ...Strategy[T]) (T, string, error) {
	var zero T
	id = strings.TrimSpace(id)
	if id == "" {
		return zero, "", &NotFoundError{ID: id}
	}
	for _, strategy := range strategies {
		value, found, err := strategy.Find(ctx, id)
		if err != nil {
			log.
				WithField("strategy", strategy.Name).
				WithField("id", id).
				WithError(err).
				Warn("lookup strategy failed")
			continue
		}
		if found {
			return value, strategy.Name, nil
		}
	}
	return zero, "", &NotFoundError{ID: id}
}

// NotFoundError carries sample identifiers so the caller can tell the user what valid ones look like.
type NotFoundError struct {
	ID      string
	Entity  string
	Samples []string
}

func (e *NotFoundError) Error() string {
	entity := e.Entity
	if entity == "" {
		entity = "Record"
	}
	msg := fmt.Sprintf("%s not found with ID: %s", entity, e.ID)
	if len(e.Samples) > 0 {
		msg += "\n\nSample IDs from database:\n" + strings.Join(e.Samples, "\n")
	}
	return msg
}
