package batch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrDestinationTaken = errors.New("destination already written in this run")

// collisionResolver tracks destinations claimed during one run. Keys are
// lower-cased so that a.webp and A.webp collide as they would on a
// case-insensitive filesystem.
type collisionResolver struct {
	policy   CollisionPolicy
	owners   map[string]string
	counters map[string]int
}

func newCollisionResolver(policy CollisionPolicy) *collisionResolver {
	return &collisionResolver{
		policy:   policy,
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// resolve returns the path source should be written to.
func (cr *collisionResolver) resolve(source, requested string) (string, error) {
	key := strings.ToLower(requested)
	owner, taken := cr.owners[key]
	if !taken || owner == source || cr.policy == CollisionOverwrite {
		cr.owners[key] = source
		return requested, nil
	}

	if cr.policy == CollisionFail {
		return "", fmt.Errorf("%w: %s (from %s)", ErrDestinationTaken, requested, owner)
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[key]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		ckey := strings.ToLower(candidate)
		if _, exists := cr.owners[ckey]; !exists {
			cr.counters[key] = counter + 1
			cr.owners[ckey] = source
			return candidate, nil
		}
		counter++
	}
}
