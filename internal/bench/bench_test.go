package bench

import (
	"testing"
	"time"

	"github.com/gubnik/multithreading/linked"
	"github.com/gubnik/multithreading/ring"
	"github.com/stretchr/testify/require"
)

func TestRunAgainstRing(t *testing.T) {
	q, err := ring.New[int](256, nil)
	require.NoError(t, err)

	res := Run(Config{Producers: 4, Duration: 50 * time.Millisecond},
		func(i int) bool { return q.Produce(i) },
		func() (int, bool) { return q.TryConsume() },
	)

	require.Equal(t, res.Produced, res.Consumed, "every accepted message must be consumed")
	require.GreaterOrEqual(t, res.Produced, int64(0))
}

func TestRunAgainstLinked(t *testing.T) {
	q := linked.New[int]()

	res := Run(Config{Producers: 4, Duration: 50 * time.Millisecond},
		func(i int) bool { q.Produce(i); return true },
		func() (int, bool) { return q.Consume() },
	)

	require.Equal(t, res.Produced, res.Consumed, "the linked queue never rejects, so produced == consumed")
}
