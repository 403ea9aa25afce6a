package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCronTime(t *testing.T) {
	base := time.Date(2025, time.March, 10, 14, 30, 45, 0, time.UTC)

	t.Run("every minute", func(t *testing.T) {
		next, err := nextCronTime("* * * * *", base)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.March, 10, 14, 31, 0, 0, time.UTC), next)
	})

	t.Run("monthly at 3am on the 1st", func(t *testing.T) {
		next, err := nextCronTime("0 3 1 * *", base)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.April, 1, 3, 0, 0, 0, time.UTC), next)
	})

	t.Run("specific minute list", func(t *testing.T) {
		next, err := nextCronTime("0,30 * * * *", base)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC), next)
	})

	t.Run("day of week", func(t *testing.T) {
		// base is a Monday; 0 = Sunday.
		next, err := nextCronTime("0 0 * * 0", base)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC), next)
	})
}

func TestParseCronErrors(t *testing.T) {
	for _, expr := range []string{"", "* * * *", "* * * * * *", "x * * * *"} {
		_, err := parseCron(expr)
		assert.Error(t, err, expr)
	}
}
