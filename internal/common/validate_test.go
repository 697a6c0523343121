package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateUUID(t *testing.T) {
	_, err := ValidateUUID("not-a-uuid", "id")
	assert.Error(t, err)

	id, err := ValidateUUID("0e84cbb2-4b51-44b0-8637-2261699cd94b", "id")
	assert.NoError(t, err)
	assert.Equal(t, "0e84cbb2-4b51-44b0-8637-2261699cd94b", id.String())
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset := ValidatePaginationParams(0, -5)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePaginationParams(5000, 20)
	assert.Equal(t, 1000, limit)
	assert.Equal(t, 20, offset)

	limit, _ = ValidatePaginationParams(25, 0)
	assert.Equal(t, 25, limit)
}

func TestParseDateParam(t *testing.T) {
	got, err := ParseDateParam("2026-09-01", "from")
	assert.NoError(t, err)
	assert.Equal(t, 2026, got.Year())

	_, err = ParseDateParam("09/01/2026", "from")
	assert.Error(t, err)
}

func TestValidateDateRange(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, ValidateDateRange(start, start.AddDate(0, 6, 0)))
	assert.Error(t, ValidateDateRange(start, start.AddDate(-1, 0, 0)))
	assert.Error(t, ValidateDateRange(start, start.AddDate(11, 0, 0)))
}
