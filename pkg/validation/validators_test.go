package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Month string `validate:"omitempty,month"`
	Start string `validate:"required,clock"`
	Day   string `validate:"required,daylabel"`
	Count int    `validate:"min=0,max=7"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Month: "january", Start: "9:00 AM", Day: "18 January"}))

	err := Struct(sample{Month: "Smarch", Start: "25:00", Day: "January", Count: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a month name")
	assert.Contains(t, err.Error(), "not a time")
	assert.Contains(t, err.Error(), "not a day")
	assert.Contains(t, err.Error(), "max=7")

	err = Struct(sample{Start: "10:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "day is required")
}

func TestNormalizeDay(t *testing.T) {
	got, ok := NormalizeDay(" 7   february ")
	require.True(t, ok)
	assert.Equal(t, "7 February", got)

	_, ok = NormalizeDay("7 February 2026")
	assert.False(t, ok)
}
