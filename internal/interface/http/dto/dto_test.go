package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "59.00", FormatPrice(5900))
	assert.Equal(t, "0.05", FormatPrice(5))
	assert.Equal(t, "12.34", FormatPrice(1234))
	assert.Equal(t, "0.00", FormatPrice(0))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("release_date", nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	s := "2008-01-02"
	got, err = ParseDate("release_date", &s)
	require.NoError(t, err)
	assert.Equal(t, "2008-01-02", *FormatDate(got))

	bad := "02/01/2008"
	_, err = ParseDate("release_date", &bad)
	require.Error(t, err)
	assert.Contains(t, apperrors.GetAppError(err).Fields, "release_date")
}
