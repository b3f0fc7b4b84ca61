package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	voucherDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 10, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(voucherDate, createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, voucherDate, decodedDate, "Voucher date should match after decode")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")

	// Zero values should round-trip as well
	zeroToken := EncodeToken(time.Time{}, time.Time{})
	decodedZeroDate, decodedZeroCreated, err := DecodeToken(zeroToken)
	assert.NoError(t, err)
	assert.Equal(t, time.Time{}, decodedZeroDate)
	assert.Equal(t, time.Time{}, decodedZeroCreated)
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Base64 of a single date without the separator
	_, _, err = DecodeToken("MjAyNS0wMy0xMFQwMDowMDowMFo=")
	assert.Error(t, err, "Should return an error for a token missing the separator")
	assert.Contains(t, err.Error(), "split")

	// Base64 of "notadate|2025-03-10T14:30:45.123456789Z"
	_, _, err = DecodeToken("bm90YWRhdGV8MjAyNS0wMy0xMFQxNDozMDo0NS4xMjM0NTY3ODla")
	assert.Error(t, err, "Should return an error for an unparseable date")
	assert.Contains(t, err.Error(), "voucher date parse")
}
