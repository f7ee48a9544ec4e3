package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"purchase_id", "PURCHASE_ID"},
		{"  Product_Id ", "PRODUCT_ID"},
		{"\ufeffquantity", "QUANTITY"},
		{"\tDEPARTMENT_NAME\n", "DEPARTMENT_NAME"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeColumn(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeTable_DoesNotTouchInput(t *testing.T) {
	raw := table("p.csv", []string{" product_id", "Height_Inches "}, []string{"1", "2"})

	got := NormalizeTable(raw)

	assert.Equal(t, []string{"PRODUCT_ID", "HEIGHT_INCHES"}, got.Columns)
	assert.Equal(t, []string{" product_id", "Height_Inches "}, raw.Columns)
	assert.Equal(t, raw.Rows, got.Rows)
	assert.Nil(t, NormalizeTable(nil))
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, entity.Float(2.5), parseNumber(" 2.5 "))
	assert.False(t, parseNumber("").Valid)
	assert.False(t, parseNumber("abc").Valid)
	assert.False(t, parseNumber("NaN").Valid)
}

func TestParseTimestamp(t *testing.T) {
	ts := parseTimestamp("2020-03-25 14:30:00")
	assert.True(t, ts.Valid)
	assert.Equal(t, 14, ts.Time.Hour())

	ts = parseTimestamp("2020-04-12T09:05:00Z")
	assert.True(t, ts.Valid)
	assert.Equal(t, 9, ts.Time.Hour())

	assert.False(t, parseTimestamp("").Valid)
	assert.False(t, parseTimestamp("not a date").Valid)
}
