package infra

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBarChartPDF(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBarChartPDF(&buf, "Sales Report", time.Now(), []BarChartRow{
		{Label: "Widget", Value: 12},
		{Label: "Gadget", Value: 3, Text: "3"},
		{Label: "Nothing", Value: 0},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteBarChartPDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBarChartPDF(&buf, "Stock Report", time.Now(), nil))
	assert.NotZero(t, buf.Len())
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "Widget", truncateLabel("Widget", 32))

	long := strings.Repeat("ñ", 40)
	got := truncateLabel(long, 32)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 32, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "ñ~"))
}

func TestWriteBarChartPDF_NonASCIILabels(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBarChartPDF(&buf, "Stock Report", time.Now(), []BarChartRow{
		{Label: strings.Repeat("Jalapeño ", 6), Value: 4},
		{Label: "Crème brûlée", Value: 9},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
