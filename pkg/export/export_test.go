package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	table := Table{
		Headers: []string{"Student", "Amount", "Status"},
		Rows: [][]string{
			{"Nguyễn Văn A", "80000.00", "PENDING"},
			{"Trần Thị B", "80000.00"},
		},
	}

	data, err := NewCSVExporter().Render(table)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "Student,Amount,Status")
	assert.Contains(t, out, "Nguyễn Văn A,80000.00,PENDING")
	// Short rows are padded to the header width.
	assert.Contains(t, out, "Trần Thị B,80000.00,")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	table := Table{
		Headers: []string{"Student", "Amount"},
		Rows:    [][]string{{"Nguyen Van A", "80000.00"}},
	}

	data, err := NewPDFExporter().Render(table, "Tuition")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
