package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prateek-0000/faculty-rnd-insights/internal/grants"
)

func TestWriteProjectsCSV(t *testing.T) {
	dataset := &grants.Dataset{
		Columns: []string{grants.ColDepartment, grants.ColTitle, grants.ColAmount, grants.ColStatus},
		Rows: []grants.Row{
			{Department: "CSE", Amount: 10, Fields: map[string]string{
				grants.ColTitle: "Deep Learning for Crop Yield", grants.ColStatus: "Ongoing",
			}},
			{Department: "ECE", Amount: 18.5, Fields: map[string]string{
				grants.ColTitle: "Antenna, Arrays", grants.ColStatus: "Completed",
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProjectsCSV(&buf, dataset))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Department", "Title", "Amount(in lakhs)", "Status"}, records[0])
	assert.Equal(t, []string{"CSE", "Deep Learning for Crop Yield", "10.00", "Ongoing"}, records[1])
	// Commas in cells survive the round trip
	assert.Equal(t, []string{"ECE", "Antenna, Arrays", "18.50", "Completed"}, records[2])
}

func TestWriteProjectsCSV_EmptyDataset(t *testing.T) {
	dataset := &grants.Dataset{Columns: []string{grants.ColDepartment, grants.ColTitle}}

	var buf bytes.Buffer
	require.NoError(t, WriteProjectsCSV(&buf, dataset))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Department", "Title"}, records[0])
}
