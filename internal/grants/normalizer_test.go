package grants

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalStatus(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "padded uppercase", in: " COMPLETED ", want: "Completed"},
		{name: "already canonical", in: "Completed", want: "Completed"},
		{name: "lowercase", in: "ongoing", want: "Ongoing"},
		{name: "multi word keeps single capital", in: "in progress", want: "In progress"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalStatus(tt.in)
			assert.Equal(t, tt.want, got)

			// The transform must be idempotent
			assert.Equal(t, got, CanonicalStatus(got))
		})
	}
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "plain integer", in: "10", want: 10},
		{name: "decimal", in: "12.75", want: 12.75},
		{name: "padded", in: " 3.5 ", want: 3.5},
		{name: "thousands separator", in: "1,250.50", want: 1250.50},
		{name: "non numeric", in: "abc", want: 0},
		{name: "N/A marker", in: "N/A", want: 0},
		{name: "empty", in: "", want: 0},
		{name: "nan literal maps to zero", in: "NaN", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceAmount(tt.in))
		})
	}
}

func TestNormalizer_Unify(t *testing.T) {
	normalizer := NewNormalizer(slog.Default())

	t.Run("two department scenario", func(t *testing.T) {
		cse := &Batch{
			Source:  "CSE",
			Headers: []string{"Status", "Amount(in lakhs)"},
			Rows:    [][]string{{" ongoing ", "10"}},
		}
		ece := &Batch{
			Source:  "ECE",
			Headers: []string{"Status", "Amount(in lakhs)"},
			Rows:    [][]string{{"COMPLETED", "abc"}},
		}

		dataset := normalizer.Unify([]*Batch{cse, ece})
		require.Len(t, dataset.Rows, 2)

		assert.Equal(t, "CSE", dataset.Rows[0].Department)
		assert.Equal(t, "Ongoing", dataset.Rows[0].Fields[ColStatus])
		assert.Equal(t, 10.0, dataset.Rows[0].Amount)

		assert.Equal(t, "ECE", dataset.Rows[1].Department)
		assert.Equal(t, "Completed", dataset.Rows[1].Fields[ColStatus])
		assert.Equal(t, 0.0, dataset.Rows[1].Amount)
	})

	t.Run("alias columns fold before concatenation", func(t *testing.T) {
		a := &Batch{
			Source:  "CSE",
			Headers: []string{"Funding Agency", "Co-investigator"},
			Rows:    [][]string{{"DST", "Dr. Rao"}},
		}
		b := &Batch{
			Source:  "ECE",
			Headers: []string{"Funding agency", "Co-Investigator"},
			Rows:    [][]string{{"SERB", "Dr. Iyer"}},
		}

		dataset := normalizer.Unify([]*Batch{a, b})
		require.Len(t, dataset.Rows, 2)

		// Both spellings land in the same canonical columns
		assert.True(t, dataset.HasColumn(ColFundingAgency))
		assert.True(t, dataset.HasColumn(ColCoInvestigator))
		assert.Equal(t, "SERB", dataset.Rows[1].Fields[ColFundingAgency])
		assert.Equal(t, "Dr. Iyer", dataset.Rows[1].Fields[ColCoInvestigator])

		count := 0
		for _, c := range dataset.Columns {
			if c == ColFundingAgency {
				count++
			}
		}
		assert.Equal(t, 1, count, "alias fold must not duplicate columns")
	})

	t.Run("sentinel fills apply only to present columns", func(t *testing.T) {
		batch := &Batch{
			Source:  "CSE",
			Headers: []string{ColFacultyName, ColDomain, ColCoInvestigator, ColTitle},
			Rows: [][]string{
				{"", "", "", "Grant A"},
				{"Dr. Kumar", "AI", "Dr. Das", "Grant B"},
			},
		}

		dataset := normalizer.Unify([]*Batch{batch})
		require.Len(t, dataset.Rows, 2)

		assert.Equal(t, SentinelNoFaculty, dataset.Rows[0].Fields[ColFacultyName])
		assert.Equal(t, SentinelNoDomain, dataset.Rows[0].Fields[ColDomain])
		assert.Equal(t, SentinelNoCoInvestigator, dataset.Rows[0].Fields[ColCoInvestigator])
		assert.Equal(t, "Dr. Kumar", dataset.Rows[1].Fields[ColFacultyName])

		// Status never appeared, so the dataset must not grow the column
		assert.False(t, dataset.HasColumn(ColStatus))
	})

	t.Run("short rows are tolerated", func(t *testing.T) {
		batch := &Batch{
			Source:  "ECE",
			Headers: []string{ColTitle, ColStatus, ColAmount},
			Rows:    [][]string{{"Grant C"}},
		}

		dataset := normalizer.Unify([]*Batch{batch})
		require.Len(t, dataset.Rows, 1)
		assert.Equal(t, "Grant C", dataset.Rows[0].Fields[ColTitle])
		assert.Equal(t, 0.0, dataset.Rows[0].Amount)
	})

	t.Run("no batches yields empty dataset", func(t *testing.T) {
		dataset := normalizer.Unify(nil)
		assert.True(t, dataset.Empty())
	})

	t.Run("every row carries its department", func(t *testing.T) {
		batch := &Batch{
			Source:  "CSE",
			Headers: []string{ColTitle},
			Rows:    [][]string{{"Grant A"}, {"Grant B"}},
		}

		dataset := normalizer.Unify([]*Batch{batch})
		for _, row := range dataset.Rows {
			assert.NotEmpty(t, row.Department)
		}
		assert.True(t, dataset.HasColumn(ColDepartment))
	})
}

func TestNormalizer_Idempotence(t *testing.T) {
	normalizer := NewNormalizer(slog.Default())

	batch := &Batch{
		Source:  "CSE",
		Headers: []string{ColStatus, ColAmount, ColFacultyName, ColDomain},
		Rows: [][]string{
			{"  ONGOING ", "12.5", "Dr. Kumar", ""},
			{"completed", "n/a", "", "ML"},
		},
	}

	first := normalizer.Unify([]*Batch{batch})

	// Re-feed the normalized dataset as if it were a fresh batch
	headers := []string{ColStatus, ColFacultyName, ColDomain}
	rebatch := &Batch{Source: "CSE", Headers: append([]string{}, headers...)}
	for _, row := range first.Rows {
		raw := make([]string, len(headers))
		for i, col := range headers {
			raw[i] = row.Fields[col]
		}
		rebatch.Rows = append(rebatch.Rows, raw)
	}

	second := normalizer.Unify([]*Batch{rebatch})
	require.Len(t, second.Rows, len(first.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].Fields[ColStatus], second.Rows[i].Fields[ColStatus])
		assert.Equal(t, first.Rows[i].Fields[ColFacultyName], second.Rows[i].Fields[ColFacultyName])
		assert.Equal(t, first.Rows[i].Fields[ColDomain], second.Rows[i].Fields[ColDomain])
	}
}
