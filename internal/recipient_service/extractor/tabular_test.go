package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func permutations(n int) [][]int {
	if n == 1 {
		return [][]int{{0}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for pos := 0; pos <= len(p); pos++ {
			perm := append([]int{}, p[:pos]...)
			perm = append(perm, n-1)
			perm = append(perm, p[pos:]...)
			out = append(out, perm)
		}
	}
	return out
}

func TestScanTable_HeaderNameSelectsColumnUnderPermutation(t *testing.T) {
	base := [][]string{
		{"Nom", "Téléphone", "Email"},
		{"Alice", "+237 670 000 001", "alice@example.com"},
		{"Bob", "670-000-002", "bob@example.com"},
		{"Carol", "670000001", "1234567890"},
	}
	want := []string{"+237670000001", "670000002", "670000001"}

	perms := permutations(3)
	require.Len(t, perms, 6)
	for _, perm := range perms {
		grid := make([][]string, len(base))
		for r, row := range base {
			grid[r] = make([]string, len(row))
			for to, from := range perm {
				grid[r][to] = row[from]
			}
		}

		col, hasHeader := SelectPhoneColumn(grid)
		assert.True(t, hasHeader)
		assert.Equal(t, "Téléphone", grid[0][col])
		assert.Equal(t, want, ExtractTable(grid), "permutation %v", perm)
	}
}

func TestScanTable_ScoresColumnsWithoutHeader(t *testing.T) {
	grid := [][]string{
		{"Alice", "670000001", "note"},
		{"Bob", "670000002", "670000009"},
		{"Carol", "n/a", "call later"},
		{"Dan", "+237 670 000 003", "x"},
	}

	col, hasHeader := SelectPhoneColumn(grid)
	assert.Equal(t, 1, col)
	assert.False(t, hasHeader)

	result := ScanTable(grid)
	assert.Equal(t, []string{"670000001", "670000002", "+237670000003"}, result.Numbers)
	assert.Equal(t, []string{"n/a"}, result.Rejected)
}

func TestScanTable_TieGoesLeft(t *testing.T) {
	grid := [][]string{
		{"670000001", "670000002"},
		{"670000003", "670000004"},
	}
	col, _ := SelectPhoneColumn(grid)
	assert.Equal(t, 0, col)
	assert.Equal(t, []string{"670000001", "670000003"}, ExtractTable(grid))
}

func TestScanTable_ZeroScoreFallsBackToFreeText(t *testing.T) {
	grid := [][]string{
		{"a", "670000001;670000002"},
		{"b", "x"},
	}
	col, _ := SelectPhoneColumn(grid)
	assert.Equal(t, -1, col)
	assert.Equal(t, []string{"670000001", "670000002"}, ExtractTable(grid))
}

func TestScanTable_PermissiveHeader(t *testing.T) {
	grid := [][]string{
		{"Name", "Tel. portable"},
		{"Alice", "670000001"},
	}
	col, hasHeader := SelectPhoneColumn(grid)
	assert.Equal(t, 1, col)
	assert.True(t, hasHeader)
}

func TestSelectPhoneColumn_Empty(t *testing.T) {
	col, hasHeader := SelectPhoneColumn(nil)
	assert.Equal(t, -1, col)
	assert.False(t, hasHeader)
}

func TestParseGrid(t *testing.T) {
	t.Run("TabSeparated", func(t *testing.T) {
		rows, ok := ParseGrid("Nom\tTéléphone\r\nAlice\t670000001\r\n\r\nBob\t670000002\r\n")
		require.True(t, ok)
		assert.Equal(t, [][]string{{"Nom", "Téléphone"}, {"Alice", "670000001"}, {"Bob", "670000002"}}, rows)
	})

	t.Run("CommaSeparatedWithQuotes", func(t *testing.T) {
		rows, ok := ParseGrid("\ufeffname,phone\n\"Doe, Jane\", 670000001\n")
		require.True(t, ok)
		assert.Equal(t, [][]string{{"name", "phone"}, {"Doe, Jane", "670000001"}}, rows)
	})

	t.Run("SingleLineIsNotTabular", func(t *testing.T) {
		_, ok := ParseGrid("670000001, 670000002")
		assert.False(t, ok)
	})

	t.Run("NoDelimiterIsNotTabular", func(t *testing.T) {
		_, ok := ParseGrid("670000001\n670000002")
		assert.False(t, ok)
	})

	t.Run("RaggedRowsAreNotTabular", func(t *testing.T) {
		_, ok := ParseGrid("670000001, 670000002\n670000003")
		assert.False(t, ok)

		_, ok = ParseGrid("Nom\tTéléphone\nAlice\t670000001\tDouala\n")
		assert.False(t, ok)
	})
}

func TestScanPaste_RaggedListKeepsEveryNumber(t *testing.T) {
	result := ScanPaste("670000001, 670000002\n670000003")
	assert.Equal(t, []string{"670000001", "670000002", "670000003"}, result.Numbers)
	assert.Empty(t, result.Rejected)

	result = ScanPaste("670000001\t670000002\n670000003\t670000004\t670000005\n")
	assert.Equal(t, []string{"670000001", "670000002", "670000003", "670000004", "670000005"}, result.Numbers)
}

func TestExtractPaste(t *testing.T) {
	t.Run("SpreadsheetRange", func(t *testing.T) {
		paste := "Prénom\tNuméro\tVille\nAlice\t670 00 00 01\tDouala\nBob\t670 00 00 02\tYaoundé\n"
		assert.Equal(t, []string{"670000001", "670000002"}, ExtractPaste(paste))
	})

	t.Run("FreeText", func(t *testing.T) {
		assert.Equal(t, []string{"670000001", "670000002"}, ExtractPaste("670000001, 670000002"))
	})

	t.Run("OneNumberPerLine", func(t *testing.T) {
		assert.Equal(t, []string{"670000001", "670000002"}, ExtractPaste("670000001\n670000002\n670000001"))
	})
}
