package cli

import (
	"strings"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"Name", "Age"})

	table.AddRow([]string{"Alice", "30"})
	table.AddRow([]string{"Bob"})
	table.AddRow([]string{"Charlie", "25", "Extra"})

	if len(table.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.rows))
	}
	if len(table.rows[1]) != 2 || table.rows[1][1] != "" {
		t.Errorf("Expected short row to be padded, got %q", table.rows[1])
	}
	if len(table.rows[2]) != 2 {
		t.Errorf("Expected long row to be truncated to 2 columns, got %d", len(table.rows[2]))
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"CUE", "DELTA", "NOTE"})
	table.SetAlignRight(0, 1)
	table.AddRow([]string{"1", "+37", ""})
	table.AddRow([]string{"12", "-5", "substituted"})

	want := "CUE  DELTA  NOTE\n" +
		"---  -----  -----------\n" +
		"  1    +37\n" +
		" 12     -5  substituted\n"

	if got := table.Render(); got != want {
		t.Errorf("Render() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTableMaxWidth(t *testing.T) {
	table := NewTable([]string{"NOTE"})
	table.SetColumnMaxWidth(0, 10)
	table.AddRow([]string{"decoder exited unsuccessfully\nexit code 1"})

	lines := strings.Split(strings.TrimRight(table.Render(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[2] != "decoder..." {
		t.Errorf("Expected truncated cell, got %q", lines[2])
	}
}

func TestTableEmptyHeaders(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Expected empty render, got %q", got)
	}
}
