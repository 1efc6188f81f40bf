package roster

import (
	"errors"
	"testing"
)

func TestParseRangeStart(t *testing.T) {
	cases := []struct {
		rng   string
		sheet string
		col   int
		row   int
		ok    bool
	}{
		{"Roster!A1:H60", "Roster", 0, 1, true},
		{"Roster!B2:H60", "Roster", 1, 2, true},
		{"State!AA10", "State", 26, 10, true},
		{"NoBang", "", 0, 0, false},
		{"Sheet!1", "", 0, 0, false},
		{"Sheet!A", "", 0, 0, false},
	}
	for _, c := range cases {
		sheet, col, row, err := parseRangeStart(c.rng)
		if c.ok != (err == nil) {
			t.Errorf("parseRangeStart(%q) err = %v, want ok=%v", c.rng, err, c.ok)
			continue
		}
		if !c.ok {
			continue
		}
		if sheet != c.sheet || col != c.col || row != c.row {
			t.Errorf("parseRangeStart(%q) = (%q,%d,%d), want (%q,%d,%d)",
				c.rng, sheet, col, row, c.sheet, c.col, c.row)
		}
	}
}

func TestActionCellRef(t *testing.T) {
	header := []string{"Name", "ID", "Clan", "Trophies", "Action"}
	rows := [][]string{
		{"Anna", "111", "RGR", "900", ""},
		{"", "", "", "", ""}, // blank sheet row, still occupies row 3
		{"Boris", "222", "OTL", "800", ""},
	}

	cases := []struct {
		key  string
		cell string
	}{
		{"111", "Roster!E2"},
		{"222", "Roster!E4"}, // raw row, not the parsed index
	}
	for _, c := range cases {
		cell, err := actionCellRef("Roster!A1:H60", header, rows, DefaultFieldMap(), c.key)
		if err != nil {
			t.Fatalf("actionCellRef(%q) err = %v", c.key, err)
		}
		if cell != c.cell {
			t.Errorf("actionCellRef(%q) = %q, want %q", c.key, cell, c.cell)
		}
	}

	if _, err := actionCellRef("Roster!A1:H60", header, rows, DefaultFieldMap(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("actionCellRef(unknown key) err = %v, want ErrNotFound", err)
	}
}

func TestColLetter(t *testing.T) {
	cases := map[int]string{
		0:  "A",
		1:  "B",
		25: "Z",
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
	}
	for idx, want := range cases {
		if got := colLetter(idx); got != want {
			t.Errorf("colLetter(%d) = %q, want %q", idx, got, want)
		}
	}
}
