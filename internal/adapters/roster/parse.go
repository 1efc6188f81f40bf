package roster

import (
	"strings"

	"github.com/okian/clanmove/internal/domain/model"
)

// FieldMap lists the accepted header spellings for each logical field.
// Aliases are matched case-insensitively against the header row, first
// alias wins. Supplied at configuration time and resolved once per
// fetch instead of probing every row.
type FieldMap struct {
	Name    []string `koanf:"name"`
	Mention []string `koanf:"mention"`
	ID      []string `koanf:"id"`
	Clan    []string `koanf:"clan"`
	Metric  []string `koanf:"metric"`
	Action  []string `koanf:"action"`
}

// DefaultFieldMap returns the header aliases of the community sheet.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		Name:    []string{"name", "player", "display name", "nick"},
		Mention: []string{"mention", "discord", "discord mention"},
		ID:      []string{"id", "discord id", "user id"},
		Clan:    []string{"clan", "current clan", "team"},
		Metric:  []string{"trophies", "metric", "score"},
		Action:  []string{"action", "move", "override", "wildcard"},
	}
}

// columns holds resolved zero-based column indexes, -1 when absent.
type columns struct {
	name, mention, id, clan, metric, action int
}

// resolveColumns maps the header row through the alias table. When
// metricPref names an existing header it takes precedence over the
// metric aliases, so "/distribute metric:Versus Trophies" can rank by
// any numeric column.
func resolveColumns(header []string, fm FieldMap, metricPref string) columns {
	c := columns{name: -1, mention: -1, id: -1, clan: -1, metric: -1, action: -1}
	find := func(aliases []string) int {
		for _, a := range aliases {
			for i, h := range header {
				if strings.EqualFold(strings.TrimSpace(h), a) {
					return i
				}
			}
		}
		return -1
	}
	c.name = find(fm.Name)
	c.mention = find(fm.Mention)
	c.id = find(fm.ID)
	c.clan = find(fm.Clan)
	if metricPref != "" {
		c.metric = find([]string{metricPref})
	}
	if c.metric < 0 {
		c.metric = find(fm.Metric)
	}
	c.action = find(fm.Action)
	return c
}

// ParseRows turns raw sheet rows into player records. The first row is
// the header. Short rows, blank cells and unparseable metrics all
// degrade to zero values; fully blank rows are skipped.
func ParseRows(header []string, rows [][]string, fm FieldMap, metricPref string) []model.PlayerRecord {
	cols := resolveColumns(header, fm, metricPref)
	claimed := claimedColumns(cols)

	var records []model.PlayerRecord
	for _, row := range rows {
		rec := parseRow(row, cols, claimed)
		if blank(rec) {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func claimedColumns(cols columns) map[int]bool {
	claimed := map[int]bool{}
	for _, i := range []int{cols.name, cols.mention, cols.id, cols.clan, cols.metric, cols.action} {
		if i >= 0 {
			claimed[i] = true
		}
	}
	return claimed
}

func parseRow(row []string, cols columns, claimed map[int]bool) model.PlayerRecord {
	rec := model.PlayerRecord{
		DisplayName:  cell(row, cols.name),
		Mention:      cell(row, cols.mention),
		ExternalID:   cell(row, cols.id),
		CurrentClan:  cell(row, cols.clan),
		Metric:       model.ParseMetric(cell(row, cols.metric)),
		ManualAction: cell(row, cols.action),
	}
	for i, v := range row {
		if !claimed[i] {
			rec.Extra = append(rec.Extra, strings.TrimSpace(v))
		}
	}
	return rec
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(rec model.PlayerRecord) bool {
	if rec.DisplayName != "" || rec.Mention != "" || rec.ExternalID != "" ||
		rec.CurrentClan != "" || rec.ManualAction != "" || rec.Metric != 0 {
		return false
	}
	for _, v := range rec.Extra {
		if v != "" {
			return false
		}
	}
	return true
}
