package render

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"github.com/lisacrebassa/pals-analysis/dataset"
	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/helpers"
	"github.com/lisacrebassa/pals-analysis/internal/fixtures"
	"github.com/lisacrebassa/pals-analysis/views"
)

func renderPages(t *testing.T) []*views.Page {
	t.Helper()
	tables := make(map[dataset.Name]engine.RecordView)
	for _, name := range dataset.All {
		view, _, err := helpers.LoadTable(string(name), []byte(fixtures.Files[dataset.DefaultFiles[name]]))
		require.NoError(t, err, name)
		tables[name] = view
	}
	pages, err := views.NewRouter(dataset.NewStore(tables)).RenderAll(context.Background())
	require.NoError(t, err)
	return pages
}

// ============================================================================
// PNG
// ============================================================================

func TestChartPNG_DashboardCharts(t *testing.T) {
	var drawn []string
	for _, p := range renderPages(t) {
		for _, s := range p.Sections {
			if s.Type != views.SectionChart {
				continue
			}
			var buf bytes.Buffer
			require.NoError(t, ChartPNG(&buf, s.Chart, Size{}), s.ID)

			cfg, err := png.DecodeConfig(&buf)
			require.NoError(t, err, s.ID)
			assert.Equal(t, DefaultSize.Width, cfg.Width, s.ID)
			assert.Equal(t, DefaultSize.Height, cfg.Height, s.ID)
			drawn = append(drawn, s.Chart.ChartType)
		}
	}
	assert.ElementsMatch(t, []string{
		engine.ChartHeatmap, engine.ChartScatter, engine.ChartHistogram, engine.ChartCountPlot,
	}, drawn)
}

func TestChartPNG_HeatmapWithNaN(t *testing.T) {
	m := &engine.CorrelationMatrix{
		Labels: []string{"hp", "defense"},
		Values: [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, ChartPNG(&buf, engine.BuildHeatmap(m, "t"), Size{Width: 300, Height: 240}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestChartPNG_SinglePointScatter(t *testing.T) {
	cfg := &engine.ChartConfig{
		ChartType: engine.ChartScatter,
		Series:    []engine.ChartSeries{{Data: []engine.ChartPoint{{X: 3, Value: 3}}}},
	}
	var buf bytes.Buffer
	assert.NoError(t, ChartPNG(&buf, cfg, Size{}))
}

func TestChartPNG_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, ChartPNG(&buf, nil, Size{}), ErrNoData)
	assert.ErrorIs(t, ChartPNG(&buf, &engine.ChartConfig{ChartType: engine.ChartScatter}, Size{}), ErrNoData)
	assert.ErrorIs(t, ChartPNG(&buf, &engine.ChartConfig{ChartType: engine.ChartHeatmap}, Size{}), ErrNoData)
	assert.Error(t, ChartPNG(&buf, &engine.ChartConfig{ChartType: "pie"}, Size{}))
	assert.Zero(t, buf.Len())
}

func TestHeatColor(t *testing.T) {
	assert.Equal(t, heatLow, heatColor(-1, -1, 1))
	assert.Equal(t, heatMid, heatColor(0, -1, 1))
	assert.Equal(t, heatHigh, heatColor(1, -1, 1))
	assert.Equal(t, heatHigh, heatColor(5, -1, 1), "clamped")
	assert.Equal(t, heatNaN, heatColor(math.NaN(), -1, 1))
}

// ============================================================================
// TEXT OUTPUTS
// ============================================================================

func TestWriteCSV(t *testing.T) {
	pages := renderPages(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, pages[0]))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out,
		"Top 10 des Pals les plus puissants\nname,total_combat\nFrostallion,500\n"), out)
	assert.Contains(t, out, "\n\nCorrélations entre attributs de combat\n,hp,melee_attack,remote_attack,defense\nhp,1,")
	assert.Contains(t, out, "label,volume_size,total_combat\n")
}

func TestWriteCSV_TextAndMessage(t *testing.T) {
	page := &views.Page{Sections: []*views.Section{
		{ID: "nocturnal", Type: views.SectionTable, Text: &engine.TextData{Label: "Nombre :", Value: "0"},
			Table: &engine.TableData{Columns: []engine.Column{{Key: "tribe"}}}},
		{ID: "tower_boss", Type: views.SectionMessage, Message: "Aucune donnée"},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, page))
	assert.Equal(t, "nocturnal\nNombre :,0\ntribe\n\ntower_boss\nAucune donnée\n", buf.String())
}

func TestWriteText(t *testing.T) {
	pages := renderPages(t)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, pages...))
	out := buf.String()

	assert.Equal(t, 3, strings.Count(out, views.PageTitle))
	assert.Contains(t, out, "## Top 10 des Pals les plus puissants")
	assert.Contains(t, out, "Nombre de Pals nocturnes : 4")
	assert.Contains(t, out, "Tower Boss le plus puissant : Victor & Shadowbeak")
}

func TestWriteJSON(t *testing.T) {
	m := &engine.CorrelationMatrix{Labels: []string{"a"}, Values: [][]float64{{math.NaN()}}}
	page := &views.Page{Kind: views.Combat, Sections: []*views.Section{
		{ID: "c", Type: views.SectionChart, Chart: engine.BuildHeatmap(m, "t")},
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, page))
	out := buf.String()
	assert.Equal(t, "combat", gjson.Get(out, "kind").String())
	cell := gjson.Get(out, "sections.0.chart.heatmap.values.0.0")
	assert.True(t, cell.Exists())
	assert.Equal(t, gjson.Null, cell.Type)

	buf.Reset()
	require.NoError(t, Write(&buf, FormatPretty, page, page))
	assert.Equal(t, int64(2), gjson.Get(buf.String(), "#").Int())
	assert.Contains(t, buf.String(), "\n  ")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, pretty, text, csv")
}

// ============================================================================
// XLSX
// ============================================================================

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, renderPages(t)...))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		SummarySheet,
		views.SectionTopCombat, views.SectionCorrelation, views.SectionSizePower,
		views.SectionTopWorkers, views.SectionRanch, views.SectionNocturnal,
		views.SectionLevels, views.SectionZones,
	}, f.GetSheetList())

	name, _ := f.GetCellValue(views.SectionTopCombat, "A2")
	assert.Equal(t, "Frostallion", name)
	power, _ := f.GetCellValue(views.SectionTopCombat, "B2")
	assert.Equal(t, "500", power)

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	var lines []string
	for _, r := range rows {
		lines = append(lines, strings.Join(r, " "))
	}
	assert.Contains(t, lines, "Nombre de Pals nocturnes : 4")
	assert.Contains(t, lines, "Ordinary Boss le plus puissant : Frostallion")
}

func TestSheetName(t *testing.T) {
	x := &xlsxWriter{used: map[string]bool{}}
	long := strings.Repeat("x", 40)
	assert.Equal(t, "top", x.sheetName("top"))
	assert.Equal(t, "top_2", x.sheetName("top"))
	assert.Len(t, x.sheetName(long), maxSheetName)
	assert.Equal(t, strings.Repeat("x", 29)+"_2", x.sheetName(long))
}

// ============================================================================
// HTML
// ============================================================================

func TestWriteHTML(t *testing.T) {
	pages := renderPages(t)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, pages[0]))
	out := buf.String()
	assert.Contains(t, out, `<img src="/charts/combat/correlation.png"`)
	assert.Contains(t, out, `<a href="/views/combat" class="active">Stratégie de Combat</a>`)
	assert.Contains(t, out, `<a href="/views/zones">Zones &amp; Boss</a>`)
	assert.Contains(t, out, "<td>Frostallion</td>")
	assert.Contains(t, out, "10 lignes")

	buf.Reset()
	require.NoError(t, WriteHTML(&buf, pages[2]))
	assert.Contains(t, buf.String(), `title="500"`)
}
