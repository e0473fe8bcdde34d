package views

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lisacrebassa/pals-analysis/dataset"
	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/helpers"
	"github.com/lisacrebassa/pals-analysis/internal/fixtures"
	"github.com/lisacrebassa/pals-analysis/logging"
)

var fixtureCSV = map[dataset.Name]string{
	dataset.Combat:       fixtures.CombatCSV,
	dataset.Jobs:         fixtures.JobsCSV,
	dataset.Hidden:       fixtures.HiddenCSV,
	dataset.Refresh:      fixtures.RefreshCSV,
	dataset.TowerBoss:    fixtures.TowerBossCSV,
	dataset.OrdinaryBoss: fixtures.OrdinaryBossCSV,
}

func fixtureStore(t *testing.T, replace map[dataset.Name]string) *dataset.Store {
	t.Helper()
	tables := make(map[dataset.Name]engine.RecordView)
	for name, body := range fixtureCSV {
		if r, ok := replace[name]; ok {
			body = r
		}
		view, _, err := helpers.LoadTable(string(name), []byte(body))
		require.NoError(t, err, name)
		tables[name] = view
	}
	return dataset.NewStore(tables)
}

func column(table *engine.TableData, idx int) []string {
	out := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		out[i] = row[idx]
	}
	return out
}

func labels(chart *engine.ChartConfig) []string {
	var out []string
	for _, p := range chart.Series[0].Data {
		out = append(out, p.Label)
	}
	return out
}

// ============================================================================
// PAGES
// ============================================================================

func TestRender_Combat(t *testing.T) {
	r := NewRouter(fixtureStore(t, nil))
	page, err := r.Render(context.Background(), Combat)
	require.NoError(t, err)

	assert.Equal(t, PageTitle, page.Title)
	assert.NotEmpty(t, page.RenderID)
	require.Len(t, page.Sections, 3)

	top := page.Section(SectionTopCombat)
	require.NotNil(t, top)
	assert.Equal(t, "Top 10 des Pals les plus puissants", top.Title)
	assert.Equal(t, fixtures.TopCombat, column(top.Table, 0))
	assert.Equal(t, "500", top.Table.Rows[0][1])

	heat := page.Section(SectionCorrelation).Chart
	require.NotNil(t, heat.Heatmap)
	assert.Equal(t, engine.CombatPowerColumns, heat.Heatmap.Labels)
	assert.Equal(t, engine.Number(1), heat.Heatmap.Values[0][0])

	scatter := page.Section(SectionSizePower).Chart
	assert.Len(t, scatter.Series[0].Data, 15)
	assert.Equal(t, "volume_size", scatter.XAxis)
}

func TestRender_Camp(t *testing.T) {
	r := NewRouter(fixtureStore(t, nil))
	page, err := r.Render(context.Background(), Camp)
	require.NoError(t, err)

	workers := page.Section(SectionTopWorkers).Table
	assert.Equal(t, fixtures.TopWorkers, column(workers, 0))
	assert.Equal(t, []string{"english_name", "handling_speed", engine.ColNbSkills}, []string{
		workers.Columns[0].Key, workers.Columns[1].Key, workers.Columns[2].Key,
	})
	assert.Equal(t, []string{"Mossanda", "3", "4"}, workers.Rows[0])

	ranch := page.Section(SectionRanch).Table
	assert.Equal(t, []string{"Lamball", "Chikipi", "Vixy", "Mozzarina"}, column(ranch, 0))

	night := page.Section(SectionNocturnal)
	require.NotNil(t, night.Text)
	assert.Equal(t, "Nombre de Pals nocturnes : 4", night.Text.String())
	assert.Equal(t, []string{"Depresso", "Tombat", "Nox", "Daedream"}, column(night.Table, 0))
}

func TestRender_Zones(t *testing.T) {
	r := NewRouter(fixtureStore(t, nil))
	page, err := r.Render(context.Background(), Zones)
	require.NoError(t, err)

	levels := page.Section(SectionLevels).Chart
	require.Len(t, levels.Series[0].Data, 20)
	total := 0.0
	for _, p := range levels.Series[0].Data {
		total += p.Value
	}
	assert.Equal(t, 36.0, total)

	zones := page.Section(SectionZones).Chart
	assert.Equal(t, []string{
		"Windswept Hills", "Forgotten Island", "Desolate Church", "Sealed Realm",
		"Mount Obsidian", "Verdant Brook", "Astral Mountain", "Ice Wind Island",
		"Sand Dunes", "Fisherman's Point", engine.OtherLabel,
	}, labels(zones))
	assert.Equal(t, 6.0, zones.Series[0].Data[0].Value)
	assert.Equal(t, 2.0, zones.Series[0].Data[10].Value)

	tower := page.Section(SectionTowerBoss)
	assert.Equal(t, SectionText, tower.Type)
	assert.Equal(t, "Tower Boss le plus puissant : Victor & Shadowbeak", tower.Text.String())

	ordinary := page.Section(SectionOrdinaryBoss)
	assert.Equal(t, "Ordinary Boss le plus puissant : Frostallion", ordinary.Text.String())
	assert.Equal(t, engine.Number(500), ordinary.Text.RawValue)
}

func TestRender_Options(t *testing.T) {
	r := NewRouter(fixtureStore(t, nil), WithOptions(Options{TopN: 3, ZoneTopK: 2, HistogramBins: 5}))

	combat, err := r.Render(context.Background(), Combat)
	require.NoError(t, err)
	assert.Equal(t, fixtures.TopCombat[:3], column(combat.Section(SectionTopCombat).Table, 0))

	zones, err := r.Render(context.Background(), Zones)
	require.NoError(t, err)
	assert.Len(t, zones.Section(SectionLevels).Chart.Series[0].Data, 5)
	assert.Equal(t, []string{engine.OtherLabel, "Windswept Hills", "Forgotten Island"},
		labels(zones.Section(SectionZones).Chart))
}

// ============================================================================
// FAILURES
// ============================================================================

func TestRender_SchemaErrorIsScopedToView(t *testing.T) {
	store := fixtureStore(t, map[dataset.Name]string{
		dataset.Combat: "name,hp,melee_attack,remote_attack,volume_size\nLamball,70,70,70,1\n",
	})
	r := NewRouter(store)

	_, err := r.Render(context.Background(), Combat)
	require.Error(t, err)
	var se *engine.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "defense", se.Column)

	_, err = r.Render(context.Background(), Camp)
	assert.NoError(t, err)
	_, err = r.Render(context.Background(), Zones)
	assert.NoError(t, err)
}

func TestRender_EmptyBossTableIsAMessage(t *testing.T) {
	store := fixtureStore(t, map[dataset.Name]string{
		dataset.TowerBoss: "name,hp,melee_attack,remote_attack,defense,support\n",
	})
	page, err := NewRouter(store).Render(context.Background(), Zones)
	require.NoError(t, err)

	tower := page.Section(SectionTowerBoss)
	assert.Equal(t, SectionMessage, tower.Type)
	assert.Contains(t, tower.Message, "tower_boss")

	// the rest of the page is unaffected
	assert.Equal(t, SectionText, page.Section(SectionOrdinaryBoss).Type)
	assert.NotNil(t, page.Section(SectionZones).Chart)
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := NewRouter(fixtureStore(t, nil)).Render(context.Background(), Kind("market"))
	var uv *UnknownViewError
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "market", uv.Name)
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRouter(fixtureStore(t, nil)).Render(ctx, Combat)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_DoesNotMutateStore(t *testing.T) {
	store := fixtureStore(t, nil)
	r := NewRouter(store, WithLogger(logging.NewNop()))

	_, err := r.RenderAll(context.Background())
	require.NoError(t, err)

	combat, _ := store.Table(dataset.Combat)
	assert.False(t, engine.HasMeasure(combat, engine.ColTotalCombat))
	refresh, _ := store.Table(dataset.Refresh)
	assert.False(t, engine.HasDimension(refresh, engine.ColZoneGrouped))
	assert.Equal(t, "Windswept Hills", refresh.Dimension(0, "refresh_area"))
}

func TestRender_LogsDuration(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewRouter(fixtureStore(t, nil), WithLogger(logging.Wrap(zap.New(core))))

	page, err := r.Render(context.Background(), Camp)
	require.NoError(t, err)

	perf := logs.FilterMessage("Performance metric").All()
	require.Len(t, perf, 1)
	fields := perf[0].ContextMap()
	assert.Equal(t, "render_duration", fields["metric"])
	assert.Equal(t, "ms", fields["unit"])
	assert.Equal(t, "camp", fields["view"])
	assert.Equal(t, page.RenderID, fields["render_id"])
}

func TestRender_Concurrent(t *testing.T) {
	r := NewRouter(fixtureStore(t, nil))

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 10; i++ {
		for _, k := range Kinds() {
			wg.Add(1)
			go func(k Kind) {
				defer wg.Done()
				_, err := r.Render(context.Background(), k)
				errs <- err
			}(k)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

// ============================================================================
// KINDS
// ============================================================================

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"combat", Combat, true},
		{"Stratégie de Combat", Combat, true},
		{"gestion du campement", Camp, true},
		{" zones ", Zones, true},
		{"Zones & Boss", Zones, true},
		{"boss", "", false},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, []Kind{Combat, Camp, Zones}, Kinds())
}
