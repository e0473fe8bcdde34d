package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// FIXTURES
// ============================================================================

func rec(dims map[string]string, meas map[string]float64) Record {
	return Record{Dimensions: dims, Measures: meas}
}

func combatTable(rows ...Record) RecordView {
	return NewTable("combat", rows,
		[]string{"name"},
		[]string{"hp", "melee_attack", "remote_attack", "defense", "volume_size"})
}

func combatRow(name string, hp, melee, remote, def float64) Record {
	return rec(map[string]string{"name": name}, map[string]float64{
		"hp": hp, "melee_attack": melee, "remote_attack": remote, "defense": def, "volume_size": 1,
	})
}

func names(view RecordView) []string {
	out := make([]string, view.Len())
	for i := range out {
		out[i] = view.Dimension(i, "name")
	}
	return out
}

// uniqueValues lists the distinct non-empty values of a dimension in order
// of first appearance.
func uniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < view.Len(); i++ {
		v := view.Dimension(i, dimension)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// ============================================================================
// COMBAT POWER
// ============================================================================

func TestComputeCombatPower_Scenario(t *testing.T) {
	table := combatTable(
		combatRow("A", 10, 5, 0, 5),
		combatRow("B", 8, 8, 8, 8),
	)

	scored, err := ComputeCombatPower(table)
	require.NoError(t, err)
	require.Equal(t, 2, scored.Len())
	assert.Equal(t, 20.0, scored.Measure(0, ColTotalCombat))
	assert.Equal(t, 32.0, scored.Measure(1, ColTotalCombat))

	top, err := RankTop(scored, ColTotalCombat, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names(top))
}

func TestComputeCombatPower_ExactSum(t *testing.T) {
	var rows []Record
	for i := 0; i < 25; i++ {
		f := float64(i)
		rows = append(rows, combatRow(fmt.Sprintf("P%d", i), f*1.1, f*0.3+2, 7-f, f*f/3))
	}
	scored, err := ComputeCombatPower(combatTable(rows...))
	require.NoError(t, err)

	for i := 0; i < scored.Len(); i++ {
		want := scored.Measure(i, "hp") + scored.Measure(i, "melee_attack") +
			scored.Measure(i, "remote_attack") + scored.Measure(i, "defense")
		assert.Equal(t, want, scored.Measure(i, ColTotalCombat), "row %d", i)
	}
}

func TestComputeCombatPower_NaNPropagates(t *testing.T) {
	table := combatTable(combatRow("A", math.NaN(), 1, 1, 1), combatRow("B", 1, 1, 1, 1))

	scored, err := ComputeCombatPower(table)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(scored.Measure(0, ColTotalCombat)))
	assert.Equal(t, 4.0, scored.Measure(1, ColTotalCombat))
	assert.Equal(t, 1, CountNaN(scored, ColTotalCombat))
}

func TestComputeCombatPower_DoesNotTouchInput(t *testing.T) {
	table := combatTable(combatRow("A", 1, 2, 3, 4))
	before := append([]string(nil), table.MeasureKeys()...)

	scored, err := ComputeCombatPower(table)
	require.NoError(t, err)

	assert.Equal(t, before, table.MeasureKeys())
	assert.True(t, HasMeasure(scored, ColTotalCombat))
	assert.False(t, HasMeasure(table, ColTotalCombat))
	assert.Equal(t, "combat", TableName(scored))
}

func TestComputeCombatPower_SchemaErrors(t *testing.T) {
	missing := NewTable("combat",
		[]Record{rec(map[string]string{"name": "A"}, map[string]float64{"hp": 1, "melee_attack": 1, "remote_attack": 1})},
		[]string{"name"}, []string{"hp", "melee_attack", "remote_attack"})

	_, err := ComputeCombatPower(missing)
	require.Error(t, err)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "combat", se.Table)
	assert.Equal(t, "defense", se.Column)
	assert.Equal(t, ReasonMissing, se.Reason)

	textual := NewTable("combat",
		[]Record{rec(map[string]string{"name": "A", "defense": "high"}, map[string]float64{"hp": 1, "melee_attack": 1, "remote_attack": 1})},
		[]string{"name", "defense"}, []string{"hp", "melee_attack", "remote_attack"})

	_, err = ComputeCombatPower(textual)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ReasonNotNumeric, se.Reason)
	assert.True(t, IsSchemaError(err))
}

// ============================================================================
// JOB COMPOSITE
// ============================================================================

func jobTable(meas []string, rows ...Record) RecordView {
	return NewTable("jobs", rows, []string{"english_name"}, meas)
}

func TestComputeJobComposite(t *testing.T) {
	cols := []string{"handling_speed", "rarity", "kindling", "watering", "mining"}
	table := jobTable(cols,
		rec(map[string]string{"english_name": "Lamball"}, map[string]float64{"handling_speed": 2, "rarity": 5, "kindling": 0, "watering": 1, "mining": 0}),
		rec(map[string]string{"english_name": "Foxparks"}, map[string]float64{"handling_speed": 3, "rarity": 1, "kindling": 2, "watering": 1, "mining": 4}),
		rec(map[string]string{"english_name": "Ghost"}, map[string]float64{"handling_speed": 1, "rarity": 9, "kindling": math.NaN(), "watering": -1, "mining": 0}),
	)

	out, err := ComputeJobComposite(table)
	require.NoError(t, err)

	assert.Equal(t, []string{"kindling", "watering", "mining"}, SkillColumns(table))
	assert.Equal(t, []float64{1, 3, 0}, []float64{out.Measure(0, ColNbSkills), out.Measure(1, ColNbSkills), out.Measure(2, ColNbSkills)})

	skillCount := float64(len(SkillColumns(table)))
	for i := 0; i < out.Len(); i++ {
		nb := out.Measure(i, ColNbSkills)
		assert.Equal(t, out.Measure(i, "handling_speed")*nb, out.Measure(i, ColComposite))
		assert.Equal(t, math.Trunc(nb), nb)
		assert.GreaterOrEqual(t, nb, 0.0)
		assert.LessOrEqual(t, nb, skillCount)
	}
}

func TestComputeJobComposite_WithoutRarity(t *testing.T) {
	table := jobTable([]string{"handling_speed", "kindling"},
		rec(map[string]string{"english_name": "A"}, map[string]float64{"handling_speed": 4, "kindling": 1}))

	out, err := ComputeJobComposite(table)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.Measure(0, ColNbSkills))
	assert.Equal(t, 4.0, out.Measure(0, ColComposite))
}

func TestComputeJobComposite_Reapplied(t *testing.T) {
	table := jobTable([]string{"handling_speed", "kindling", "mining"},
		rec(map[string]string{"english_name": "A"}, map[string]float64{"handling_speed": 2, "kindling": 1, "mining": 1}))

	once, err := ComputeJobComposite(table)
	require.NoError(t, err)
	twice, err := ComputeJobComposite(once)
	require.NoError(t, err)

	assert.Equal(t, once.Measure(0, ColNbSkills), twice.Measure(0, ColNbSkills))
	assert.Equal(t, once.Measure(0, ColComposite), twice.Measure(0, ColComposite))
	assert.Len(t, twice.MeasureKeys(), 5)
}

func TestComputeJobComposite_MissingHandlingSpeed(t *testing.T) {
	table := jobTable([]string{"rarity", "kindling"},
		rec(map[string]string{"english_name": "A"}, map[string]float64{"rarity": 1, "kindling": 1}))

	_, err := ComputeJobComposite(table)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "handling_speed", se.Column)
}

// ============================================================================
// BOSS POWER
// ============================================================================

func TestComputeBossPower_Degrades(t *testing.T) {
	table := NewTable("ordinary_boss",
		[]Record{
			rec(map[string]string{"name": "X"}, map[string]float64{"hp": 100, "melee_attack": 10, "remote_attack": 20, "defense": 5}),
			rec(map[string]string{"name": "Y"}, map[string]float64{"hp": 50, "melee_attack": 50, "remote_attack": 50, "defense": 50}),
		},
		[]string{"name"}, []string{"hp", "melee_attack", "remote_attack", "defense"})

	cols := AvailableColumns(table, BossPowerColumns)
	assert.Equal(t, []string{"hp", "melee_attack", "remote_attack", "defense"}, cols)

	out, err := ComputeBossPower(table, cols)
	require.NoError(t, err)
	assert.Equal(t, 135.0, out.Measure(0, ColTotalPower))
	assert.Equal(t, 200.0, out.Measure(1, ColTotalPower))
}

func TestComputeBossPower_AllColumns(t *testing.T) {
	table := NewTable("tower_boss",
		[]Record{rec(map[string]string{"name": "Zoe"}, map[string]float64{"hp": 1, "melee_attack": 2, "remote_attack": 3, "defense": 4, "support": 5})},
		[]string{"name"}, BossPowerColumns)

	out, err := ComputeBossPower(table, BossPowerColumns)
	require.NoError(t, err)
	assert.Equal(t, 15.0, out.Measure(0, ColTotalPower))
}

func TestComputeBossPower_NoColumns(t *testing.T) {
	table := NewTable("ordinary_boss",
		[]Record{rec(map[string]string{"name": "Z"}, map[string]float64{"level": 3})},
		[]string{"name"}, []string{"level"})

	cols := AvailableColumns(table, BossPowerColumns)
	assert.Empty(t, cols)

	out, err := ComputeBossPower(table, cols)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Measure(0, ColTotalPower))
}

func TestComputeBossPower_RequiresListedColumns(t *testing.T) {
	table := NewTable("tower_boss",
		[]Record{rec(map[string]string{"name": "Z"}, map[string]float64{"hp": 3})},
		[]string{"name"}, []string{"hp"})

	_, err := ComputeBossPower(table, BossPowerColumns)
	assert.True(t, IsSchemaError(err))
}

// ============================================================================
// CATEGORY GROUPING
// ============================================================================

func refreshTable(areas []string) RecordView {
	rows := make([]Record, len(areas))
	for i, a := range areas {
		rows[i] = rec(map[string]string{"refresh_area": a}, map[string]float64{"min_level": float64(i % 50)})
	}
	return NewTable("refresh", rows, []string{"refresh_area"}, []string{"min_level"})
}

func forestCaveAreas() []string {
	var areas []string
	for i := 0; i < 15; i++ {
		areas = append(areas, fmt.Sprintf("Single%02d", i))
	}
	for i := 0; i < 50; i++ {
		areas = append(areas, "Forest")
	}
	for i := 0; i < 30; i++ {
		areas = append(areas, "Cave")
	}
	return areas
}

func TestGroupTopCategories_Scenario(t *testing.T) {
	table := refreshTable(forestCaveAreas())

	out, err := GroupTopCategories(table, "refresh_area", 10, WithOutputColumn(ColZoneGrouped))
	require.NoError(t, err)

	counts := map[string]int{}
	for i := 0; i < out.Len(); i++ {
		counts[out.Dimension(i, ColZoneGrouped)]++
	}

	assert.Equal(t, 50, counts["Forest"])
	assert.Equal(t, 30, counts["Cave"])
	assert.Equal(t, 7, counts[OtherLabel])
	assert.Len(t, counts, 11)

	// First appearance breaks the tie among singletons.
	for i := 0; i < 8; i++ {
		assert.Equal(t, 1, counts[fmt.Sprintf("Single%02d", i)])
	}
	for i := 8; i < 15; i++ {
		assert.Zero(t, counts[fmt.Sprintf("Single%02d", i)])
	}

	// Source column is untouched.
	assert.Equal(t, "Single09", out.Dimension(9, "refresh_area"))
}

func TestGroupTopCategories_Idempotent(t *testing.T) {
	table := refreshTable(forestCaveAreas())

	once, err := GroupTopCategories(table, "refresh_area", 10, WithOutputColumn(ColZoneGrouped))
	require.NoError(t, err)
	twice, err := GroupTopCategories(once, ColZoneGrouped, 10, WithOutputColumn(ColZoneGrouped))
	require.NoError(t, err)

	for i := 0; i < once.Len(); i++ {
		assert.Equal(t, once.Dimension(i, ColZoneGrouped), twice.Dimension(i, ColZoneGrouped), "row %d", i)
	}
}

func TestGroupTopCategories_Deterministic(t *testing.T) {
	table := refreshTable(forestCaveAreas())
	a, err := GroupTopCategories(table, "refresh_area", 3)
	require.NoError(t, err)
	b, err := GroupTopCategories(table, "refresh_area", 3)
	require.NoError(t, err)

	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.Dimension(i, "refresh_area"), b.Dimension(i, "refresh_area"))
	}
	assert.Equal(t, []string{"Single00", OtherLabel, "Forest", "Cave"}, uniqueValues(a, "refresh_area"))
}

func TestGroupTopCategories_EmptyAndSentinel(t *testing.T) {
	table := refreshTable([]string{"", "", "", "Autres", "Autres", "Beach"})

	out, err := GroupTopCategories(table, "refresh_area", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{OtherLabel, "Beach"}, uniqueValues(out, "refresh_area"))
	assert.Equal(t, "Beach", out.Dimension(5, "refresh_area"))
}

func TestGroupTopCategories_KeepsRawValues(t *testing.T) {
	table := refreshTable([]string{" Forest", " Forest", "Forest", "   ", "Cave"})

	out, err := GroupTopCategories(table, "refresh_area", 2)
	require.NoError(t, err)
	assert.Equal(t, " Forest", out.Dimension(0, "refresh_area"))
	assert.Equal(t, "Forest", out.Dimension(2, "refresh_area"))
	assert.Equal(t, OtherLabel, out.Dimension(3, "refresh_area"), "blank cells never take a place")
	assert.Equal(t, OtherLabel, out.Dimension(4, "refresh_area"))
}

func TestGroupTopCategories_ZeroK(t *testing.T) {
	out, err := GroupTopCategories(refreshTable([]string{"a", "b"}), "refresh_area", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{OtherLabel}, uniqueValues(out, "refresh_area"))
}

func TestGroupTopCategories_SchemaError(t *testing.T) {
	table := refreshTable([]string{"a"})

	_, err := GroupTopCategories(table, "biome", 10)
	assert.True(t, IsSchemaError(err))

	_, err = GroupTopCategories(table, "min_level", 10)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ReasonNotCategorical, se.Reason)
}
