package engine

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreTable(scores map[string]float64, order []string) RecordView {
	rows := make([]Record, 0, len(order))
	for _, n := range order {
		rows = append(rows, rec(map[string]string{"name": n}, map[string]float64{"score": scores[n]}))
	}
	return NewTable("scores", rows, []string{"name"}, []string{"score"})
}

func TestRankTop_Properties(t *testing.T) {
	order := []string{"a", "b", "c", "d", "e", "f", "g"}
	scores := map[string]float64{"a": 3, "b": 9, "c": 3, "d": -1, "e": 9, "f": 0, "g": 5}
	table := scoreTable(scores, order)

	for _, n := range []int{0, 1, 3, 7, 20} {
		top, err := RankTop(table, "score", n)
		require.NoError(t, err)

		want := n
		if want > table.Len() {
			want = table.Len()
		}
		require.Equal(t, want, top.Len(), "n=%d", n)

		for i := 1; i < top.Len(); i++ {
			assert.GreaterOrEqual(t, top.Measure(i-1, "score"), top.Measure(i, "score"))
		}
		// Rows are the original rows, not recomputed values.
		for i := 0; i < top.Len(); i++ {
			assert.Equal(t, scores[top.Dimension(i, "name")], top.Measure(i, "score"))
		}
	}
}

func TestRankTop_StableTies(t *testing.T) {
	table := scoreTable(map[string]float64{"a": 3, "b": 9, "c": 3, "e": 9}, []string{"a", "b", "c", "e"})

	top, err := RankTop(table, "score", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "e", "a", "c"}, names(top))

	asc, err := RankTop(table, "score", 4, Ascending())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b", "e"}, names(asc))
}

func TestRankTop_NaNLast(t *testing.T) {
	table := scoreTable(map[string]float64{"a": math.NaN(), "b": 1, "c": 2}, []string{"a", "b", "c"})

	top, err := RankTop(table, "score", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, names(top))

	asc, err := RankTop(table, "score", 3, Ascending())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, names(asc))
}

func TestRankTop_NonNumeric(t *testing.T) {
	_, err := RankTop(scoreTable(nil, nil), "name", 3)
	assert.True(t, IsSchemaError(err))
}

func TestTopSingle(t *testing.T) {
	table := scoreTable(map[string]float64{"a": 1, "b": 7, "c": 7}, []string{"a", "b", "c"})

	top, err := TopSingle(table, "score")
	require.NoError(t, err)
	assert.Equal(t, "b", top.Dimensions["name"])
	assert.Equal(t, 7.0, top.Measures["score"])
}

func TestTopSingle_Empty(t *testing.T) {
	_, err := TopSingle(scoreTable(nil, nil), "score")
	require.Error(t, err)

	var ee *EmptyInputError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "scores", ee.Table)
	assert.Equal(t, "TopSingle", ee.Op)
	assert.True(t, IsEmptyInput(err))
	assert.False(t, IsSchemaError(err))
}

func TestTopSingle_AfterEmptyFilter(t *testing.T) {
	table := scoreTable(map[string]float64{"a": 1}, []string{"a"})
	none := FilterPredicate(table, MeasureAbove("score", 100))

	_, err := TopSingle(none, "score")
	assert.True(t, IsEmptyInput(err))
}

// ============================================================================
// FILTERS
// ============================================================================

func hiddenTable() RecordView {
	rows := []Record{
		rec(map[string]string{"tribe": "Lamball"}, map[string]float64{"pasture": 1, "nocturnal": 0, "rarity": 1, "foodamount": 3}),
		rec(map[string]string{"tribe": "Depresso"}, map[string]float64{"pasture": 0, "nocturnal": 1, "rarity": 2, "foodamount": 2}),
		rec(map[string]string{"tribe": "Chikipi"}, map[string]float64{"pasture": 2, "nocturnal": 0, "rarity": 1, "foodamount": 1}),
		rec(map[string]string{"tribe": "Tombat"}, map[string]float64{"pasture": math.NaN(), "nocturnal": 1, "rarity": 4, "foodamount": 5}),
		rec(map[string]string{"tribe": "Vixy"}, map[string]float64{"pasture": 3, "nocturnal": math.NaN(), "rarity": 1, "foodamount": 2}),
	}
	return NewTable("hidden", rows, []string{"tribe"}, []string{"pasture", "nocturnal", "rarity", "foodamount"})
}

func TestFilterPredicate(t *testing.T) {
	table := hiddenTable()

	ranch := FilterPredicate(table, MeasureAbove("pasture", 0))
	assert.Equal(t, []string{"Lamball", "Chikipi", "Vixy"}, uniqueValues(ranch, "tribe"))

	night := FilterPredicate(table, MeasureEquals("nocturnal", 1))
	assert.Equal(t, []string{"Depresso", "Tombat"}, uniqueValues(night, "tribe"))
	assert.Equal(t, "hidden", TableName(night))

	none := FilterPredicate(table, MeasureAbove("rarity", 10))
	assert.Zero(t, none.Len())
	assert.Equal(t, table.MeasureKeys(), none.MeasureKeys())
}
