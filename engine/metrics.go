package engine

// ============================================================================
// DERIVED METRICS: Fixed-formula row aggregation
// ============================================================================
// Each function returns a DerivedView: the input view plus one or more
// computed measure columns. The input is never modified, so a cached table
// can be annotated by any number of concurrent render passes.
//
// NaN is not special-cased: a NaN operand yields a NaN result.
// ============================================================================

// Derived column names.
const (
	ColTotalCombat = "total_combat"
	ColNbSkills    = "nb_skills"
	ColComposite   = "composite"
	ColTotalPower  = "total_power"
	ColZoneGrouped = "zone_grouped"
)

// CombatPowerColumns are summed into total_combat.
var CombatPowerColumns = []string{"hp", "melee_attack", "remote_attack", "defense"}

// BossPowerColumns is the canonical set summed into total_power.
var BossPowerColumns = []string{"hp", "melee_attack", "remote_attack", "defense", "support"}

// jobNonSkillColumns are numeric job columns that are not skills.
var jobNonSkillColumns = []string{"handling_speed", "rarity"}

// ComputeCombatPower adds total_combat = hp + melee_attack + remote_attack + defense.
// All four columns must be present and numeric.
func ComputeCombatPower(view RecordView) (RecordView, error) {
	if err := RequireMeasures(view, CombatPowerColumns...); err != nil {
		return nil, err
	}
	return withRowSum(view, ColTotalCombat, CombatPowerColumns), nil
}

// ComputeBossPower adds total_power = Σ columns. Pair it with AvailableColumns
// to degrade gracefully when a boss table lacks some stats.
func ComputeBossPower(view RecordView, columns []string) (RecordView, error) {
	if err := RequireMeasures(view, columns...); err != nil {
		return nil, err
	}
	return withRowSum(view, ColTotalPower, columns), nil
}

// AvailableColumns keeps, in candidate order, the candidates that are numeric
// columns of view.
func AvailableColumns(view RecordView, candidates []string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if HasMeasure(view, c) {
			out = append(out, c)
		}
	}
	return out
}

// SkillColumns lists the numeric columns counted by ComputeJobComposite.
// handling_speed and rarity are excluded when present; previously derived
// job columns are never counted.
func SkillColumns(view RecordView) []string {
	var out []string
	for _, k := range view.MeasureKeys() {
		if containsKey(jobNonSkillColumns, k) || k == ColNbSkills || k == ColComposite {
			continue
		}
		out = append(out, k)
	}
	return out
}

// ComputeJobComposite adds nb_skills (count of skill columns > 0) and
// composite = handling_speed × nb_skills.
func ComputeJobComposite(view RecordView) (RecordView, error) {
	if err := RequireMeasures(view, "handling_speed"); err != nil {
		return nil, err
	}

	skills := SkillColumns(view)
	n := view.Len()
	nbSkills := make([]float64, n)
	composite := make([]float64, n)

	for i := 0; i < n; i++ {
		count := 0
		for _, k := range skills {
			if view.Measure(i, k) > 0 {
				count++
			}
		}
		nbSkills[i] = float64(count)
		composite[i] = view.Measure(i, "handling_speed") * float64(count)
	}

	return newDerivedView(view).
		withMeasure(ColNbSkills, nbSkills).
		withMeasure(ColComposite, composite), nil
}

func withRowSum(view RecordView, key string, columns []string) RecordView {
	n := view.Len()
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		var total float64
		for _, c := range columns {
			total += view.Measure(i, c)
		}
		values[i] = total
	}
	return newDerivedView(view).withMeasure(key, values)
}

// ============================================================================
// CATEGORY GROUPING
// ============================================================================

// OtherLabel is the sentinel for collapsed low-frequency categories.
const OtherLabel = "Autres"

// GroupTopCategories keeps the k most frequent values of a categorical column
// and relabels every other value (and blank cells) to "Autres". Kept values
// are written exactly as they appear in the source cell.
//
// Ranking is by frequency, ties broken by first appearance. The sentinel and
// empty values never take one of the k places, which makes the operation
// idempotent on its own output.
//
// By default the source column is relabeled; WithOutputColumn writes a new one.
func GroupTopCategories(view RecordView, column string, k int, opts ...Option) (RecordView, error) {
	cfg := applyOptions(opts)
	if err := requireDimension(view, column); err != nil {
		return nil, err
	}

	kept := make(map[string]bool, k)
	if k > 0 {
		for _, g := range CountBy(view, column) {
			if len(kept) >= k {
				break
			}
			if isBlank(g.Key) || g.Key == cfg.OtherLabel {
				continue
			}
			kept[g.Key] = true
		}
	}

	n := view.Len()
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		val := view.Dimension(i, column)
		if kept[val] {
			labels[i] = val
		} else {
			labels[i] = cfg.OtherLabel
		}
	}

	out := cfg.OutputColumn
	if out == "" {
		out = column
	}
	return newDerivedView(view).withDimension(out, labels), nil
}
