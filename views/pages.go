package views

import (
	"fmt"

	"github.com/lisacrebassa/pals-analysis/dataset"
	"github.com/lisacrebassa/pals-analysis/engine"
)

// Section ids, stable across renders. Chart URLs and XLSX sheets use them.
const (
	SectionTopCombat    = "top_combat"
	SectionCorrelation  = "correlation"
	SectionSizePower    = "size_vs_power"
	SectionTopWorkers   = "top_workers"
	SectionRanch        = "ranch"
	SectionNocturnal    = "nocturnal"
	SectionLevels       = "spawn_levels"
	SectionZones        = "top_zones"
	SectionTowerBoss    = "tower_boss"
	SectionOrdinaryBoss = "ordinary_boss"
)

// ============================================================================
// STRATÉGIE DE COMBAT
// ============================================================================

func renderCombat(env *Env) (*Page, error) {
	combat, err := env.table(dataset.Combat)
	if err != nil {
		return nil, err
	}

	scored, err := engine.ComputeCombatPower(combat)
	if err != nil {
		return nil, err
	}
	env.checkNaN(scored, engine.ColTotalCombat)

	top, err := engine.RankTop(scored, engine.ColTotalCombat, env.Options.TopN)
	if err != nil {
		return nil, err
	}
	topTable, err := engine.BuildTable(top, []string{"name", engine.ColTotalCombat},
		fmt.Sprintf("Top %d des Pals les plus puissants", env.Options.TopN))
	if err != nil {
		return nil, err
	}

	corr, err := engine.Correlation(combat, engine.CombatPowerColumns)
	if err != nil {
		return nil, err
	}
	heatmap := engine.BuildHeatmap(corr, "Corrélations entre attributs de combat")

	scatter, err := engine.BuildScatter(scored, "volume_size", engine.ColTotalCombat,
		"Taille vs Puissance de combat", engine.WithLabelColumn("name"))
	if err != nil {
		return nil, err
	}

	return &Page{
		Header: "⚔️ Optimisation des Stratégies de Combat",
		Sections: []*Section{
			tableSection(SectionTopCombat, topTable),
			chartSection(SectionCorrelation, heatmap),
			chartSection(SectionSizePower, scatter),
		},
	}, nil
}

// ============================================================================
// GESTION DU CAMPEMENT
// ============================================================================

func renderCamp(env *Env) (*Page, error) {
	jobs, err := env.table(dataset.Jobs)
	if err != nil {
		return nil, err
	}
	hidden, err := env.table(dataset.Hidden)
	if err != nil {
		return nil, err
	}

	scored, err := engine.ComputeJobComposite(jobs)
	if err != nil {
		return nil, err
	}
	env.checkNaN(scored, engine.ColComposite)

	top, err := engine.RankTop(scored, engine.ColComposite, env.Options.TopN)
	if err != nil {
		return nil, err
	}
	workers, err := engine.BuildTable(top, []string{"english_name", "handling_speed", engine.ColNbSkills},
		fmt.Sprintf("Top %d des Pals les plus efficaces pour le travail", env.Options.TopN))
	if err != nil {
		return nil, err
	}

	if err := engine.RequireMeasures(hidden, "pasture", "nocturnal"); err != nil {
		return nil, err
	}

	ranch := engine.FilterPredicate(hidden, engine.MeasureAbove("pasture", 0))
	ranchTable, err := engine.BuildTable(ranch, []string{"tribe", "pasture"},
		"Pals produisant des ressources utiles (ranch)")
	if err != nil {
		return nil, err
	}

	nocturnal := engine.FilterPredicate(hidden, engine.MeasureEquals("nocturnal", 1))
	nocturnalTable, err := engine.BuildTable(nocturnal, []string{"tribe", "rarity", "foodamount"},
		"Pals actifs la nuit")
	if err != nil {
		return nil, err
	}
	nocturnalSection := tableSection(SectionNocturnal, nocturnalTable)
	nocturnalSection.Text = engine.BuildCountText("Nombre de Pals nocturnes :", nocturnal)

	return &Page{
		Header: "🏕️ Optimisation de la Production au Campement",
		Sections: []*Section{
			tableSection(SectionTopWorkers, workers),
			tableSection(SectionRanch, ranchTable),
			nocturnalSection,
		},
	}, nil
}

// ============================================================================
// ZONES & BOSS
// ============================================================================

func renderZones(env *Env) (*Page, error) {
	refresh, err := env.table(dataset.Refresh)
	if err != nil {
		return nil, err
	}
	tower, err := env.table(dataset.TowerBoss)
	if err != nil {
		return nil, err
	}
	ordinary, err := env.table(dataset.OrdinaryBoss)
	if err != nil {
		return nil, err
	}

	bins, err := engine.Histogram(refresh, "min_level", engine.WithBins(env.Options.HistogramBins))
	if err != nil {
		return nil, err
	}
	levels := engine.BuildHistogram(bins, "min_level", "Distribution des niveaux d'apparition")

	grouped, err := engine.GroupTopCategories(refresh, "refresh_area", env.Options.ZoneTopK,
		engine.WithOutputColumn(engine.ColZoneGrouped))
	if err != nil {
		return nil, err
	}
	counts, err := engine.ValueCounts(grouped, engine.ColZoneGrouped)
	if err != nil {
		return nil, err
	}
	zones := engine.BuildCountPlot(counts, engine.ColZoneGrouped,
		fmt.Sprintf("Top %d zones d'apparition", env.Options.ZoneTopK))

	// Tower bosses carry every power column; ordinary bosses use what they have.
	towerPower, err := engine.ComputeBossPower(tower, engine.BossPowerColumns)
	if err != nil {
		return nil, err
	}
	ordinaryPower, err := engine.ComputeBossPower(ordinary, engine.AvailableColumns(ordinary, engine.BossPowerColumns))
	if err != nil {
		return nil, err
	}
	env.checkNaN(towerPower, engine.ColTotalPower)
	env.checkNaN(ordinaryPower, engine.ColTotalPower)

	const bossTitle = "Boss les plus puissants"
	towerSection, err := env.bossSection(SectionTowerBoss, bossTitle, "Tower Boss le plus puissant :", towerPower)
	if err != nil {
		return nil, err
	}
	ordinarySection, err := env.bossSection(SectionOrdinaryBoss, "", "Ordinary Boss le plus puissant :", ordinaryPower)
	if err != nil {
		return nil, err
	}

	return &Page{
		Header: "🌍 Zones d'apparition & Boss",
		Sections: []*Section{
			chartSection(SectionLevels, levels),
			chartSection(SectionZones, zones),
			towerSection,
			ordinarySection,
		},
	}, nil
}

func (env *Env) bossSection(id, title, label string, bosses engine.RecordView) (*Section, error) {
	if err := engine.RequireColumns(bosses, "name"); err != nil {
		return nil, err
	}
	top, err := engine.TopSingle(bosses, engine.ColTotalPower)
	if engine.IsEmptyInput(err) {
		return env.messageSection(id, title, err), nil
	}
	if err != nil {
		return nil, err
	}
	return &Section{
		ID:    id,
		Title: title,
		Type:  SectionText,
		Text:  engine.BuildRecordText(label, top, "name", engine.ColTotalPower),
	}, nil
}
