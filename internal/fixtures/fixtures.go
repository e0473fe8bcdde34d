// Package fixtures holds small copies of the six Pal tables for tests.
package fixtures

import (
	"os"
	"path/filepath"
	"testing"
)

const CombatCSV = `name,hp,melee_attack,remote_attack,defense,volume_size
Lamball,70,70,70,70,1
Cattiva,70,70,70,70,1
Chikipi,60,70,70,60,1
Foxparks,65,70,75,70,1
Pengullet,70,70,75,70,1
Depresso,70,70,70,70,1
Jetragon,110,100,140,110,4
Anubis,120,130,130,100,3
Frostallion,140,100,140,120,4
Paladius,130,100,105,135,4
Shadowbeak,120,100,140,100,3
Blazamut,100,100,150,100,4
Orserk,100,100,130,100,3
Grizzbolt,105,100,120,100,3
Necromus,130,100,140,100,4
`

const JobsCSV = `english_name,handling_speed,rarity,kindling,watering,planting,generating_electricity,handiwork,gathering,lumbering,mining,medicine_production,cooling,transporting,farming
Lamball,1,1,0,0,0,0,1,0,0,0,0,0,1,1
Cattiva,1,1,0,0,0,0,1,0,0,1,0,0,1,0
Chikipi,1,1,0,0,,0,0,0,0,0,0,0,0,1
Foxparks,1,1,1,0,0,0,0,0,0,0,0,0,0,0
Pengullet,2,1,0,1,0,0,1,0,0,0,0,1,1,0
Depresso,2,3,0,0,0,0,1,0,0,0,1,0,1,0
Anubis,3,10,0,0,0,0,4,0,0,3,0,0,2,0
Frostallion,3,10,0,0,0,0,0,0,0,0,0,3,0,0
Jetragon,3,10,0,0,0,0,0,1,0,0,0,0,0,0
Tanzee,2,1,0,0,1,0,1,1,1,0,0,0,1,0
Lifmunk,1,1,0,0,1,0,1,1,1,0,1,0,0,0
Wixen,2,4,2,0,0,0,1,0,0,0,0,0,1,0
Grizzbolt,3,8,0,0,0,3,1,0,0,0,0,0,2,0
Mossanda,3,6,0,0,2,0,1,0,2,0,0,0,3,0
`

const HiddenCSV = `tribe,pasture,nocturnal,rarity,foodamount
Lamball,1,0,1,3
Cattiva,0,0,1,2
Chikipi,2,0,1,1
Depresso,0,1,2,2
Tombat,0,1,4,5
Vixy,3,0,1,2
Mozzarina,4,0,2,4
Beakon,0,0,5,6
Nox,0,1,3,4
Daedream,0,1,2,3
Lunaris,,0,4,3
`

const RefreshCSV = `min_level,refresh_area
1,Windswept Hills
8,Forgotten Island
15,Desolate Church
22,Sealed Realm
29,Mount Obsidian
36,Verdant Brook
43,Astral Mountain
50,Ice Wind Island
2,Sand Dunes
9,Fisherman's Point
16,Twilight Dunes
23,Bamboo Groves
30,Windswept Hills
37,Forgotten Island
44,Desolate Church
51,Sealed Realm
3,Mount Obsidian
10,Verdant Brook
17,Astral Mountain
24,Ice Wind Island
31,Sand Dunes
38,Fisherman's Point
45,Windswept Hills
52,Forgotten Island
4,Desolate Church
11,Sealed Realm
18,Mount Obsidian
25,Verdant Brook
32,Astral Mountain
39,Windswept Hills
46,Forgotten Island
53,Desolate Church
5,Sealed Realm
12,Windswept Hills
19,Forgotten Island
26,Windswept Hills
`

const TowerBossCSV = `name,hp,melee_attack,remote_attack,defense,support
Zoe & Grizzbolt,120,110,130,100,100
Lily & Lyleen,110,100,110,105,150
Axel & Orserk,130,120,130,110,100
Marcus & Faleris,140,120,140,115,100
Victor & Shadowbeak,150,130,150,120,110
`

// OrdinaryBossCSV has no support column.
const OrdinaryBossCSV = `name,hp,melee_attack,remote_attack,defense
Lamball,70,70,70,70
Jetragon,110,100,140,110
Frostallion,140,100,140,120
Anubis,120,130,130,100
`

// Files maps the published file names to their contents.
var Files = map[string]string{
	"Cleaned_Combat_Attribute_Table.csv":  CombatCSV,
	"Cleaned_Job_Skills_Table.csv":        JobsCSV,
	"hidden_pallu_attributes_cleaned.csv": HiddenCSV,
	"Cleaned_Pal_Refresh_Levels.csv":      RefreshCSV,
	"Cleaned_Tower_BOSS_Attributes.csv":   TowerBossCSV,
	"pals_with_inferred_boss_stats.csv":   OrdinaryBossCSV,
}

// TopCombat lists the ten strongest Pals of CombatCSV by total_combat.
var TopCombat = []string{
	"Frostallion", "Anubis", "Paladius", "Necromus", "Jetragon",
	"Shadowbeak", "Blazamut", "Orserk", "Grizzbolt", "Pengullet",
}

// TopWorkers lists the ten best workers of JobsCSV by composite.
var TopWorkers = []string{
	"Mossanda", "Tanzee", "Anubis", "Grizzbolt", "Pengullet",
	"Depresso", "Wixen", "Lifmunk", "Lamball", "Cattiva",
}

// WriteDir writes every file into a fresh temp directory, with
// replacements overriding (or, when empty, removing) individual files.
func WriteDir(t testing.TB, replace map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range Files {
		if r, ok := replace[name]; ok {
			if r == "" {
				continue
			}
			body = r
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return dir
}
