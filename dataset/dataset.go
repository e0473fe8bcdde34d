// Package dataset loads the six Pal tables once and serves them read-only.
package dataset

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Name identifies one of the input tables.
type Name string

const (
	Combat       Name = "combat"
	Jobs         Name = "jobs"
	Hidden       Name = "hidden"
	Refresh      Name = "refresh"
	TowerBoss    Name = "tower_boss"
	OrdinaryBoss Name = "ordinary_boss"
)

// All lists every dataset in load order.
var All = []Name{Combat, Jobs, Hidden, Refresh, TowerBoss, OrdinaryBoss}

// DefaultFiles maps each dataset to the file name it is published under.
var DefaultFiles = map[Name]string{
	Combat:       "Cleaned_Combat_Attribute_Table.csv",
	Jobs:         "Cleaned_Job_Skills_Table.csv",
	Hidden:       "hidden_pallu_attributes_cleaned.csv",
	Refresh:      "Cleaned_Pal_Refresh_Levels.csv",
	TowerBoss:    "Cleaned_Tower_BOSS_Attributes.csv",
	OrdinaryBoss: "pals_with_inferred_boss_stats.csv",
}

// ParseName validates a dataset name.
func ParseName(s string) (Name, error) {
	for _, n := range All {
		if string(n) == s {
			return n, nil
		}
	}
	return "", errors.Errorf("unknown dataset %q", s)
}

// Files merges per-dataset file name overrides into DefaultFiles.
func Files(overrides map[string]string) (map[Name]string, error) {
	files := make(map[Name]string, len(DefaultFiles))
	for n, f := range DefaultFiles {
		files[n] = f
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		n, err := ParseName(k)
		if err != nil {
			return nil, errors.Wrap(err, "data.files")
		}
		if overrides[k] != "" {
			files[n] = overrides[k]
		}
	}
	return files, nil
}

// LoadError reports a dataset file that is missing, unreadable or
// malformed, or a data source that cannot be built. Dataset is empty in
// the latter case. It is fatal at startup.
type LoadError struct {
	Dataset Name
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Dataset == "" {
		return fmt.Sprintf("load datasets (%s): %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load dataset %s (%s): %v", e.Dataset, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
