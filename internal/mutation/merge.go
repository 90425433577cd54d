// ABOUTME: Pure merge rules for patching the aggregate patient record
// ABOUTME: Profile merges shallowly; goals upsert by date, one entry per day

package mutation

import "github.com/openhealth/carebridge/internal/api"

// ProfilePatch is the editable profile field set. The profile form submits
// all four fields, so the merge applies them wholesale; the profile ID is
// preserved from the fetched record.
type ProfilePatch struct {
	Name        string
	Age         int
	Allergies   string
	Medications string
}

// GoalMetrics is one day's goal targets.
type GoalMetrics struct {
	Steps int
	Water float64
	Sleep float64
}

// MergeProfile returns a copy of record with the patch applied to its profile.
func MergeProfile(record *api.PatientRecord, patch ProfilePatch) *api.PatientRecord {
	merged := *record
	merged.Profile.Name = patch.Name
	merged.Profile.Age = patch.Age
	merged.Profile.Allergies = patch.Allergies
	merged.Profile.Medications = patch.Medications
	return &merged
}

// MergeGoals returns a copy of record with the metrics applied for date.
// An existing entry for the date is replaced in place; otherwise a new entry
// is appended. The goals array never ends up with two entries for one date.
// The dashboard's goal snapshot is updated to the same values in the same
// record so both land in a single write-back.
func MergeGoals(record *api.PatientRecord, date string, metrics GoalMetrics) *api.PatientRecord {
	merged := *record

	merged.Goals = make([]api.GoalEntry, len(record.Goals))
	copy(merged.Goals, record.Goals)

	updated := api.GoalEntry{
		Date:  date,
		Steps: metrics.Steps,
		Water: metrics.Water,
		Sleep: metrics.Sleep,
	}

	found := false
	for i, entry := range merged.Goals {
		if entry.Date == date {
			merged.Goals[i] = updated
			found = true
			break
		}
	}
	if !found {
		merged.Goals = append(merged.Goals, updated)
	}

	merged.Dashboard.Goals = api.DailyGoals{
		Steps: metrics.Steps,
		Water: metrics.Water,
		Sleep: metrics.Sleep,
	}
	return &merged
}
