package state

import "os"

const (
	ActionExport = "export"
	ActionSkip   = "skip"

	ReasonForced          = "forced"
	ReasonNew             = "new composition"
	ReasonSettingsChanged = "settings changed"
	ReasonInputChanged    = "composition changed"
	ReasonOutputMissing   = "output missing"
	ReasonUpToDate        = "up to date"
)

// Decision is what to do with an export request. Prior is set when an
// earlier export of the same composition exists.
type Decision struct {
	Action string
	Reason string
	Prior  *ExportEntry
}

// Detect compares the current inputs against the stored export state.
func Detect(es *ExportState, in Inputs, force bool) Decision {
	var prior *ExportEntry
	if entry, ok := es.Exports[in.Key()]; ok {
		prior = &entry
	}

	if force {
		return Decision{Action: ActionExport, Reason: ReasonForced, Prior: prior}
	}
	if es.SettingsHash != "" && SettingsHash(in.Settings) != es.SettingsHash {
		return Decision{Action: ActionExport, Reason: ReasonSettingsChanged, Prior: prior}
	}
	if prior == nil {
		return Decision{Action: ActionExport, Reason: ReasonNew}
	}
	if CompositionHash(in) != prior.InputHash {
		return Decision{Action: ActionExport, Reason: ReasonInputChanged, Prior: prior}
	}
	if _, err := os.Stat(prior.Artifact); os.IsNotExist(err) {
		return Decision{Action: ActionExport, Reason: ReasonOutputMissing, Prior: prior}
	}
	return Decision{Action: ActionSkip, Reason: ReasonUpToDate, Prior: prior}
}

// Prune removes entries whose artifact no longer exists on disk.
func Prune(es *ExportState) {
	for key, entry := range es.Exports {
		if _, err := os.Stat(entry.Artifact); os.IsNotExist(err) {
			delete(es.Exports, key)
		}
	}
}
