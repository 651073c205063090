package entity

// MergeOutcome describes how a merge resolved.
type MergeOutcome string

const (
	MergeStoredEmpty     MergeOutcome = "stored_empty"
	MergeReplacedInvalid MergeOutcome = "replaced_invalid"
	MergeGainedHTML      MergeOutcome = "gained_html"
	MergeLonger          MergeOutcome = "longer"
	MergeKeptResident    MergeOutcome = "kept_resident"
	MergeStorageFailed   MergeOutcome = "storage_failed"
)

// DecideMerge applies the "best version wins" policy. resident may be nil;
// residentValid reports whether it passed validation. It reports whether
// candidate should replace the resident record.
func DecideMerge(resident *Article, residentValid bool, candidate *Article) (bool, MergeOutcome) {
	switch {
	case resident == nil:
		return true, MergeStoredEmpty
	case !residentValid:
		return true, MergeReplacedInvalid
	case !resident.HasHTMLContent() && candidate.HasHTMLContent():
		return true, MergeGainedHTML
	case candidate.Length > resident.Length:
		return true, MergeLonger
	default:
		return false, MergeKeptResident
	}
}
