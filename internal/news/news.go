// Package news holds the item model shared by every pipeline stage.
package news

import "time"

// Item is the unit of work flowing through the pipeline. Title and Summary
// are already cleaned and length-bounded by the fetch stage; Category and
// Fingerprint are assigned at fetch time and immutable afterwards.
type Item struct {
	Title       string
	Summary     string
	URL         string
	Source      string
	PublishedAt time.Time
	Category    string
	Fingerprint string
}

// ItemFailure records one item that could not be delivered.
type ItemFailure struct {
	Fingerprint string
	Reason      string
}

// Report is the externally observable outcome of one run.
type Report struct {
	ItemsFetched   int
	ItemsPublished int
	Failures       []ItemFailure
}

// NothingToPublish reports whether the run fetched zero items. This is a
// normal terminal outcome, distinct from a run that failed before fetching.
func (r Report) NothingToPublish() bool {
	return r.ItemsFetched == 0
}
