// Package event provides the event record types and the normalization and
// deduplication steps applied to every extracted candidate.
//
// A Candidate is what an extraction strategy produced, with any field possibly
// empty. Normalize turns it into a Record with a non-empty title, a resolved
// link, canonical date and time strings and a combined description rebuilt
// from the final field values. Dedupe collapses records sharing a title and
// time, keeping the first one seen.
package event
