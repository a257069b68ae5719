// Package scraper fetches the YTU event calendar page and extracts event
// records from it.
//
// Extraction is a cascade of heuristic strategies tried in priority order:
// event card containers, label-anchored reconstruction, event link scan,
// label proximity pairing and finally a regex over the flat page text. The
// first strategy that yields any candidate wins. Candidates are then
// normalized and deduplicated by the event package. Finding nothing is a
// valid, empty result.
package scraper
