// Package cli implements the command-line interface for ytu-events-rss.
//
// The root command fetches the YTU event calendar (or reads a captured HTML
// page or pasted page text), extracts and normalizes the listed events, and
// writes them as an RSS feed, optionally with an iCalendar file alongside.
// The verify subcommand parses an emitted feed back and reports what a feed
// reader would see.
package cli
