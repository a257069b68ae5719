// Package feed writes event records as an RSS 2.0 document and checks
// emitted documents by parsing them back with gofeed.
package feed
