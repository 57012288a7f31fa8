// Package shell is the profile editing screen: it owns the page chrome
// (title and share link) while mounted and lays out the widget editor next
// to a live mobile preview of the public profile.
package shell
