// Package public renders widgets and whole profiles for the public-facing
// page. Renderers are pure: the same data, theme and class name always
// produce the same markup.
package public
