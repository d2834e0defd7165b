// Package category assigns apps to coarse categories for grouping in the
// generated documentation. Explicit assignments from the apps registry win;
// otherwise an ordered list of rules inspects the app name and the first
// matching rule decides.
package category
