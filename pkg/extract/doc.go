// Package extract turns a kintone form (field definitions plus an optional
// layout tree) into an ordered field list and the display groups a reader of
// the form would perceive: runs of adjacent rows, GROUP sections and
// subtables. The walk is a fold over the layout tree; every level receives
// the running state and returns the updated one, so no closure shares
// mutable buffers across recursion.
package extract
