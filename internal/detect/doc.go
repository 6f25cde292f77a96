// Package detect groups a folder's pending files into content sets.
//
// Pattern mode groups files whose sequence tokens share a series stem and
// rank family (see package sequence). Prefix mode clusters files whose
// normalized names share a long enough leading prefix. Auto mode runs
// pattern detection and falls back to prefix clustering when pattern
// detection finds no group with more than one member.
//
// Detection is pure: the same input list and options always produce the
// same sets, in the same order, with the same identifiers.
package detect
