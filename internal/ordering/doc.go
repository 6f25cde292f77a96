// Package ordering resolves the processing order of a content set's files.
//
// Ranked files come first, ascending by rank with filename as the tie
// breaker. Unranked files follow in filename order. When too many files are
// unranked the resolver asks a Classifier for an order, validates that the
// answer is an exact permutation of the unranked filenames, and falls back
// to filename order when the classifier is missing, slow, failing, or wrong.
package ordering
