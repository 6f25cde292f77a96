// Package sequence extracts a file's position within a series from its
// filename.
//
// Extraction runs an ordered table of independent matchers against the
// lower-cased filename with its extension removed; the first matcher that
// fires wins. The default table, highest priority first:
//
//	numeric_prefix  01-intro.pdf, 2_setup.docx
//	keyword         module-01.pdf, Ch1.pdf, lesson 3.pdf, week_02.pptx
//	numeric_infix   python-course-03.pdf
//	roman           ii-methods.pdf
//	letter          b-basics.pdf (i, v and x are left to the roman rule)
//
// A filename that matches nothing yields no signal. That is not an error;
// the caller treats the file as unranked.
package sequence
