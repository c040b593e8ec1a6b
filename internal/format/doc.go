// Package format implements the dictionary file format.
//
// One entry per line, two fields separated by ';':
//
//	<text>;<word-class-ordinal>\n
//
// The ordinal is a decimal integer in WordClass order (0=noun … 9=name).
// Out-of-range ordinals decode to model.Unknown. There is no escaping, so
// text may contain neither ';' nor a newline.
package format
