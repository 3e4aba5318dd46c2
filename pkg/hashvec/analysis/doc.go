// Package analysis turns text documents into token sequences.
//
// The SimpleAnalyzer lowercases text, folds accents away (NFD decomposition
// followed by removal of nonspacing marks) and extracts every maximal run of
// at least two word characters. Word characters are Unicode letters, Unicode
// numbers and the underscore. Byte input is decoded with a configurable
// charset; sequences the charset cannot decode are dropped.
//
// Any type with an Analyze method can stand in for SimpleAnalyzer wherever an
// Analyzer is accepted.
package analysis
