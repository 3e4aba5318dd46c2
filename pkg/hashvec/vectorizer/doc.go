// Package vectorizer converts text documents into fixed-dimension term
// frequency vectors with the hashing trick.
//
// Every token is hashed once per probe into one of Dim buckets and adds a
// signed unit to it; the vector is then divided by tokens*probes. A running
// document-frequency count per bucket (starting at one) supports IDF
// weighting across a growing corpus:
//
//	idf[j] = log(sampled / df[j])
//
// Documents without tokens produce an all-zero vector rather than dividing
// by zero. They still count as sampled documents.
//
// A HashingVectorizer serializes its own method calls, so it may be shared
// between goroutines.
package vectorizer
