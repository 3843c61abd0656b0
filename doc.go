// Package wikiredirect extracts redirect mappings from the wikipedia
// xml dump format without decoding the xml.
//
// The dumps are available from the wikimedia group here:
//	http://dumps.wikimedia.org/
//
// An Extractor scans the dump line by line and emits a Redirect for
// each redirect page it finds.  The results can be kept in a
// Redirects index and saved either as tab separated text or as a
// snapshot for faster reloading.
//
// Hypernym data (tab separated word pairs from NICT's hyponymy
// extraction tool) can be loaded into a Hypernyms index.
//
// See the programs in the tools subpackages for how these fit
// together.
package wikiredirect
