// Package language normalizes language names and codes to the ISO 639-1 keys
// used by the model table and the decoders.
package language
