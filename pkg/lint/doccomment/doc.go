// Package doccomment validates the doc comment in front of a declaration.
//
// A Validator walks back from a declaration keyword to the preceding
// construct, then checks the tags of the doc comment it finds against a
// Policy: an ordered list of tag rules, a blacklist, and per-tag content
// checks. Policies are plain values; ClassPolicy and FilePolicy are the
// built-in presets and Derive builds variations of them.
package doccomment
