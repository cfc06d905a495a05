package test

import (
	"math/rand"
	"strings"
)

// validTokens is a corpus of standalone valid lexemes of the source
// language, used to fuzz the tokenizer with random-but-legal input.
const validTokens = "class;constructor;function;method;field;static;var;int;char;boolean;void;true;false;null;this;let;do;if;else;while;return;(;);{;};[;];.;,;;;+;-;*;/;&;|;>;<;=;~;Main;foo;x;\"this is a string\";\"\";123;321;32767;//a line comment\n;\n"

// GetRandomTokens builds a space-separated run of size random valid
// lexemes.
func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

// GetRandomTokensWithSep builds a run of size random valid lexemes joined
// by sep.
func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
