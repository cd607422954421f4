// SPDX-License-Identifier: MIT
package lexer

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func scan(t *testing.T, src string) *Stream {
	t.Helper()
	var out Stream
	if err := Scan([]byte(src), *NewOpts(), &out); err != nil {
		t.Fatalf("Scan(%q): %v", src, err)
	}
	return &out
}

func kinds(s *Stream) []Kind {
	ks := make([]Kind, len(s.Tokens))
	for i, tok := range s.Tokens {
		ks[i] = tok.Kind
	}
	return ks
}

func TestScanIdentAndKeyword(t *testing.T) {
	s := scan(t, "foo if")
	got := kinds(s)
	want := []Kind{KindIndent, KindIdent, KindIf, KindEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
	}{
		{"123", KindNumber},
		{"1.5", KindNumber},
		{"1e10", KindNumber},
		{"1e-3", KindNumber},
		{"0x1F", KindNonDecimalInt},
		{"0o17", KindNonDecimalInt},
		{"0b101", KindNonDecimalInt},
		{"0u'a'", KindNonDecimalInt},
	}
	for _, tc := range tests {
		s := scan(t, tc.src)
		if len(s.Tokens) < 2 || s.Tokens[1].Kind != tc.kind {
			t.Fatalf("%q: got %v, want second token %v", tc.src, kinds(s), tc.kind)
		}
	}
}

func TestScanNumberBadExponentIgnoreErrors(t *testing.T) {
	tests := []string{"1e", "1e-"}
	for _, src := range tests {
		var out Stream
		opts := *NewOpts()
		opts.IgnoreErrors = true
		if err := Scan([]byte(src), opts, &out); err != nil {
			t.Fatalf("%q: IgnoreErrors should not abort scanning: %v", src, err)
		}
		var sawNumber, sawErr bool
		for _, tok := range out.Tokens {
			switch tok.Kind {
			case KindNumber:
				sawNumber = true
				if got := tok.Text([]byte(src)); got != "1" {
					t.Fatalf("%q: number token text = %q, want %q", src, got, "1")
				}
			case KindErr:
				sawErr = true
			}
		}
		if !sawNumber {
			t.Fatalf("%q: leading digits before a malformed exponent must still be tokenized as KindNumber, got %v", src, kinds(&out))
		}
		if !sawErr {
			t.Fatalf("%q: malformed exponent must still surface a KindErr token, got %v", src, kinds(&out))
		}
	}
}

func TestScanStringSimple(t *testing.T) {
	s := scan(t, `"hello"`)
	if s.Tokens[1].Kind != KindString {
		t.Fatalf("got %v, want KindString", kinds(s))
	}
	if got := s.Tokens[1].Text([]byte(`"hello"`)); got != `"hello"` {
		t.Fatalf("Text() = %q", got)
	}
}

func TestScanStringUnterminated(t *testing.T) {
	var out Stream
	err := Scan([]byte(`"hello`), *NewOpts(), &out)
	if err == nil {
		t.Fatal("expected unterminated string error")
	}
}

func TestScanStringInterpolation(t *testing.T) {
	s := scan(t, `"a{x}b"`)
	got := kinds(s)
	want := []Kind{KindIndent, KindTemplateString, KindTemplateExprStart, KindIdent, KindRightBrace, KindTemplateString, KindEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v (full %v)", i, got[i], want[i], got)
		}
	}
}

func TestScanIndentSpacesVsTabs(t *testing.T) {
	s := scan(t, "  x\n\ty\n")
	var indents []Token
	for _, tok := range s.Tokens {
		if tok.Kind == KindIndent {
			indents = append(indents, tok)
		}
	}
	if len(indents) != 2 {
		t.Fatalf("want 2 indent tokens, got %d", len(indents))
	}
	if indents[0].IndentIsTabs() {
		t.Fatal("first line uses spaces, should not report tabs")
	}
	if indents[0].IndentCount() != 2 {
		t.Fatalf("want indent count 2, got %d", indents[0].IndentCount())
	}
	if !indents[1].IndentIsTabs() {
		t.Fatal("second line uses a tab, should report tabs")
	}
	if indents[1].IndentCount() != 1 {
		t.Fatalf("want indent count 1, got %d", indents[1].IndentCount())
	}
}

func TestScanOperators(t *testing.T) {
	s := scan(t, "== != <= >= << >> ||")
	for _, tok := range s.Tokens {
		if tok.Kind == KindIndent || tok.Kind == KindEOF {
			continue
		}
		if tok.Kind != KindOperator && tok.Kind != KindLogicOp {
			t.Fatalf("unexpected kind %v in multi-op scan", tok.Kind)
		}
	}
}

func TestScanLineComment(t *testing.T) {
	s := scan(t, "x -- trailing comment\n")
	got := kinds(s)
	want := []Kind{KindIndent, KindIdent, KindNewLine, KindEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScanShebangSkipped(t *testing.T) {
	s := scan(t, "#!/usr/bin/env corvid\nx\n")
	got := kinds(s)
	want := []Kind{KindIndent, KindIdent, KindNewLine, KindEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScanIgnoreErrorsProducesErrToken(t *testing.T) {
	var out Stream
	opts := *NewOpts()
	opts.IgnoreErrors = true
	if err := Scan([]byte("$"), opts, &out); err != nil {
		t.Fatalf("IgnoreErrors should not abort scanning: %v", err)
	}
	found := false
	for _, tok := range out.Tokens {
		if tok.Kind == KindErr {
			found = true
		}
	}
	if !found {
		t.Fatal("want a KindErr token for unrecognized input")
	}
}

func BenchmarkScan(b *testing.B) {
	src := []byte("func add(a, b):\n    return a + b * 2\n")
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	opts := Opts{Logger: logger}

	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		var out Stream
		if err := Scan(src, opts, &out); err != nil {
			b.Fatalf("Scan: %v", err)
		}
	}
}

func TestStreamResetRetainsCapacity(t *testing.T) {
	var s Stream
	s.Push(Token{Kind: KindIdent})
	s.Push(Token{Kind: KindNumber})
	cap0 := cap(s.Tokens)
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("want 0 tokens after Reset, got %d", s.Len())
	}
	if cap(s.Tokens) != cap0 {
		t.Fatalf("Reset should retain backing array capacity")
	}
}
