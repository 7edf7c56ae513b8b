package prompt

import (
	"strings"
	"testing"
)

func TestAssemble_Ungrounded(t *testing.T) {
	got := Assemble("user: hi\nassistant: hello", nil, "when to sow wheat?")

	if strings.Contains(got, "Relevant document content") {
		t.Error("Ungrounded prompt must omit the document section entirely")
	}
	if !strings.HasPrefix(got, Preamble) {
		t.Error("Prompt must start with the persona preamble")
	}
	if !strings.HasSuffix(got, "User query: when to sow wheat?") {
		t.Errorf("Prompt must end with the labeled query, got tail %q", got[len(got)-40:])
	}
}

func TestAssemble_GroundedBestFirst(t *testing.T) {
	docs := []string{"best matching chunk", "second chunk"}
	got := Assemble("", docs, "q")

	section := "Relevant document content:\nbest matching chunk\n\nsecond chunk"
	if !strings.Contains(got, section) {
		t.Errorf("Document section missing or out of order:\n%s", got)
	}

	first := strings.Index(got, "best matching chunk")
	second := strings.Index(got, "second chunk")
	if first > second {
		t.Error("Best match must come first")
	}
}

func TestAssemble_QueryAppearsOnce(t *testing.T) {
	got := Assemble("", nil, "drip irrigation")
	if strings.Count(got, "drip irrigation") != 1 {
		t.Error("Query must appear exactly once, in the labeled position")
	}
}

func TestAssemble_HistoryBetweenPreambleAndQuery(t *testing.T) {
	got := Assemble("user: A\nassistant: B", nil, "C")
	want := Preamble + "\nuser: A\nassistant: B\n\nUser query: C"
	if got != want {
		t.Errorf("Assembled prompt mismatch:\ngot  %q\nwant %q", got, want)
	}
}
