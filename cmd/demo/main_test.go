package main

import (
	"bytes"
	"testing"
)

func TestRunPrintsScenario(t *testing.T) {
	var buf bytes.Buffer
	if err := run(&buf); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := `Initial Balances:
Account ACC123: 1000
Account ACC456: 500
Error during withdrawal: Not enough funds to withdraw.
Final Balances:
Account ACC123: 900
Account ACC456: 800
`
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}
